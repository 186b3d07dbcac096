package client

import (
	"sort"
	"strings"
	"time"

	"tugasku/pkg/models"
)

// CourseFallbackName labels tasks with no (or a dangling) course
// reference. Applied at render time only; the stored course_id stays null.
const CourseFallbackName = "Umum"

// CourseLabel returns the display name for a task's course.
func CourseLabel(t models.Task) string {
	if t.Course != nil && t.Course.Name != "" {
		return t.Course.Name
	}
	return CourseFallbackName
}

// Stats are the dashboard counters, derived client-side from the raw
// task list. Day comparisons are midnight-normalized so the time of day
// never skews due-today/overdue.
type Stats struct {
	Total    int
	Pending  int
	DueToday int
	Overdue  int
}

// ComputeStats derives the dashboard counters relative to now.
func ComputeStats(tasks []models.Task, now time.Time) Stats {
	var s Stats
	s.Total = len(tasks)
	for _, t := range tasks {
		if t.Status.Done() {
			continue
		}
		s.Pending++
		if t.DueDate == nil {
			continue
		}
		if t.DueDate.SameDay(now) {
			s.DueToday++
		} else if t.DueDate.Before(now) {
			s.Overdue++
		}
	}
	return s
}

// Pending returns the not-yet-done tasks.
func Pending(tasks []models.Task) []models.Task {
	var out []models.Task
	for _, t := range tasks {
		if !t.Status.Done() {
			out = append(out, t)
		}
	}
	return out
}

// Completed returns the finished tasks (the history view).
func Completed(tasks []models.Task) []models.Task {
	var out []models.Task
	for _, t := range tasks {
		if t.Status.Done() {
			out = append(out, t)
		}
	}
	return out
}

// Upcoming returns up to n pending tasks ordered by due date ascending;
// undated tasks sort last.
func Upcoming(tasks []models.Task, n int) []models.Task {
	pending := Pending(tasks)
	sort.SliceStable(pending, func(i, j int) bool {
		a, b := pending[i].DueDate, pending[j].DueDate
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Time.Before(b.Time)
		}
	})
	if n > 0 && len(pending) > n {
		pending = pending[:n]
	}
	return pending
}

// DueOn returns the pending tasks due on the given calendar day.
func DueOn(tasks []models.Task, day time.Time) []models.Task {
	var out []models.Task
	for _, t := range tasks {
		if t.Status.Done() || t.DueDate == nil {
			continue
		}
		if t.DueDate.SameDay(day) {
			out = append(out, t)
		}
	}
	return out
}

// Filter narrows a task list by priority and/or a case-insensitive title
// search, the way the tasks screen does.
func Filter(tasks []models.Task, priority models.Priority, search string) []models.Task {
	search = strings.ToLower(strings.TrimSpace(search))
	var out []models.Task
	for _, t := range tasks {
		if priority != "" && t.Priority != priority {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(t.Title), search) {
			continue
		}
		out = append(out, t)
	}
	return out
}
