package models

import (
	"fmt"
	"strings"
)

// Status is the canonical task status. The original clients sent several
// synonyms ("Todo", "On Progress", "Completed"); they are folded into the
// canonical set once at the boundary so consumers never string-match twice.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In Progress"
	StatusDone       Status = "Done"
)

// ParseStatus canonicalizes a wire status string. Empty input is allowed
// and returns the empty status (caller applies the default).
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case "pending", "todo":
		return StatusPending, nil
	case "in progress", "on progress", "in-progress":
		return StatusInProgress, nil
	case "done", "completed":
		return StatusDone, nil
	}
	return "", fmt.Errorf("invalid status %q", s)
}

// Done reports whether the status counts as completed for the derived
// pending/overdue views.
func (s Status) Done() bool {
	return s == StatusDone
}

// Priority is the task priority level.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// ParsePriority canonicalizes a wire priority string. Empty input returns
// the empty priority (caller applies the default).
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case "high":
		return PriorityHigh, nil
	case "medium":
		return PriorityMedium, nil
	case "low":
		return PriorityLow, nil
	}
	return "", fmt.Errorf("invalid priority %q", s)
}
