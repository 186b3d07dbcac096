package models

import "time"

// HeaderDeviceID is the request header carrying the caller's device
// identifier. It is client-supplied and unverified: the device id is the
// tenancy key, not an authenticated identity.
const HeaderDeviceID = "device-id"

// Course is a course (mata kuliah) owned by a single device.
type Course struct {
	ID          string    `json:"id"`
	DeviceID    string    `json:"device_id"`
	Name        string    `json:"name"`
	Code        string    `json:"code,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CourseRef is the course sub-object embedded in task responses so the
// client never needs a second request to label a task.
type CourseRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code,omitempty"`
}

// Task is a single task row. CourseID is nullable; Course is populated
// from the join on reads and omitted when the task has no course.
type Task struct {
	ID          string     `json:"id"`
	DeviceID    string     `json:"device_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	CourseID    *string    `json:"course_id"`
	Priority    Priority   `json:"priority"`
	Status      Status     `json:"status"`
	DueDate     *Date      `json:"due_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Course      *CourseRef `json:"course,omitempty"`
}

// Profile is the (at most one) profile row for a device. device_id is a
// unique key; writes go through an upsert.
type Profile struct {
	ID        string    `json:"id"`
	DeviceID  string    `json:"device_id"`
	Name      string    `json:"name"`
	StudentID string    `json:"student_id,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	Major     string    `json:"major,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Activity is one change-feed entry, written by the worker from Kafka
// record events.
type Activity struct {
	ID        string    `json:"id"`
	DeviceID  string    `json:"device_id"`
	Entity    string    `json:"entity"`
	Action    string    `json:"action"`
	RecordID  string    `json:"record_id"`
	Title     string    `json:"title,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// RecordEvent is the message payload published to Kafka after a
// successful write (entity: task/course/profile, action: create/update/delete).
type RecordEvent struct {
	Entity     string    `json:"entity"`
	Action     string    `json:"action"`
	RecordID   string    `json:"record_id"`
	DeviceID   string    `json:"device_id"`
	Title      string    `json:"title,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// TaskPatch carries the fields of a partial task update. Nil means "leave
// unchanged". A non-nil empty CourseID clears the course reference.
type TaskPatch struct {
	Title       *string
	Description *string
	CourseID    *string
	Priority    *Priority
	Status      *Status
	DueDate     *Date
}

// CoursePatch carries the fields of a partial course update.
type CoursePatch struct {
	Name        *string
	Code        *string
	Description *string
}

// TaskFilter narrows a task list read.
type TaskFilter struct {
	Status Status // empty: all statuses
	Sort   string // SortCreated (default) or SortDueDate
}

const (
	SortCreated = "created"
	SortDueDate = "due"
)
