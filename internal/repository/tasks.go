package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"tugasku/pkg/models"
	"tugasku/pkg/logger"
)

// TaskStore is the Postgres-backed task collection. Reads resolve the
// related course through a LEFT JOIN so responses carry the embedded
// course sub-object without a second query.
type TaskStore struct{}

func NewTaskStore() *TaskStore { return &TaskStore{} }

// The join is scoped by device: a course_id pointing at another device's
// course renders as no course, never as that device's data.
const taskSelect = `SELECT t.id, t.device_id, t.title, t.description, t.course_id,
	t.priority, t.status, t.due_date, t.created_at, t.updated_at,
	c.id, c.name, c.code
	FROM tasks t LEFT JOIN courses c ON c.id = t.course_id AND c.device_id = t.device_id`

func scanTask(row interface{ Scan(...interface{}) error }) (models.Task, error) {
	var (
		t        models.Task
		courseID sql.NullString
		due      sql.NullTime
		refID    sql.NullString
		refName  sql.NullString
		refCode  sql.NullString
	)
	err := row.Scan(&t.ID, &t.DeviceID, &t.Title, &t.Description, &courseID,
		&t.Priority, &t.Status, &due, &t.CreatedAt, &t.UpdatedAt,
		&refID, &refName, &refCode)
	if err != nil {
		return models.Task{}, err
	}
	if courseID.Valid {
		t.CourseID = &courseID.String
	}
	if due.Valid {
		d := models.NewDate(due.Time)
		t.DueDate = &d
	}
	if refID.Valid {
		t.Course = &models.CourseRef{ID: refID.String, Name: refName.String, Code: refCode.String}
	}
	return t, nil
}

// List returns the device's tasks, optionally filtered by status.
// Default order is creation time descending; SortDueDate orders by due
// date ascending with undated tasks last.
func (s *TaskStore) List(ctx context.Context, deviceID string, f models.TaskFilter) ([]models.Task, error) {
	d, err := db(ctx)
	if err != nil {
		return nil, err
	}
	q := taskSelect + ` WHERE t.device_id = $1`
	args := []interface{}{deviceID}
	if f.Status != "" {
		args = append(args, string(f.Status))
		q += fmt.Sprintf(` AND t.status = $%d`, len(args))
	}
	if f.Sort == models.SortDueDate {
		q += ` ORDER BY t.due_date ASC NULLS LAST, t.created_at DESC`
	} else {
		q += ` ORDER BY t.created_at DESC`
	}
	rows, err := d.QueryContext(ctx, q, args...)
	if err != nil {
		logger.Error(ctx, "Repository list tasks failed", "error", err)
		return nil, err
	}
	defer rows.Close()
	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			logger.Error(ctx, "Repository scan task failed", "error", err)
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// Get fetches a single task by id and device id.
func (s *TaskStore) Get(ctx context.Context, deviceID, id string) (models.Task, error) {
	d, err := db(ctx)
	if err != nil {
		return models.Task{}, err
	}
	t, err := scanTask(d.QueryRowContext(ctx,
		taskSelect+` WHERE t.id = $1 AND t.device_id = $2`, id, deviceID))
	if isNoRows(err) {
		return models.Task{}, ErrNotFound
	}
	if err != nil {
		logger.Error(ctx, "Repository get task failed", "error", err, "id", id)
		return models.Task{}, err
	}
	return t, nil
}

// Create inserts a new task and resolves the course sub-object for the
// response.
func (s *TaskStore) Create(ctx context.Context, t *models.Task) error {
	d, err := db(ctx)
	if err != nil {
		return err
	}
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now
	var due interface{}
	if t.DueDate != nil {
		due = *t.DueDate
	}
	var courseID interface{}
	if t.CourseID != nil && *t.CourseID != "" {
		courseID = *t.CourseID
	}
	_, err = d.ExecContext(ctx,
		`INSERT INTO tasks (id, device_id, title, description, course_id, priority, status, due_date, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		t.ID, t.DeviceID, t.Title, t.Description, courseID, t.Priority, t.Status, due, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		logger.Error(ctx, "Repository create task failed", "error", err)
		return err
	}
	return s.attachCourse(ctx, t)
}

// Update applies a partial update by id and device id and returns the
// updated row with its course sub-object.
func (s *TaskStore) Update(ctx context.Context, deviceID, id string, p models.TaskPatch) (models.Task, error) {
	d, err := db(ctx)
	if err != nil {
		return models.Task{}, err
	}
	sets := []string{"updated_at = $1"}
	args := []interface{}{time.Now()}
	add := func(col string, v interface{}) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if p.Title != nil {
		add("title", *p.Title)
	}
	if p.Description != nil {
		add("description", *p.Description)
	}
	if p.CourseID != nil {
		// empty string clears the reference
		if *p.CourseID == "" {
			add("course_id", nil)
		} else {
			add("course_id", *p.CourseID)
		}
	}
	if p.Priority != nil {
		add("priority", string(*p.Priority))
	}
	if p.Status != nil {
		add("status", string(*p.Status))
	}
	if p.DueDate != nil {
		add("due_date", *p.DueDate)
	}
	args = append(args, id, deviceID)
	q := fmt.Sprintf(`UPDATE tasks SET %s WHERE id = $%d AND device_id = $%d RETURNING id`,
		join(sets), len(args)-1, len(args))
	var updatedID string
	err = d.QueryRowContext(ctx, q, args...).Scan(&updatedID)
	if isNoRows(err) {
		return models.Task{}, ErrNotFound
	}
	if err != nil {
		logger.Error(ctx, "Repository update task failed", "error", err, "id", id)
		return models.Task{}, err
	}
	return s.Get(ctx, deviceID, updatedID)
}

// Delete removes a task by id and device id. Deleting someone else's task
// (or a missing id) reports ErrNotFound rather than silently succeeding.
func (s *TaskStore) Delete(ctx context.Context, deviceID, id string) error {
	d, err := db(ctx)
	if err != nil {
		return err
	}
	res, err := d.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1 AND device_id = $2`, id, deviceID)
	if err != nil {
		logger.Error(ctx, "Repository delete task failed", "error", err, "id", id)
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *TaskStore) attachCourse(ctx context.Context, t *models.Task) error {
	if t.CourseID == nil || *t.CourseID == "" {
		t.CourseID = nil
		t.Course = nil
		return nil
	}
	d, err := db(ctx)
	if err != nil {
		return err
	}
	var ref models.CourseRef
	err = d.QueryRowContext(ctx,
		`SELECT id, name, code FROM courses WHERE id = $1 AND device_id = $2`, *t.CourseID, t.DeviceID).
		Scan(&ref.ID, &ref.Name, &ref.Code)
	if isNoRows(err) {
		// tolerated: reference points nowhere, client renders the fallback
		t.Course = nil
		return nil
	}
	if err != nil {
		return err
	}
	t.Course = &ref
	return nil
}
