package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"tugasku/pkg/models"
	"tugasku/pkg/logger"
)

// CourseStore is the Postgres-backed course collection. Every statement is
// scoped by device_id; a course is only visible to the device that created it.
type CourseStore struct{}

func NewCourseStore() *CourseStore { return &CourseStore{} }

const courseColumns = `id, device_id, name, code, description, created_at, updated_at`

// List returns the device's courses, newest first.
func (s *CourseStore) List(ctx context.Context, deviceID string) ([]models.Course, error) {
	d, err := db(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := d.QueryContext(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE device_id = $1 ORDER BY created_at DESC`, deviceID)
	if err != nil {
		logger.Error(ctx, "Repository list courses failed", "error", err)
		return nil, err
	}
	defer rows.Close()
	var courses []models.Course
	for rows.Next() {
		var c models.Course
		if err := rows.Scan(&c.ID, &c.DeviceID, &c.Name, &c.Code, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			logger.Error(ctx, "Repository scan course failed", "error", err)
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// Get fetches a single course by id and device id.
func (s *CourseStore) Get(ctx context.Context, deviceID, id string) (models.Course, error) {
	d, err := db(ctx)
	if err != nil {
		return models.Course{}, err
	}
	var c models.Course
	err = d.QueryRowContext(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE id = $1 AND device_id = $2`, id, deviceID).
		Scan(&c.ID, &c.DeviceID, &c.Name, &c.Code, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if isNoRows(err) {
		return models.Course{}, ErrNotFound
	}
	if err != nil {
		logger.Error(ctx, "Repository get course failed", "error", err, "id", id)
		return models.Course{}, err
	}
	return c, nil
}

// Create inserts a new course, stamping id and timestamps.
func (s *CourseStore) Create(ctx context.Context, c *models.Course) error {
	d, err := db(ctx)
	if err != nil {
		return err
	}
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	_, err = d.ExecContext(ctx,
		`INSERT INTO courses (id, device_id, name, code, description, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.ID, c.DeviceID, c.Name, c.Code, c.Description, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		logger.Error(ctx, "Repository create course failed", "error", err)
		return err
	}
	return nil
}

// Update applies a partial update by id and device id and returns the
// updated row.
func (s *CourseStore) Update(ctx context.Context, deviceID, id string, p models.CoursePatch) (models.Course, error) {
	d, err := db(ctx)
	if err != nil {
		return models.Course{}, err
	}
	sets := []string{"updated_at = $1"}
	args := []interface{}{time.Now()}
	add := func(col string, v interface{}) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if p.Name != nil {
		add("name", *p.Name)
	}
	if p.Code != nil {
		add("code", *p.Code)
	}
	if p.Description != nil {
		add("description", *p.Description)
	}
	args = append(args, id, deviceID)
	q := fmt.Sprintf(`UPDATE courses SET %s WHERE id = $%d AND device_id = $%d RETURNING `+courseColumns,
		join(sets), len(args)-1, len(args))
	var c models.Course
	err = d.QueryRowContext(ctx, q, args...).
		Scan(&c.ID, &c.DeviceID, &c.Name, &c.Code, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if isNoRows(err) {
		return models.Course{}, ErrNotFound
	}
	if err != nil {
		logger.Error(ctx, "Repository update course failed", "error", err, "id", id)
		return models.Course{}, err
	}
	return c, nil
}

// Delete removes a course by id and device id. The schema nulls the
// course reference on the device's tasks.
func (s *CourseStore) Delete(ctx context.Context, deviceID, id string) error {
	d, err := db(ctx)
	if err != nil {
		return err
	}
	res, err := d.ExecContext(ctx,
		`DELETE FROM courses WHERE id = $1 AND device_id = $2`, id, deviceID)
	if err != nil {
		logger.Error(ctx, "Repository delete course failed", "error", err, "id", id)
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
