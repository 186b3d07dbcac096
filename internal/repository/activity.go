package repository

import (
	"context"

	"github.com/google/uuid"
	"tugasku/pkg/models"
	"tugasku/pkg/logger"
)

// ActivityStore persists the change-feed entries written by the worker
// and read by GET /api/activity.
type ActivityStore struct{}

func NewActivityStore() *ActivityStore { return &ActivityStore{} }

// Record inserts one activity entry.
func (s *ActivityStore) Record(ctx context.Context, a *models.Activity) error {
	d, err := db(ctx)
	if err != nil {
		return err
	}
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	_, err = d.ExecContext(ctx,
		`INSERT INTO activity (id, device_id, entity, action, record_id, title, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, a.DeviceID, a.Entity, a.Action, a.RecordID, a.Title, a.CreatedAt)
	if err != nil {
		logger.Error(ctx, "Repository record activity failed", "error", err)
		return err
	}
	return nil
}

// Recent returns the device's latest activity entries, newest first.
func (s *ActivityStore) Recent(ctx context.Context, deviceID string, limit int) ([]models.Activity, error) {
	d, err := db(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := d.QueryContext(ctx,
		`SELECT id, device_id, entity, action, record_id, title, created_at
		 FROM activity WHERE device_id = $1 ORDER BY created_at DESC LIMIT $2`, deviceID, limit)
	if err != nil {
		logger.Error(ctx, "Repository list activity failed", "error", err)
		return nil, err
	}
	defer rows.Close()
	var entries []models.Activity
	for rows.Next() {
		var a models.Activity
		if err := rows.Scan(&a.ID, &a.DeviceID, &a.Entity, &a.Action, &a.RecordID, &a.Title, &a.CreatedAt); err != nil {
			logger.Error(ctx, "Repository scan activity failed", "error", err)
			return nil, err
		}
		entries = append(entries, a)
	}
	return entries, rows.Err()
}
