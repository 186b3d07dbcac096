package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"tugasku/pkg/models"
	"tugasku/pkg/logger"
)

// ProfileStore is the Postgres-backed profile collection. A device has at
// most one profile; writes are upserts keyed on device_id.
type ProfileStore struct{}

func NewProfileStore() *ProfileStore { return &ProfileStore{} }

const profileColumns = `id, device_id, name, student_id, bio, major, avatar_url, updated_at`

// Get fetches the device's profile. found is false for a device that has
// never saved one; that is not an error.
func (s *ProfileStore) Get(ctx context.Context, deviceID string) (p models.Profile, found bool, err error) {
	d, err := db(ctx)
	if err != nil {
		return models.Profile{}, false, err
	}
	err = d.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE device_id = $1`, deviceID).
		Scan(&p.ID, &p.DeviceID, &p.Name, &p.StudentID, &p.Bio, &p.Major, &p.AvatarURL, &p.UpdatedAt)
	if isNoRows(err) {
		return models.Profile{}, false, nil
	}
	if err != nil {
		logger.Error(ctx, "Repository get profile failed", "error", err)
		return models.Profile{}, false, err
	}
	return p, true, nil
}

// Upsert creates or replaces the device's profile and returns the stored
// row. Saving twice for one device leaves exactly one row.
func (s *ProfileStore) Upsert(ctx context.Context, p *models.Profile) (models.Profile, error) {
	d, err := db(ctx)
	if err != nil {
		return models.Profile{}, err
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	p.UpdatedAt = time.Now()
	var stored models.Profile
	err = d.QueryRowContext(ctx,
		`INSERT INTO profiles (id, device_id, name, student_id, bio, major, avatar_url, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (device_id) DO UPDATE SET
			name = EXCLUDED.name,
			student_id = EXCLUDED.student_id,
			bio = EXCLUDED.bio,
			major = EXCLUDED.major,
			avatar_url = EXCLUDED.avatar_url,
			updated_at = EXCLUDED.updated_at
		 RETURNING `+profileColumns,
		p.ID, p.DeviceID, p.Name, p.StudentID, p.Bio, p.Major, p.AvatarURL, p.UpdatedAt).
		Scan(&stored.ID, &stored.DeviceID, &stored.Name, &stored.StudentID, &stored.Bio,
			&stored.Major, &stored.AvatarURL, &stored.UpdatedAt)
	if err != nil {
		logger.Error(ctx, "Repository upsert profile failed", "error", err)
		return models.Profile{}, err
	}
	return stored, nil
}
