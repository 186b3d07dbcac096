package database

import (
	"context"

	"tugasku/pkg/logger"
)

// Tasks reference courses with ON DELETE SET NULL: deleting a course must
// not delete its tasks, but it must not leave dangling references either.
// The client renders a null course as the "Umum" (General) bucket.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS courses (
		id          UUID PRIMARY KEY,
		device_id   TEXT NOT NULL,
		name        TEXT NOT NULL,
		code        TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_courses_device ON courses (device_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS tasks (
		id          UUID PRIMARY KEY,
		device_id   TEXT NOT NULL,
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		course_id   UUID REFERENCES courses (id) ON DELETE SET NULL,
		priority    TEXT NOT NULL DEFAULT 'Medium',
		status      TEXT NOT NULL DEFAULT 'Pending',
		due_date    DATE,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_device ON tasks (device_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_device_due ON tasks (device_id, due_date)`,
	`CREATE TABLE IF NOT EXISTS profiles (
		id         UUID PRIMARY KEY,
		device_id  TEXT NOT NULL UNIQUE,
		name       TEXT NOT NULL,
		student_id TEXT NOT NULL DEFAULT '',
		bio        TEXT NOT NULL DEFAULT '',
		major      TEXT NOT NULL DEFAULT '',
		avatar_url TEXT NOT NULL DEFAULT '',
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS activity (
		id         UUID PRIMARY KEY,
		device_id  TEXT NOT NULL,
		entity     TEXT NOT NULL,
		action     TEXT NOT NULL,
		record_id  TEXT NOT NULL,
		title      TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_activity_device ON activity (device_id, created_at DESC)`,
}

// MigrateOrCreateSchema creates the tables and indexes if they do not
// exist. Idempotent; called at startup and by the seed script.
func MigrateOrCreateSchema(ctx context.Context) error {
	db := DB(ctx)
	if db == nil {
		return errNoDB
	}
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			logger.Error(ctx, "Schema statement failed", "error", err)
			return err
		}
	}
	logger.Info(ctx, "Schema ensured")
	return nil
}
