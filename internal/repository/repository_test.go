package repository

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tugasku/internal/database"
	"tugasku/pkg/models"
)

// Integration tests: run only against a real Postgres, e.g.
// DATABASE_URL=postgres://... go test ./internal/repository
func setupDB(t *testing.T) context.Context {
	t.Helper()
	if os.Getenv("DATABASE_URL") == "" {
		t.Skip("DATABASE_URL not set; skipping repository integration tests")
	}
	ctx := context.Background()
	if database.DB(ctx) == nil {
		t.Skip("database unavailable")
	}
	require.NoError(t, database.MigrateOrCreateSchema(ctx))
	return ctx
}

func TestTaskLifecycleScopedByDevice(t *testing.T) {
	ctx := setupDB(t)
	tasks := NewTaskStore()
	deviceID := "it-device-" + t.Name()

	task := models.Task{
		DeviceID: deviceID,
		Title:    "integration",
		Priority: models.PriorityMedium,
		Status:   models.StatusPending,
	}
	require.NoError(t, tasks.Create(ctx, &task))
	t.Cleanup(func() { _ = tasks.Delete(ctx, deviceID, task.ID) })

	got, err := tasks.Get(ctx, deviceID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "integration", got.Title)

	// invisible to another device
	_, err = tasks.Get(ctx, "other-device", task.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// wrong-device delete affects nothing
	assert.ErrorIs(t, tasks.Delete(ctx, "other-device", task.ID), ErrNotFound)

	require.NoError(t, tasks.Delete(ctx, deviceID, task.ID))
	assert.ErrorIs(t, tasks.Delete(ctx, deviceID, task.ID), ErrNotFound)
}

func TestProfileUpsertSingleRow(t *testing.T) {
	ctx := setupDB(t)
	profiles := NewProfileStore()
	deviceID := "it-device-" + t.Name()

	first, err := profiles.Upsert(ctx, &models.Profile{DeviceID: deviceID, Name: "Budi"})
	require.NoError(t, err)

	second, err := profiles.Upsert(ctx, &models.Profile{DeviceID: deviceID, Name: "Budi Santoso"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "upsert must replace, not duplicate")
	assert.Equal(t, "Budi Santoso", second.Name)

	got, found, err := profiles.Get(ctx, deviceID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Budi Santoso", got.Name)
}

func TestCourseDeleteNullsTaskReference(t *testing.T) {
	ctx := setupDB(t)
	courses := NewCourseStore()
	tasks := NewTaskStore()
	deviceID := "it-device-" + t.Name()

	course := models.Course{DeviceID: deviceID, Name: "Basis Data"}
	require.NoError(t, courses.Create(ctx, &course))

	task := models.Task{
		DeviceID: deviceID,
		Title:    "ERD",
		CourseID: &course.ID,
		Priority: models.PriorityMedium,
		Status:   models.StatusPending,
	}
	require.NoError(t, tasks.Create(ctx, &task))
	t.Cleanup(func() { _ = tasks.Delete(ctx, deviceID, task.ID) })

	require.NoError(t, courses.Delete(ctx, deviceID, course.ID))

	got, err := tasks.Get(ctx, deviceID, task.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CourseID, "deleting a course must null the task's reference")
	assert.Nil(t, got.Course)
}

func TestTaskReadNeverEmbedsForeignCourse(t *testing.T) {
	ctx := setupDB(t)
	courses := NewCourseStore()
	tasks := NewTaskStore()

	victimDevice := "it-victim-" + t.Name()
	victim := models.Course{DeviceID: victimDevice, Name: "Rahasia"}
	require.NoError(t, courses.Create(ctx, &victim))
	t.Cleanup(func() { _ = courses.Delete(ctx, victimDevice, victim.ID) })

	deviceID := "it-device-" + t.Name()
	task := models.Task{
		DeviceID: deviceID,
		Title:    "sneaky",
		CourseID: &victim.ID,
		Priority: models.PriorityMedium,
		Status:   models.StatusPending,
	}
	require.NoError(t, tasks.Create(ctx, &task))
	t.Cleanup(func() { _ = tasks.Delete(ctx, deviceID, task.ID) })
	assert.Nil(t, task.Course)

	got, err := tasks.Get(ctx, deviceID, task.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Course, "another device's course must never be embedded")

	list, err := tasks.List(ctx, deviceID, models.TaskFilter{})
	require.NoError(t, err)
	for _, item := range list {
		if item.ID == task.ID {
			assert.Nil(t, item.Course)
		}
	}
}
