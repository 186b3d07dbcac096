package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"tugasku/pkg/models"
)

func TestTaskListKeyIsPerDevice(t *testing.T) {
	assert.Equal(t, "tasks:dev-1", TaskListKey("dev-1"))
	assert.NotEqual(t, TaskListKey("dev-1"), TaskListKey("dev-2"))
}

func TestCacheDegradesWithoutRedis(t *testing.T) {
	// REDIS_URL is unset in tests: every helper must be a safe no-op
	ctx := context.Background()

	SetTasks(ctx, "dev-1", []models.Task{{ID: "t1"}})
	tasks, hit := GetTasks(ctx, "dev-1")
	assert.False(t, hit)
	assert.Nil(t, tasks)

	InvalidateTasks(ctx, "dev-1")
}
