package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"tugasku/internal/config"
	"tugasku/pkg/models"
	"tugasku/pkg/logger"
)

var (
	client *redis.Client
	once   sync.Once
)

// Client returns the global Redis client, or nil when REDIS_URL is not
// configured or the connection failed. All cache helpers degrade to
// no-ops on a nil client; reads then hit the database directly.
func Client(ctx context.Context) *redis.Client {
	once.Do(func() {
		cfg := config.Get()
		if cfg.RedisURL == "" {
			return
		}
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Error(ctx, "Invalid REDIS_URL", "error", err, "url", cfg.RedisURL)
			return
		}
		opts.PoolSize = cfg.RedisPoolSize
		c := redis.NewClient(opts)
		if err := c.Ping(ctx).Err(); err != nil {
			logger.Error(ctx, "Redis ping failed", "error", err)
			return
		}
		client = c
		logger.Info(ctx, "Redis client initialized", "pool_size", cfg.RedisPoolSize)
	})
	return client
}

// TaskListKey returns the cache key for a device's unfiltered task list.
func TaskListKey(deviceID string) string {
	return "tasks:" + deviceID
}

// GetTasks reads a device's task list from Redis. Returns (nil, false) on
// miss or error.
func GetTasks(ctx context.Context, deviceID string) ([]models.Task, bool) {
	c := Client(ctx)
	if c == nil {
		return nil, false
	}
	b, err := c.Get(ctx, TaskListKey(deviceID)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		logger.Debug(ctx, "Redis get tasks failed", "error", err)
		return nil, false
	}
	var tasks []models.Task
	if err := json.Unmarshal(b, &tasks); err != nil {
		logger.Debug(ctx, "Redis unmarshal tasks failed", "error", err)
		return nil, false
	}
	return tasks, true
}

// SetTasks writes a device's task list to Redis with the configured TTL.
func SetTasks(ctx context.Context, deviceID string, tasks []models.Task) {
	c := Client(ctx)
	if c == nil {
		return
	}
	b, err := json.Marshal(tasks)
	if err != nil {
		logger.Debug(ctx, "Marshal tasks for cache failed", "error", err)
		return
	}
	ttl := time.Duration(config.Get().CacheTTL) * time.Second
	if err := c.Set(ctx, TaskListKey(deviceID), b, ttl).Err(); err != nil {
		logger.Debug(ctx, "Redis set tasks failed", "error", err)
	}
}

// InvalidateTasks drops a device's cached task list. Called after any
// task write, and after course writes too since course names are
// embedded in task responses.
func InvalidateTasks(ctx context.Context, deviceID string) {
	c := Client(ctx)
	if c == nil {
		return
	}
	if err := c.Del(ctx, TaskListKey(deviceID)).Err(); err != nil {
		logger.Debug(ctx, "Redis invalidate tasks failed", "error", err)
	}
}
