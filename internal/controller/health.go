package controller

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"tugasku/internal/cache"
	"tugasku/internal/config"
	"tugasku/internal/database"
	"tugasku/internal/middleware"
	"tugasku/pkg/models"

	"github.com/gin-gonic/gin"
)

// ListActivity handles GET /api/activity (?limit=N): the device's recent
// change-feed entries, written by the Kafka worker.
func (h *Controller) ListActivity(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	entries, err := h.activity.Recent(c.Request.Context(), middleware.DeviceID(c), limit)
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	if entries == nil {
		entries = []models.Activity{}
	}
	ok(c, entries)
}

// Index handles GET /: a small machine-readable API index.
func Index(c *gin.Context) {
	c.JSON(http.StatusOK, []gin.H{
		{
			"entity":  "Tasks",
			"path":    "/api/tasks",
			"methods": []string{"GET", "POST", "PUT", "DELETE"},
			"note":    "Requires the device-id header.",
		},
		{
			"entity":  "Courses",
			"path":    "/api/courses",
			"methods": []string{"GET", "POST", "PUT", "DELETE"},
			"note":    "Requires the device-id header.",
		},
		{
			"entity":  "Profiles",
			"path":    "/api/profiles",
			"methods": []string{"GET", "POST", "PUT"},
			"note":    "POST and PUT both upsert the device's single profile.",
		},
		{
			"entity":  "Activity",
			"path":    "/api/activity",
			"methods": []string{"GET"},
			"note":    "Recent record changes for the device.",
		},
	})
}

// Health returns 200 if the process is alive. Used by load balancers.
func Health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// Ready returns 200 if the database (and Redis, when configured) are
// reachable. Used by K8s readiness probes.
func Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	db := database.DB(ctx)
	if db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "database unavailable"})
		return
	}
	if err := db.PingContext(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "database ping failed"})
		return
	}
	if config.Get().RedisURL != "" && cache.Client(ctx) == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "redis unavailable"})
		return
	}
	c.String(http.StatusOK, "OK")
}
