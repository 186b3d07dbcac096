package controller

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"tugasku/internal/cache"
	"tugasku/internal/middleware"
	"tugasku/internal/repository"
	"tugasku/pkg/logger"
	"tugasku/pkg/models"

	"github.com/gin-gonic/gin"
)

type taskInput struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	CourseID    *string      `json:"course_id"`
	Priority    string       `json:"priority"`
	Status      string       `json:"status"`
	DueDate     *models.Date `json:"due_date"`
}

type taskPatchInput struct {
	Title       *string      `json:"title"`
	Description *string      `json:"description"`
	CourseID    *string      `json:"course_id"`
	Priority    *string      `json:"priority"`
	Status      *string      `json:"status"`
	DueDate     *models.Date `json:"due_date"`
}

// ListTasks handles GET /api/tasks. Optional query: status (any accepted
// synonym), sort (created|due). The unfiltered default-order list is
// cache-first with singleflight dedupe on miss.
func (h *Controller) ListTasks(c *gin.Context) {
	ctx := c.Request.Context()
	deviceID := middleware.DeviceID(c)

	status, err := models.ParseStatus(c.Query("status"))
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	sort := models.SortCreated
	if s := strings.TrimSpace(c.Query("sort")); s == models.SortDueDate || s == "due_date" {
		sort = models.SortDueDate
	}
	filter := models.TaskFilter{Status: status, Sort: sort}

	cacheable := status == "" && sort == models.SortCreated
	if cacheable {
		if tasks, hit := cache.GetTasks(ctx, deviceID); hit {
			ok(c, tasks)
			return
		}
	}

	// the flight is shared across callers; detach it from this request's
	// context so one caller disconnecting cannot fail the others
	loadCtx := context.WithoutCancel(ctx)
	key := deviceID + ":" + string(status) + ":" + sort
	v, err, _ := h.listGroup.Do(key, func() (interface{}, error) {
		return h.tasks.List(loadCtx, deviceID, filter)
	})
	if err != nil {
		logger.Error(ctx, "List tasks failed", "error", err)
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	tasks, _ := v.([]models.Task)
	if tasks == nil {
		tasks = []models.Task{}
	}
	if cacheable {
		cache.SetTasks(ctx, deviceID, tasks)
	}
	ok(c, tasks)
}

// courseOwned verifies that a referenced course exists for this device.
// A foreign or unknown course id is rejected, never silently attached.
func (h *Controller) courseOwned(c *gin.Context, deviceID, courseID string) bool {
	_, err := h.courses.Get(c.Request.Context(), deviceID, courseID)
	if err == nil {
		return true
	}
	if errors.Is(err, repository.ErrNotFound) {
		fail(c, http.StatusBadRequest, "Course not found")
	} else {
		fail(c, http.StatusInternalServerError, err.Error())
	}
	return false
}

// GetTask handles GET /api/tasks/:id.
func (h *Controller) GetTask(c *gin.Context) {
	deviceID := middleware.DeviceID(c)
	t, err := h.tasks.Get(c.Request.Context(), deviceID, c.Param("id"))
	if err != nil {
		storeFail(c, err, http.StatusInternalServerError)
		return
	}
	ok(c, t)
}

// CreateTask handles POST /api/tasks. Title is required; priority and
// status default to Medium/Pending and synonyms are canonicalized here.
func (h *Controller) CreateTask(c *gin.Context) {
	ctx := c.Request.Context()
	deviceID := middleware.DeviceID(c)

	var body taskInput
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request")
		return
	}
	if strings.TrimSpace(body.Title) == "" {
		fail(c, http.StatusBadRequest, "Task title is required")
		return
	}
	priority, err := models.ParsePriority(body.Priority)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if priority == "" {
		priority = models.PriorityMedium
	}
	status, err := models.ParseStatus(body.Status)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if status == "" {
		status = models.StatusPending
	}
	if body.CourseID != nil && *body.CourseID != "" && !h.courseOwned(c, deviceID, *body.CourseID) {
		return
	}

	t := models.Task{
		DeviceID:    deviceID,
		Title:       strings.TrimSpace(body.Title),
		Description: body.Description,
		CourseID:    body.CourseID,
		Priority:    priority,
		Status:      status,
		DueDate:     body.DueDate,
	}
	if err := h.tasks.Create(ctx, &t); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	cache.InvalidateTasks(ctx, deviceID)
	publish(ctx, "task", "create", t.ID, deviceID, t.Title)
	ok(c, t)
}

// UpdateTask handles PUT /api/tasks/:id (partial update).
func (h *Controller) UpdateTask(c *gin.Context) {
	ctx := c.Request.Context()
	deviceID := middleware.DeviceID(c)

	var body taskPatchInput
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request")
		return
	}
	patch := models.TaskPatch{
		Description: body.Description,
		CourseID:    body.CourseID,
		DueDate:     body.DueDate,
	}
	if body.Title != nil {
		title := strings.TrimSpace(*body.Title)
		if title == "" {
			fail(c, http.StatusBadRequest, "Task title is required")
			return
		}
		patch.Title = &title
	}
	if body.Priority != nil {
		priority, err := models.ParsePriority(*body.Priority)
		if err != nil || priority == "" {
			fail(c, http.StatusBadRequest, "invalid priority")
			return
		}
		patch.Priority = &priority
	}
	if body.Status != nil {
		status, err := models.ParseStatus(*body.Status)
		if err != nil || status == "" {
			fail(c, http.StatusBadRequest, "invalid status")
			return
		}
		patch.Status = &status
	}
	if body.CourseID != nil && *body.CourseID != "" && !h.courseOwned(c, deviceID, *body.CourseID) {
		return
	}

	t, err := h.tasks.Update(ctx, deviceID, c.Param("id"), patch)
	if err != nil {
		storeFail(c, err, http.StatusBadRequest)
		return
	}
	cache.InvalidateTasks(ctx, deviceID)
	publish(ctx, "task", "update", t.ID, deviceID, t.Title)
	ok(c, t)
}

// DeleteTask handles DELETE /api/tasks/:id. Deleting a missing id, or a
// task owned by another device, is a 404.
func (h *Controller) DeleteTask(c *gin.Context) {
	ctx := c.Request.Context()
	deviceID := middleware.DeviceID(c)
	id := c.Param("id")

	if err := h.tasks.Delete(ctx, deviceID, id); err != nil {
		storeFail(c, err, http.StatusBadRequest)
		return
	}
	cache.InvalidateTasks(ctx, deviceID)
	publish(ctx, "task", "delete", id, deviceID, "")
	deleted(c)
}
