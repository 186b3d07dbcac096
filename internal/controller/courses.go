package controller

import (
	"net/http"
	"strings"

	"tugasku/internal/cache"
	"tugasku/internal/middleware"
	"tugasku/pkg/models"
	"tugasku/pkg/logger"

	"github.com/gin-gonic/gin"
)

type courseInput struct {
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description"`
}

type coursePatchInput struct {
	Name        *string `json:"name"`
	Code        *string `json:"code"`
	Description *string `json:"description"`
}

// ListCourses handles GET /api/courses.
func (h *Controller) ListCourses(c *gin.Context) {
	ctx := c.Request.Context()
	courses, err := h.courses.List(ctx, middleware.DeviceID(c))
	if err != nil {
		logger.Error(ctx, "List courses failed", "error", err)
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	if courses == nil {
		courses = []models.Course{}
	}
	ok(c, courses)
}

// GetCourse handles GET /api/courses/:id.
func (h *Controller) GetCourse(c *gin.Context) {
	course, err := h.courses.Get(c.Request.Context(), middleware.DeviceID(c), c.Param("id"))
	if err != nil {
		storeFail(c, err, http.StatusInternalServerError)
		return
	}
	ok(c, course)
}

// CreateCourse handles POST /api/courses. Name is required.
func (h *Controller) CreateCourse(c *gin.Context) {
	ctx := c.Request.Context()
	deviceID := middleware.DeviceID(c)

	var body courseInput
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request")
		return
	}
	if strings.TrimSpace(body.Name) == "" {
		fail(c, http.StatusBadRequest, "Course name is required")
		return
	}
	course := models.Course{
		DeviceID:    deviceID,
		Name:        strings.TrimSpace(body.Name),
		Code:        body.Code,
		Description: body.Description,
	}
	if err := h.courses.Create(ctx, &course); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	publish(ctx, "course", "create", course.ID, deviceID, course.Name)
	ok(c, course)
}

// UpdateCourse handles PUT /api/courses/:id (partial update). Task lists
// embed course names, so the device's task cache is dropped too.
func (h *Controller) UpdateCourse(c *gin.Context) {
	ctx := c.Request.Context()
	deviceID := middleware.DeviceID(c)

	var body coursePatchInput
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request")
		return
	}
	patch := models.CoursePatch{Code: body.Code, Description: body.Description}
	if body.Name != nil {
		name := strings.TrimSpace(*body.Name)
		if name == "" {
			fail(c, http.StatusBadRequest, "Course name is required")
			return
		}
		patch.Name = &name
	}
	course, err := h.courses.Update(ctx, deviceID, c.Param("id"), patch)
	if err != nil {
		storeFail(c, err, http.StatusBadRequest)
		return
	}
	cache.InvalidateTasks(ctx, deviceID)
	publish(ctx, "course", "update", course.ID, deviceID, course.Name)
	ok(c, course)
}

// DeleteCourse handles DELETE /api/courses/:id. The course's tasks stay,
// with their course reference nulled by the schema.
func (h *Controller) DeleteCourse(c *gin.Context) {
	ctx := c.Request.Context()
	deviceID := middleware.DeviceID(c)
	id := c.Param("id")

	if err := h.courses.Delete(ctx, deviceID, id); err != nil {
		storeFail(c, err, http.StatusBadRequest)
		return
	}
	cache.InvalidateTasks(ctx, deviceID)
	publish(ctx, "course", "delete", id, deviceID, "")
	deleted(c)
}
