package controller

import (
	"net/http"
	"strings"

	"tugasku/internal/middleware"
	"tugasku/pkg/models"

	"github.com/gin-gonic/gin"
)

type profileInput struct {
	Name      string `json:"name"`
	StudentID string `json:"student_id"`
	Bio       string `json:"bio"`
	Major     string `json:"major"`
	AvatarURL string `json:"avatar_url"`
}

// GetProfile handles GET /api/profiles. A device with no profile yet gets
// {data: {}} rather than a 404, so clients never special-case first run.
func (h *Controller) GetProfile(c *gin.Context) {
	p, found, err := h.profiles.Get(c.Request.Context(), middleware.DeviceID(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	if !found {
		ok(c, gin.H{})
		return
	}
	ok(c, p)
}

// GetProfileByID handles GET /api/profiles/:id. The lookup is still
// scoped to the caller's device; a foreign or unknown id is a 404.
func (h *Controller) GetProfileByID(c *gin.Context) {
	p, found, err := h.profiles.Get(c.Request.Context(), middleware.DeviceID(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	if !found || p.ID != c.Param("id") {
		fail(c, http.StatusNotFound, "Record not found")
		return
	}
	ok(c, p)
}

// SaveProfile handles POST and PUT /api/profiles: both upsert keyed on
// the device id, so saving twice leaves exactly one row.
func (h *Controller) SaveProfile(c *gin.Context) {
	ctx := c.Request.Context()
	deviceID := middleware.DeviceID(c)

	var body profileInput
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request")
		return
	}
	if strings.TrimSpace(body.Name) == "" {
		fail(c, http.StatusBadRequest, "Profile name is required")
		return
	}
	p := models.Profile{
		DeviceID:  deviceID,
		Name:      strings.TrimSpace(body.Name),
		StudentID: body.StudentID,
		Bio:       body.Bio,
		Major:     body.Major,
		AvatarURL: body.AvatarURL,
	}
	stored, err := h.profiles.Upsert(ctx, &p)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	publish(ctx, "profile", "save", stored.ID, deviceID, stored.Name)
	ok(c, stored)
}
