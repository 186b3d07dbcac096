package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"tugasku/internal/events"
	"tugasku/pkg/models"
	"tugasku/internal/repository"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/singleflight"
)

// Store interfaces are declared here, on the consumer side; the real
// implementations live in internal/repository and tests plug in
// in-memory fakes.

type TaskStore interface {
	List(ctx context.Context, deviceID string, f models.TaskFilter) ([]models.Task, error)
	Get(ctx context.Context, deviceID, id string) (models.Task, error)
	Create(ctx context.Context, t *models.Task) error
	Update(ctx context.Context, deviceID, id string, p models.TaskPatch) (models.Task, error)
	Delete(ctx context.Context, deviceID, id string) error
}

type CourseStore interface {
	List(ctx context.Context, deviceID string) ([]models.Course, error)
	Get(ctx context.Context, deviceID, id string) (models.Course, error)
	Create(ctx context.Context, c *models.Course) error
	Update(ctx context.Context, deviceID, id string, p models.CoursePatch) (models.Course, error)
	Delete(ctx context.Context, deviceID, id string) error
}

type ProfileStore interface {
	Get(ctx context.Context, deviceID string) (p models.Profile, found bool, err error)
	Upsert(ctx context.Context, p *models.Profile) (models.Profile, error)
}

type ActivityStore interface {
	Recent(ctx context.Context, deviceID string, limit int) ([]models.Activity, error)
}

// Controller holds the handlers for the record façade.
type Controller struct {
	tasks    TaskStore
	courses  CourseStore
	profiles ProfileStore
	activity ActivityStore

	listGroup singleflight.Group
}

func New(tasks TaskStore, courses CourseStore, profiles ProfileStore, activity ActivityStore) *Controller {
	return &Controller{tasks: tasks, courses: courses, profiles: profiles, activity: activity}
}

// ok writes the success envelope: {data: ...}.
func ok(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"data": data})
}

// deleted writes the delete success envelope: {status: "success"}.
func deleted(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// fail writes the error envelope: {message: ...}.
func fail(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"message": message})
}

// storeFail maps a store error to 404 (no matching id/device pair) or the
// given fallback status.
func storeFail(c *gin.Context, err error, fallback int) {
	if errors.Is(err, repository.ErrNotFound) {
		fail(c, http.StatusNotFound, "Record not found")
		return
	}
	fail(c, fallback, err.Error())
}

// publish emits a change event for the activity feed. Best-effort.
func publish(ctx context.Context, entity, action, recordID, deviceID, title string) {
	events.Publish(ctx, &models.RecordEvent{
		Entity:     entity,
		Action:     action,
		RecordID:   recordID,
		DeviceID:   deviceID,
		Title:      title,
		OccurredAt: time.Now(),
	})
}
