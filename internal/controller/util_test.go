package controller_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"tugasku/internal/controller"
	"tugasku/internal/middleware"
	"tugasku/pkg/models"
	"tugasku/internal/repository"
	"tugasku/internal/routes"
)

// In-memory fakes implementing the controller's store interfaces, so
// handler tests run without Postgres.

type fakeCourseStore struct {
	mu      sync.Mutex
	courses map[string]models.Course
}

func newFakeCourseStore() *fakeCourseStore {
	return &fakeCourseStore{courses: make(map[string]models.Course)}
}

func (s *fakeCourseStore) List(_ context.Context, deviceID string) ([]models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Course
	for _, c := range s.courses {
		if c.DeviceID == deviceID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *fakeCourseStore) Get(_ context.Context, deviceID, id string) (models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, okay := s.courses[id]
	if !okay || c.DeviceID != deviceID {
		return models.Course{}, repository.ErrNotFound
	}
	return c, nil
}

func (s *fakeCourseStore) Create(_ context.Context, c *models.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	s.courses[c.ID] = *c
	return nil
}

func (s *fakeCourseStore) Update(_ context.Context, deviceID, id string, p models.CoursePatch) (models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, okay := s.courses[id]
	if !okay || c.DeviceID != deviceID {
		return models.Course{}, repository.ErrNotFound
	}
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Code != nil {
		c.Code = *p.Code
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	c.UpdatedAt = time.Now()
	s.courses[id] = c
	return c, nil
}

func (s *fakeCourseStore) Delete(_ context.Context, deviceID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, okay := s.courses[id]
	if !okay || c.DeviceID != deviceID {
		return repository.ErrNotFound
	}
	delete(s.courses, id)
	return nil
}

type fakeTaskStore struct {
	mu      sync.Mutex
	tasks   map[string]models.Task
	courses *fakeCourseStore
	seq     int
}

func newFakeTaskStore(courses *fakeCourseStore) *fakeTaskStore {
	return &fakeTaskStore{tasks: make(map[string]models.Task), courses: courses}
}

func (s *fakeTaskStore) attach(t models.Task) models.Task {
	t.Course = nil
	if t.CourseID != nil {
		if c, okay := s.courses.courses[*t.CourseID]; okay && c.DeviceID == t.DeviceID {
			t.Course = &models.CourseRef{ID: c.ID, Name: c.Name, Code: c.Code}
		}
	}
	return t
}

func (s *fakeTaskStore) List(_ context.Context, deviceID string, f models.TaskFilter) ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Task
	for _, t := range s.tasks {
		if t.DeviceID != deviceID {
			continue
		}
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		out = append(out, s.attach(t))
	}
	if f.Sort == models.SortDueDate {
		sort.Slice(out, func(i, j int) bool {
			a, b := out[i].DueDate, out[j].DueDate
			if a == nil {
				return false
			}
			if b == nil {
				return true
			}
			return a.Time.Before(b.Time)
		})
	} else {
		sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	}
	return out, nil
}

func (s *fakeTaskStore) Get(_ context.Context, deviceID, id string) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, okay := s.tasks[id]
	if !okay || t.DeviceID != deviceID {
		return models.Task{}, repository.ErrNotFound
	}
	return s.attach(t), nil
}

func (s *fakeTaskStore) Create(_ context.Context, t *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	s.seq++
	now := time.Now().Add(time.Duration(s.seq) * time.Millisecond)
	t.CreatedAt = now
	t.UpdatedAt = now
	s.tasks[t.ID] = *t
	*t = s.attach(*t)
	return nil
}

func (s *fakeTaskStore) Update(_ context.Context, deviceID, id string, p models.TaskPatch) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, okay := s.tasks[id]
	if !okay || t.DeviceID != deviceID {
		return models.Task{}, repository.ErrNotFound
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.CourseID != nil {
		if *p.CourseID == "" {
			t.CourseID = nil
		} else {
			t.CourseID = p.CourseID
		}
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.DueDate != nil {
		t.DueDate = p.DueDate
	}
	t.UpdatedAt = time.Now()
	s.tasks[id] = t
	return s.attach(t), nil
}

func (s *fakeTaskStore) Delete(_ context.Context, deviceID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, okay := s.tasks[id]
	if !okay || t.DeviceID != deviceID {
		return repository.ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

type fakeProfileStore struct {
	mu       sync.Mutex
	profiles map[string]models.Profile // by device id
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{profiles: make(map[string]models.Profile)}
}

func (s *fakeProfileStore) Get(_ context.Context, deviceID string) (models.Profile, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, okay := s.profiles[deviceID]
	return p, okay, nil
}

func (s *fakeProfileStore) Upsert(_ context.Context, p *models.Profile) (models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, okay := s.profiles[p.DeviceID]; okay {
		p.ID = existing.ID
	} else if p.ID == "" {
		p.ID = uuid.New().String()
	}
	p.UpdatedAt = time.Now()
	s.profiles[p.DeviceID] = *p
	return *p, nil
}

type fakeActivityStore struct{}

func (s *fakeActivityStore) Recent(context.Context, string, int) ([]models.Activity, error) {
	return nil, nil
}

type env struct {
	router   *gin.Engine
	tasks    *fakeTaskStore
	courses  *fakeCourseStore
	profiles *fakeProfileStore
}

func setup(t *testing.T) *env {
	t.Helper()
	courses := newFakeCourseStore()
	tasks := newFakeTaskStore(courses)
	profiles := newFakeProfileStore()
	ctrl := controller.New(tasks, courses, profiles, &fakeActivityStore{})
	return &env{
		router:   routes.Router(ctrl),
		tasks:    tasks,
		courses:  courses,
		profiles: profiles,
	}
}

// request issues an HTTP request against the router with the given
// device-id header (empty string omits it).
func (e *env) request(t *testing.T, method, path, deviceID string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if deviceID != "" {
		req.Header.Set(middleware.HeaderDeviceID, deviceID)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var body struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Data)
	require.NoError(t, json.Unmarshal(body.Data, out))
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Message
}
