// Package client is the Go counterpart of the mobile app's data layer:
// one configured HTTP client that resolves the device identifier once,
// attaches it to every request, unwraps the response envelope, and offers
// the derived views the screens are built from.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"tugasku/pkg/models"
)

// APIError is a non-2xx response, carrying the server's envelope message.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
}

// envelope is the wire shape of every response: {data} on success,
// {message} on failure, {status} on deletes.
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Client talks to the record service on behalf of one device.
type Client struct {
	base     string
	http     *http.Client
	resolver *Resolver
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithSource replaces the device identity source.
func WithSource(s Source) Option {
	return func(c *Client) { c.resolver = NewResolver(s) }
}

// New builds a client for the given base URL (e.g. "https://host/api").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		base:     strings.TrimRight(baseURL, "/"),
		http:     http.DefaultClient,
		resolver: NewResolver(nil),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DeviceID exposes the resolved device identifier (waits for resolution).
func (c *Client) DeviceID(ctx context.Context) (string, error) {
	return c.resolver.DeviceID(ctx)
}

// do issues one request: resolves the device id, attaches the header,
// sends the body, and decodes .data into out (when non-nil).
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	deviceID, err := c.resolver.DeviceID(ctx)
	if err != nil {
		return err
	}

	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	req.Header.Set(models.HeaderDeviceID, deviceID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	var env envelope
	if len(raw) > 0 {
		// tolerate non-JSON error bodies
		_ = json.Unmarshal(raw, &env)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := env.Message
		if msg == "" {
			msg = strings.TrimSpace(string(raw))
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}
	if out != nil && len(env.Data) > 0 {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}

// TaskQuery narrows ListTasks.
type TaskQuery struct {
	Status string // any accepted synonym; server canonicalizes
	Sort   string // "created" (default) or "due"
}

// TaskInput is the create/update payload for tasks.
type TaskInput struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	CourseID    *string      `json:"course_id,omitempty"`
	Priority    string       `json:"priority,omitempty"`
	Status      string       `json:"status,omitempty"`
	DueDate     *models.Date `json:"due_date,omitempty"`
}

func (c *Client) ListTasks(ctx context.Context, q TaskQuery) ([]models.Task, error) {
	values := url.Values{}
	if q.Status != "" {
		values.Set("status", q.Status)
	}
	if q.Sort != "" {
		values.Set("sort", q.Sort)
	}
	var tasks []models.Task
	if err := c.do(ctx, http.MethodGet, "/tasks", values, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) GetTask(ctx context.Context, id string) (models.Task, error) {
	var t models.Task
	err := c.do(ctx, http.MethodGet, "/tasks/"+id, nil, nil, &t)
	return t, err
}

func (c *Client) CreateTask(ctx context.Context, in TaskInput) (models.Task, error) {
	var t models.Task
	err := c.do(ctx, http.MethodPost, "/tasks", nil, in, &t)
	return t, err
}

func (c *Client) UpdateTask(ctx context.Context, id string, in TaskInput) (models.Task, error) {
	var t models.Task
	err := c.do(ctx, http.MethodPut, "/tasks/"+id, nil, in, &t)
	return t, err
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/tasks/"+id, nil, nil, nil)
}

// CourseInput is the create/update payload for courses.
type CourseInput struct {
	Name        string `json:"name,omitempty"`
	Code        string `json:"code,omitempty"`
	Description string `json:"description,omitempty"`
}

func (c *Client) ListCourses(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	if err := c.do(ctx, http.MethodGet, "/courses", nil, nil, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (c *Client) GetCourse(ctx context.Context, id string) (models.Course, error) {
	var course models.Course
	err := c.do(ctx, http.MethodGet, "/courses/"+id, nil, nil, &course)
	return course, err
}

func (c *Client) CreateCourse(ctx context.Context, in CourseInput) (models.Course, error) {
	var course models.Course
	err := c.do(ctx, http.MethodPost, "/courses", nil, in, &course)
	return course, err
}

func (c *Client) UpdateCourse(ctx context.Context, id string, in CourseInput) (models.Course, error) {
	var course models.Course
	err := c.do(ctx, http.MethodPut, "/courses/"+id, nil, in, &course)
	return course, err
}

func (c *Client) DeleteCourse(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/courses/"+id, nil, nil, nil)
}

// ProfileInput is the upsert payload for the device's profile.
type ProfileInput struct {
	Name      string `json:"name"`
	StudentID string `json:"student_id,omitempty"`
	Bio       string `json:"bio,omitempty"`
	Major     string `json:"major,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// GetProfile returns the device's profile; found is false when none has
// been saved yet (the server answers {data:{}} rather than 404).
func (c *Client) GetProfile(ctx context.Context) (models.Profile, bool, error) {
	var p models.Profile
	if err := c.do(ctx, http.MethodGet, "/profiles", nil, nil, &p); err != nil {
		return models.Profile{}, false, err
	}
	return p, p.ID != "", nil
}

// SaveProfile creates or replaces the device's profile.
func (c *Client) SaveProfile(ctx context.Context, in ProfileInput) (models.Profile, error) {
	var p models.Profile
	err := c.do(ctx, http.MethodPost, "/profiles", nil, in, &p)
	return p, err
}

// ListActivity returns the device's recent change-feed entries.
func (c *Client) ListActivity(ctx context.Context, limit int) ([]models.Activity, error) {
	values := url.Values{}
	if limit > 0 {
		values.Set("limit", fmt.Sprint(limit))
	}
	var entries []models.Activity
	if err := c.do(ctx, http.MethodGet, "/activity", values, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
