// Package client provides a typed HTTP client for the tracker API. It is
// the remote data gateway used by frontends and sync tooling: every
// operation wraps one endpoint, decodes the response envelope and
// surfaces the server's typed error when the call fails.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/keikchoco/alternative-learning-system/internal/models"
	appErrors "github.com/keikchoco/alternative-learning-system/pkg/errors"
)

// Option customises client construction.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithToken sets the bearer token attached to every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// Client talks to the tracker API gateway.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// New constructs a client for the given base URL, which should include
// the API prefix (for example http://localhost:8080/api).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken swaps the bearer token, e.g. after a refresh.
func (c *Client) SetToken(token string) { c.token = token }

type envelope struct {
	Data       json.RawMessage    `json:"data"`
	Error      *appErrors.Error   `json:"error"`
	Pagination *models.Pagination `json:"pagination"`
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, dest interface{}) (*models.Pagination, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s: encode request: %w", op, err)
		}
		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, payload)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("%s: decode response: %w", op, err)
	}
	if env.Error != nil {
		return nil, fmt.Errorf("%s: %w", op, env.Error)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("%s: unexpected status %d", op, resp.StatusCode)
	}
	if dest != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, dest); err != nil {
			return nil, fmt.Errorf("%s: decode payload: %w", op, err)
		}
	}
	return env.Pagination, nil
}

// Login authenticates and stores the issued access token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	var out models.LoginResponse
	req := models.LoginRequest{Email: email, Password: password}
	if _, err := c.do(ctx, "login", http.MethodPost, "/auth/login", nil, req, &out); err != nil {
		return nil, err
	}
	c.token = out.AccessToken
	return &out, nil
}

// Refresh rotates the refresh token and updates the stored access token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*models.RefreshTokenResponse, error) {
	var out models.RefreshTokenResponse
	req := models.RefreshTokenRequest{RefreshToken: refreshToken}
	if _, err := c.do(ctx, "refresh token", http.MethodPost, "/auth/refresh", nil, req, &out); err != nil {
		return nil, err
	}
	c.token = out.AccessToken
	return &out, nil
}

// Logout revokes the refresh token on the server.
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	req := models.RefreshTokenRequest{RefreshToken: refreshToken}
	_, err := c.do(ctx, "logout", http.MethodPost, "/auth/logout", nil, req, nil)
	return err
}

// Me fetches the authenticated user's profile.
func (c *Client) Me(ctx context.Context) (*models.UserInfo, error) {
	var out models.UserInfo
	if _, err := c.do(ctx, "fetch profile", http.MethodGet, "/auth/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListStudents fetches a roster page for the filter.
func (c *Client) ListStudents(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	query := url.Values{}
	if filter.Search != "" {
		query.Set("search", filter.Search)
	}
	if filter.Status != nil {
		query.Set("status", string(*filter.Status))
	}
	if filter.BarangayID != "" {
		query.Set("barangayId", filter.BarangayID)
	}
	if filter.Page > 0 {
		query.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.PageSize > 0 {
		query.Set("limit", strconv.Itoa(filter.PageSize))
	}

	var out []models.Student
	pagination, err := c.do(ctx, "list students", http.MethodGet, "/students", query, nil, &out)
	if err != nil {
		return nil, nil, err
	}
	return out, pagination, nil
}

// GetStudent fetches a single student.
func (c *Client) GetStudent(ctx context.Context, id string) (*models.Student, error) {
	var out models.Student
	if _, err := c.do(ctx, "get student", http.MethodGet, "/students/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateStudent registers a learner.
func (c *Client) CreateStudent(ctx context.Context, payload interface{}) (*models.Student, error) {
	var out models.Student
	if _, err := c.do(ctx, "create student", http.MethodPost, "/students", nil, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateStudent rewrites a learner record.
func (c *Client) UpdateStudent(ctx context.Context, id string, payload interface{}) (*models.Student, error) {
	var out models.Student
	if _, err := c.do(ctx, "update student", http.MethodPatch, "/students/"+url.PathEscape(id), nil, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteStudent removes a learner record.
func (c *Client) DeleteStudent(ctx context.Context, id string) error {
	_, err := c.do(ctx, "delete student", http.MethodDelete, "/students/"+url.PathEscape(id), nil, nil, nil)
	return err
}

// ListBarangays fetches the barangay reference list.
func (c *Client) ListBarangays(ctx context.Context) ([]models.Barangay, error) {
	var out []models.Barangay
	if _, err := c.do(ctx, "list barangays", http.MethodGet, "/barangays", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListModules fetches learning modules, optionally scoped to a program.
func (c *Client) ListModules(ctx context.Context, program string) ([]models.Module, error) {
	query := url.Values{}
	if program != "" {
		query.Set("program", program)
	}
	var out []models.Module
	if _, err := c.do(ctx, "list modules", http.MethodGet, "/modules", query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListProgress fetches progress records for the filter.
func (c *Client) ListProgress(ctx context.Context, filter models.ProgressFilter) ([]models.Progress, error) {
	query := url.Values{}
	if filter.StudentID != "" {
		query.Set("studentId", filter.StudentID)
	}
	if filter.ModuleID != "" {
		query.Set("moduleId", filter.ModuleID)
	}
	var out []models.Progress
	if _, err := c.do(ctx, "list progress", http.MethodGet, "/progress", query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateProgress opens a progress record.
func (c *Client) CreateProgress(ctx context.Context, payload interface{}) (*models.Progress, error) {
	var out models.Progress
	if _, err := c.do(ctx, "create progress", http.MethodPost, "/progress", nil, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddActivity appends an activity to a progress record.
func (c *Client) AddActivity(ctx context.Context, studentID, moduleID string, payload interface{}) (*models.Progress, error) {
	var out models.Progress
	path := c.progressPath(studentID, moduleID) + "/activities"
	if _, err := c.do(ctx, "add activity", http.MethodPost, path, nil, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateActivity replaces the activity at a position.
func (c *Client) UpdateActivity(ctx context.Context, studentID, moduleID string, index int, payload interface{}) (*models.Progress, error) {
	var out models.Progress
	path := fmt.Sprintf("%s/activities/%d", c.progressPath(studentID, moduleID), index)
	if _, err := c.do(ctx, "update activity", http.MethodPatch, path, nil, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteActivity removes the activity at a position.
func (c *Client) DeleteActivity(ctx context.Context, studentID, moduleID string, index int) (*models.Progress, error) {
	var out models.Progress
	path := fmt.Sprintf("%s/activities/%d", c.progressPath(studentID, moduleID), index)
	if _, err := c.do(ctx, "delete activity", http.MethodDelete, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteProgress removes a whole progress record.
func (c *Client) DeleteProgress(ctx context.Context, studentID, moduleID string) error {
	_, err := c.do(ctx, "delete progress", http.MethodDelete, c.progressPath(studentID, moduleID), nil, nil, nil)
	return err
}

func (c *Client) progressPath(studentID, moduleID string) string {
	return "/progress/" + url.PathEscape(studentID) + "/" + url.PathEscape(moduleID)
}

// ListEvents fetches events for the filter.
func (c *Client) ListEvents(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	query := url.Values{}
	if filter.From != "" {
		query.Set("from", filter.From)
	}
	if filter.To != "" {
		query.Set("to", filter.To)
	}
	if filter.Type != nil {
		query.Set("type", string(*filter.Type))
	}
	var out []models.Event
	if _, err := c.do(ctx, "list events", http.MethodGet, "/events", query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateEvent records a calendar event.
func (c *Client) CreateEvent(ctx context.Context, payload interface{}) (*models.Event, error) {
	var out models.Event
	if _, err := c.do(ctx, "create event", http.MethodPost, "/events", nil, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateEvent rewrites a calendar event.
func (c *Client) UpdateEvent(ctx context.Context, id string, payload interface{}) (*models.Event, error) {
	var out models.Event
	if _, err := c.do(ctx, "update event", http.MethodPatch, "/events/"+url.PathEscape(id), nil, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteEvent removes a calendar event.
func (c *Client) DeleteEvent(ctx context.Context, id string) error {
	_, err := c.do(ctx, "delete event", http.MethodDelete, "/events/"+url.PathEscape(id), nil, nil, nil)
	return err
}

// DashboardStatistics fetches the aggregated dashboard figures.
func (c *Client) DashboardStatistics(ctx context.Context) (*models.DashboardStatistics, error) {
	var out models.DashboardStatistics
	if _, err := c.do(ctx, "dashboard statistics", http.MethodGet, "/dashboard/statistics", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Calendar fetches a month of events grouped by date.
func (c *Client) Calendar(ctx context.Context, month string) (*models.CalendarMonth, error) {
	query := url.Values{}
	if month != "" {
		query.Set("month", month)
	}
	var out models.CalendarMonth
	if _, err := c.do(ctx, "dashboard calendar", http.MethodGet, "/dashboard/calendar", query, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
