// Package client talks to the roster API over HTTP/JSON.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"roster/internal/application/reconciler"
	"roster/internal/domain/activity"
	"roster/internal/domain/participation"
	"roster/internal/domain/student"
)

// HTTPClient implements reconciler.Backend using the roster HTTP/JSON API.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

var _ reconciler.Backend = (*HTTPClient)(nil)

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithTimeout bounds every request.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.httpClient.Timeout = d }
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.httpClient = hc }
}

// NewHTTPClient creates a new HTTP client targeting the given base URL
// (e.g. "http://localhost:8001").
func NewHTTPClient(baseURL string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Health returns nil when the server answers GET /health with status "ok".
func (c *HTTPClient) Health(ctx context.Context) error {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/health", nil, &resp); err != nil {
		return err
	}
	if resp.Status != "ok" {
		return fmt.Errorf("server status %q", resp.Status)
	}
	return nil
}

// --- Lookups ---

func (c *HTTPClient) ListYears(ctx context.Context) ([]string, error) {
	var years []string
	if err := c.doJSON(ctx, http.MethodGet, "/years", nil, &years); err != nil {
		return nil, err
	}
	return years, nil
}

func (c *HTTPClient) ListRooms(ctx context.Context, year string) ([]int, error) {
	q := url.Values{}
	if year != "" {
		q.Set("school_year", year)
	}
	var rooms []int
	if err := c.doJSON(ctx, http.MethodGet, withQuery("/rooms", q), nil, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

func (c *HTTPClient) ListActivities(ctx context.Context) ([]activity.Activity, error) {
	var acts []activity.Activity
	if err := c.doJSON(ctx, http.MethodGet, "/activities", nil, &acts); err != nil {
		return nil, err
	}
	return acts, nil
}

func (c *HTTPClient) ListStudents(ctx context.Context, room int, year string) ([]student.Student, error) {
	var students []student.Student
	if err := c.doJSON(ctx, http.MethodGet, withQuery("/students", roomQuery(room, year)), nil, &students); err != nil {
		return nil, err
	}
	return students, nil
}

// --- Participants ---

func (c *HTTPClient) ListParticipants(ctx context.Context, activityID int64, room int, year string) ([]participation.ParticipantState, error) {
	var rows []participation.ParticipantState
	path := withQuery(participantsPath(activityID), roomQuery(room, year))
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *HTTPClient) SaveParticipants(ctx context.Context, activityID int64, req participation.SaveRequest) (participation.SaveResult, error) {
	var res participation.SaveResult
	if err := c.doJSON(ctx, http.MethodPost, participantsPath(activityID), req, &res); err != nil {
		return participation.SaveResult{}, err
	}
	return res, nil
}

func participantsPath(activityID int64) string {
	return "/activities/" + strconv.FormatInt(activityID, 10) + "/participants"
}

func roomQuery(room int, year string) url.Values {
	q := url.Values{}
	q.Set("room", strconv.Itoa(room))
	if year != "" {
		q.Set("school_year", year)
	}
	return q
}

func withQuery(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// doJSON performs an HTTP request with optional JSON body and decodes the JSON response.
// If result is nil, the response body is discarded.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}
