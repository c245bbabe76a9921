// Package client talks to the remote timetabling service. It owns the
// request/response contract of POST /api/schedule and GET /api/download/:token
// and nothing else; all scheduling work happens on the other side.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/Raof-Rasti/timetabling-project/internal/table"
)

// Batch upload field names, fixed by the service contract.
const (
	FieldTeacher     = "file_teacher"
	FieldAllTeachers = "file_all_teachers"
	FieldClass       = "file_class"
	FieldAllClasses  = "file_all_classes"
)

// fieldSingle is the only field of the single-workbook endpoint.
const fieldSingle = "file"

// Client is a scheduling API client bound to one base URL.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option tweaks a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client, mostly for tests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// New creates a Client for the given base URL, e.g. "http://localhost:5000".
// An empty base URL targets same-origin relative paths.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 2 * time.Minute},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Upload is one named spreadsheet file to send.
type Upload struct {
	Filename string
	Content  io.Reader
}

// Counts carries the service's summary counters.
type Counts struct {
	Sessions    int `json:"sessions"`
	HardErrors  int `json:"hard_errors"`
	SoftDetails int `json:"soft_details"`
}

// Result is the answer to a single-workbook submission.
type Result struct {
	SoftScore float64     `json:"soft_score"`
	Counts    Counts      `json:"counts"`
	Token     string      `json:"token"`
	Preview   []table.Row `json:"preview"`
}

// BatchResult is the answer to a four-file submission: four independent
// row lists, each either data rows or a single error-marker row.
type BatchResult struct {
	TeacherSchedule []table.Row `json:"teacher_schedule"`
	AllTeachers     []table.Row `json:"all_teachers"`
	ClassSchedule   []table.Row `json:"class_schedule"`
	AllClasses      []table.Row `json:"all_classes"`
}

// APIError is a non-2xx answer from the service. Message prefers the
// body's "error" field and falls back to a status-derived text.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Submit uploads one workbook and returns score, counts, download token
// and the schedule preview.
//
// POST {base}/api/schedule, multipart field "file".
func (c *Client) Submit(ctx context.Context, up Upload) (*Result, error) {
	body, contentType, err := encodeMultipart(map[string]Upload{fieldSingle: up})
	if err != nil {
		return nil, err
	}

	var res Result
	if err := c.post(ctx, "/api/schedule", body, contentType, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// SubmitBatch uploads the four named workbooks and returns the four
// result tables.
//
// POST {base}/api/schedule, multipart fields file_teacher,
// file_all_teachers, file_class, file_all_classes.
func (c *Client) SubmitBatch(ctx context.Context, uploads map[string]Upload) (*BatchResult, error) {
	for _, field := range []string{FieldTeacher, FieldAllTeachers, FieldClass, FieldAllClasses} {
		if _, ok := uploads[field]; !ok {
			return nil, fmt.Errorf("client: missing upload field %q", field)
		}
	}

	body, contentType, err := encodeMultipart(uploads)
	if err != nil {
		return nil, err
	}

	var res BatchResult
	if err := c.post(ctx, "/api/schedule", body, contentType, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// DownloadURL returns the address of a generated artifact.
func (c *Client) DownloadURL(token string) string {
	return fmt.Sprintf("%s/api/download/%s", c.baseURL, token)
}

// Download fetches a generated artifact by token. The caller owns the
// returned body.
func (c *Client) Download(ctx context.Context, token string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.DownloadURL(token), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("client: download: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, decodeError(resp)
	}
	return resp.Body, nil
}

// Health probes the service's /api/health endpoint.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("client: health: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("client: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("client: decode response: %w", err)
	}
	return nil
}

// encodeMultipart builds the request body in memory. Input workbooks are
// capped well below memory-relevant sizes by the gateway's upload limit.
func encodeMultipart(uploads map[string]Upload) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for field, up := range uploads {
		name := up.Filename
		if name == "" {
			name = field + ".xlsx"
		}
		part, err := mw.CreateFormFile(field, name)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, up.Content); err != nil {
			return nil, "", fmt.Errorf("client: read upload %q: %w", field, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}

// decodeError turns a non-2xx response into an *APIError.
func decodeError(resp *http.Response) error {
	apiErr := &APIError{
		Status:  resp.StatusCode,
		Message: fmt.Sprintf("request failed with status %d", resp.StatusCode),
	}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		apiErr.Message = body.Error
	}
	return apiErr
}
