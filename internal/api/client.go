// Package api talks to the call_email endpoints of the intake backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/freedom_case_2/callemail/internal/models"
)

const (
	DefaultBasePath = "/api/call_email"

	APIKeyHeader = "X-Api-Key"
	UserIDHeader = "X-User-Id"
)

var defaultHTTPClient = &http.Client{Timeout: 30 * time.Second}

type Client struct {
	BaseURL    string
	BasePath   string
	APIKey     string
	UserID     int64
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// NewClient returns a client for the backend at baseURL using the default
// base path and a 30s HTTP timeout.
func NewClient(baseURL string, logger zerolog.Logger) *Client {
	return &Client{
		BaseURL:    baseURL,
		BasePath:   DefaultBasePath,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		Logger:     logger,
	}
}

// Get fetches a record by id.
func (c *Client) Get(ctx context.Context, id int64) (models.CallEmail, error) {
	var out models.CallEmail
	err := c.do(ctx, http.MethodGet, c.recordPath(id, ""), nil, &out)
	return out, err
}

// Create posts an empty body; the backend answers with a placeholder record.
func (c *Client) Create(ctx context.Context) (models.CallEmail, error) {
	var out models.CallEmail
	err := c.do(ctx, http.MethodPost, c.basePath()+"/", struct{}{}, &out)
	return out, err
}

// Duplicate posts a full payload to the collection, creating a new record.
func (c *Client) Duplicate(ctx context.Context, payload models.CallEmail) (models.CallEmail, error) {
	var out models.CallEmail
	err := c.do(ctx, http.MethodPost, c.basePath()+"/", payload, &out)
	return out, err
}

func (c *Client) SaveDraft(ctx context.Context, id *int64, payload models.CallEmail) (models.CallEmail, error) {
	var out models.CallEmail
	err := c.do(ctx, http.MethodPost, c.recordPathNullable(id, "/draft/"), payload, &out)
	return out, err
}

// Update replaces the record with payload.
func (c *Client) Update(ctx context.Context, id *int64, payload models.CallEmail) (models.CallEmail, error) {
	var out models.CallEmail
	err := c.do(ctx, http.MethodPut, c.recordPathNullable(id, "/"), payload, &out)
	return out, err
}

// SavePerson stores the record's reporter and returns it as saved.
func (c *Client) SavePerson(ctx context.Context, id *int64, payload models.CallEmail) (models.EmailUser, error) {
	var out models.EmailUser
	err := c.do(ctx, http.MethodPost, c.recordPathNullable(id, "/call_email_save_person/"), payload, &out)
	return out, err
}

func (c *Client) ClassificationTypes(ctx context.Context) ([]models.Reference, error) {
	var out []models.Reference
	err := c.do(ctx, http.MethodGet, c.apiRoot()+"/classification/", nil, &out)
	return out, err
}

func (c *Client) CallTypes(ctx context.Context) ([]models.Reference, error) {
	var out []models.Reference
	err := c.do(ctx, http.MethodGet, c.apiRoot()+"/call_types/", nil, &out)
	return out, err
}

func (c *Client) ReportTypes(ctx context.Context) ([]models.ReportType, error) {
	var out []models.ReportType
	err := c.do(ctx, http.MethodGet, c.apiRoot()+"/report_types/", nil, &out)
	return out, err
}

func (c *Client) Referrers(ctx context.Context) ([]models.Reference, error) {
	var out []models.Reference
	err := c.do(ctx, http.MethodGet, c.apiRoot()+"/referrers/", nil, &out)
	return out, err
}

func (c *Client) StatusChoices(ctx context.Context) ([]models.Choice, error) {
	var out []models.Choice
	err := c.do(ctx, http.MethodGet, c.apiRoot()+"/status_choices/", nil, &out)
	return out, err
}

func (c *Client) basePath() string {
	if c.BasePath == "" {
		return DefaultBasePath
	}
	return strings.TrimRight(c.BasePath, "/")
}

// apiRoot is the parent of the call_email collection, e.g. /api.
func (c *Client) apiRoot() string {
	p := c.basePath()
	if i := strings.LastIndex(p, "/"); i > 0 {
		return p[:i]
	}
	return ""
}

func (c *Client) recordPath(id int64, suffix string) string {
	return c.basePath() + "/" + strconv.FormatInt(id, 10) + suffix
}

func (c *Client) recordPathNullable(id *int64, suffix string) string {
	return c.basePath() + "/" + IDSegment(id) + suffix
}

// IDSegment renders a record id for use in a path; an unsaved record renders as "null".
func IDSegment(id *int64) string {
	if id == nil {
		return "null"
	}
	return strconv.FormatInt(*id, 10)
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	hc := c.HTTPClient
	if hc == nil {
		hc = defaultHTTPClient
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(b)
	}

	endpoint := strings.TrimRight(c.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.APIKey != "" {
		req.Header.Set(APIKeyHeader, c.APIKey)
	}
	if c.UserID != 0 {
		req.Header.Set(UserIDHeader, strconv.FormatInt(c.UserID, 10))
	}

	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	c.Logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("intake api call")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp.StatusCode, resp.Status, data)
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
