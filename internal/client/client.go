// Package client talks to the GeoStar JSON API.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/j-veylop/geostar-dashboard/internal/logger"
	"github.com/j-veylop/geostar-dashboard/internal/models"
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api returned status %d: %s", e.Code, e.Body)
}

// IsCanceled reports whether err came from an aborted request.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}

// Client issues API requests against a base URL.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for baseURL (e.g. http://localhost:8787).
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// OverviewQuery holds /api/overview parameters; empty fields are omitted.
type OverviewQuery struct {
	DateFrom   string
	DateTo     string
	Resolution string
}

func (q OverviewQuery) values() url.Values {
	v := url.Values{}
	setIf(v, "date_from", q.DateFrom)
	setIf(v, "date_to", q.DateTo)
	setIf(v, "resolution", q.Resolution)
	return v
}

// ReadingsQuery holds /api/readings parameters; empty fields are omitted.
type ReadingsQuery struct {
	Page      int
	GatewayID string
	DateFrom  string
	DateTo    string
	Sort      string
	Order     string
}

func (q ReadingsQuery) values() url.Values {
	v := url.Values{}
	if q.Page > 1 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	setIf(v, "gateway_id", q.GatewayID)
	setIf(v, "date_from", q.DateFrom)
	setIf(v, "date_to", q.DateTo)
	setIf(v, "sort", q.Sort)
	setIf(v, "order", q.Order)
	return v
}

func setIf(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}

// Overview fetches the overview aggregation.
func (c *Client) Overview(ctx context.Context, q OverviewQuery) (*models.OverviewResponse, error) {
	var out models.OverviewResponse
	if err := c.get(ctx, "/api/overview", q.values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Daily fetches the hourly breakdown for date; empty means the server's today.
func (c *Client) Daily(ctx context.Context, date string) (*models.DailyResponse, error) {
	v := url.Values{}
	setIf(v, "date", date)
	var out models.DailyResponse
	if err := c.get(ctx, "/api/daily", v, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Readings fetches one page of raw readings.
func (c *Client) Readings(ctx context.Context, q ReadingsQuery) (*models.ReadingsResponse, error) {
	var out models.ReadingsResponse
	if err := c.get(ctx, "/api/readings", q.values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health checks /api/health and returns the reported status.
func (c *Client) Health(ctx context.Context) (string, error) {
	var out struct {
		Status string `json:"status"`
	}
	if err := c.get(ctx, "/api/health", nil, &out); err != nil {
		return "", err
	}
	return out.Status, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	reqID := uuid.New().String()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s failed: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	logger.Debug("api fetch", "path", path, "request_id", reqID, "duration", time.Since(start))
	return nil
}
