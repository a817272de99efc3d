// Package client talks to the applications REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/blockedby/application-tracker/internal/logger"
	"github.com/blockedby/application-tracker/internal/models"
	"github.com/google/uuid"
)

// ErrRequestFailed wraps every transport failure and non-2xx response.
var ErrRequestFailed = errors.New("request failed")

const applicationsPath = "/api/applications"

// DefaultTimeout bounds a single request when no http.Client is given.
const DefaultTimeout = 15 * time.Second

// Client is a single-shot client for /api/applications. No retry, no cache.
type Client struct {
	baseURL string
	http    *http.Client
	log     *logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http = &http.Client{Timeout: d} }
}

// WithLogger sets the logger.
func WithLogger(log *logger.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New creates a client for the API served at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		log:     logger.Get(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Create posts a new application and returns the stored record.
func (c *Client) Create(ctx context.Context, req *models.ApplicationRequest) (*models.Application, error) {
	var app models.Application
	if err := c.do(ctx, http.MethodPost, applicationsPath, req, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

// ListAll fetches every stored application.
func (c *Client) ListAll(ctx context.Context) ([]models.Application, error) {
	var apps []models.Application
	if err := c.do(ctx, http.MethodGet, applicationsPath, nil, &apps); err != nil {
		return nil, err
	}
	if apps == nil {
		apps = []models.Application{}
	}
	return apps, nil
}

// Get fetches one application.
func (c *Client) Get(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	var app models.Application
	if err := c.do(ctx, http.MethodGet, applicationsPath+"/"+id.String(), nil, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

// Update applies a partial update and returns the stored record.
func (c *Client) Update(ctx context.Context, id uuid.UUID, patch *models.ApplicationPatch) (*models.Application, error) {
	var app models.Application
	if err := c.do(ctx, http.MethodPatch, applicationsPath+"/"+id.String(), patch, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

// Stats fetches the per-status summary.
func (c *Client) Stats(ctx context.Context) (*models.ApplicationStats, error) {
	var stats models.ApplicationStats
	if err := c.do(ctx, http.MethodGet, applicationsPath+"/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Delete removes one application.
func (c *Client) Delete(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, applicationsPath+"/"+id.String(), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: marshal body: %w", ErrRequestFailed, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%w: build request: %w", ErrRequestFailed, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrRequestFailed, method, path, err)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("api call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: %s %s: HTTP %d", ErrRequestFailed, method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %w", ErrRequestFailed, err)
	}
	return nil
}
