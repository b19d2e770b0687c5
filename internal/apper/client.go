// Package apper is a records.Backend speaking JSON over HTTP to the hosted
// record backend.
package apper

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

	"github.com/diewo77/go-crm/internal/records"
	"github.com/google/uuid"
)

const (
	defaultTimeout  = 30 * time.Second
	projectIDHeader = "X-Project-Id"
	publicKeyHeader = "X-Public-Key"
	requestIDHeader = "X-Request-Id"
	maxErrorBody    = 512
)

// Client talks to one hosted project.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	projectID  string
	publicKey  string
	userAgent  string
}

// Option customizes a Client.
type Option func(*Client)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient returns a client for the project identified by projectID.
func NewClient(baseURL, projectID, publicKey string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("baseURL cannot be empty")
	}
	if strings.TrimSpace(projectID) == "" {
		return nil, fmt.Errorf("projectID cannot be empty")
	}
	if strings.TrimSpace(publicKey) == "" {
		return nil, fmt.Errorf("publicKey cannot be empty")
	}
	parsed, err := url.ParseRequestURI(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid baseURL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("baseURL must include scheme and host")
	}
	if !strings.HasSuffix(parsed.Path, "/") {
		parsed.Path += "/"
	}
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    parsed,
		projectID:  projectID,
		publicKey:  publicKey,
		userAgent:  "go-crm",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

var _ records.Backend = (*Client)(nil)

// APIError is a non-2xx reply whose body is not an envelope.
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend error: status %d, message: %s", e.StatusCode, e.Message)
}

func recordsPath(table string) string {
	return "v1/tables/" + url.PathEscape(table) + "/records"
}

func (c *Client) FetchRecords(ctx context.Context, table string, params records.FetchParams) (*records.Envelope, error) {
	return c.call(ctx, http.MethodPost, recordsPath(table)+"/query", params)
}

func (c *Client) GetRecordByID(ctx context.Context, table string, id int, params records.FetchParams) (*records.Envelope, error) {
	return c.call(ctx, http.MethodPost, recordsPath(table)+"/"+strconv.Itoa(id)+"/query", params)
}

func (c *Client) CreateRecord(ctx context.Context, table string, params records.WriteParams) (*records.Envelope, error) {
	return c.call(ctx, http.MethodPost, recordsPath(table), params)
}

func (c *Client) UpdateRecord(ctx context.Context, table string, params records.WriteParams) (*records.Envelope, error) {
	return c.call(ctx, http.MethodPut, recordsPath(table), params)
}

func (c *Client) DeleteRecord(ctx context.Context, table string, params records.DeleteParams) (*records.Envelope, error) {
	return c.call(ctx, http.MethodDelete, recordsPath(table), params)
}

func (c *Client) call(ctx context.Context, method, path string, body any) (*records.Envelope, error) {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	return c.doRequest(req)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	rel, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse path: %w", err)
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.ResolveReference(rel).String(), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(projectIDHeader, c.projectID)
	req.Header.Set(publicKeyHeader, c.publicKey)
	req.Header.Set(requestIDHeader, uuid.NewString())
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	return req, nil
}

// doRequest decodes the envelope. Non-2xx replies that still carry an
// envelope are returned as such so the caller sees the backend message.
func (c *Client) doRequest(req *http.Request) (*records.Envelope, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var env records.Envelope
	decodeErr := json.Unmarshal(raw, &env)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if decodeErr == nil && (env.Message != "" || env.Results != nil) {
			return &env, nil
		}
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: raw, Message: http.StatusText(resp.StatusCode)}
		if len(raw) > 0 && len(raw) < maxErrorBody {
			apiErr.Message = string(raw)
		}
		return nil, apiErr
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("failed to unmarshal response body: %w", decodeErr)
	}
	return &env, nil
}
