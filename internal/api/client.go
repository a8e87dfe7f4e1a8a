package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptimestars/starsctl/internal/logger"
)

const (
	// DefaultBaseURL matches the backend's default deployment.
	DefaultBaseURL = "https://localhost/api/v1"
	// DefaultTimeout bounds a single JSON request when none is configured.
	DefaultTimeout = 15 * time.Second
	// DefaultExportTimeout bounds a whole report download, body included.
	DefaultExportTimeout = 10 * time.Minute

	// RequestIDHeader carries a per-request id for backend log correlation.
	RequestIDHeader = "X-Request-ID"

	maxErrorBody = 512
)

// Client wraps the Uptime Stars REST API.
type Client struct {
	httpClient    *http.Client
	timeout       time.Duration
	exportTimeout time.Duration
	baseURL       string
	userAgent  string
	log        logger.Logger
	newID      func() string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithExportTimeout bounds report downloads instead of DefaultExportTimeout.
func WithExportTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.exportTimeout = d
		}
	}
}

// WithLogger sets the logger for request tracing.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithUserAgent sets the User-Agent to "starsctl/<version>".
func WithUserAgent(version string) Option {
	return func(c *Client) {
		if version != "" {
			c.userAgent = "starsctl/" + version
		}
	}
}

// NewClient creates a new API client for baseURL. timeout bounds each JSON
// request through its context; report downloads get their own deadline.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		httpClient:    &http.Client{},
		timeout:       timeout,
		exportTimeout: DefaultExportTimeout,
		baseURL:       strings.TrimRight(baseURL, "/"),
		userAgent:     "starsctl/dev",
		log:           logger.Noop(),
		newID:         func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do sends a request and returns the response for any 2xx status. The caller
// owns the body.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body interface{}) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	requestID := c.newID()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(RequestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug("%s %s failed after %s (request %s): %v", method, path, time.Since(start).Round(time.Millisecond), requestID, err)
		return nil, &NetworkError{Method: method, Path: path, Err: err}
	}
	c.log.Debug("%s %s -> %d in %s (request %s)", method, path, resp.StatusCode, time.Since(start).Round(time.Millisecond), requestID)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &RemoteRequestError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Status:     statusText(resp),
			Body:       strings.TrimSpace(string(snippet)),
		}
	}
	return resp, nil
}

// doJSON performs a request and decodes a JSON response into result when
// result is non-nil.
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body, result interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.do(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Method: method, Path: path, Err: fmt.Errorf("read response: %w", err)}
	}

	if result != nil && len(bytes.TrimSpace(respBody)) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decode %s %s response: %w", method, path, err)
		}
	}
	return nil
}

// statusText returns the reason phrase, e.g. "Not Found" from "404 Not Found".
func statusText(resp *http.Response) string {
	if _, text, ok := strings.Cut(resp.Status, " "); ok && text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}

func escapeID(id string) string {
	return url.PathEscape(strings.TrimSpace(id))
}
