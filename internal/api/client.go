package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Doer executes HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is the request gateway for the appointment API.
type Client struct {
	settings  *Settings
	http      Doer
	userAgent string
	logger    *slog.Logger
}

const (
	defaultUserAgent      = "agenda/0.1"
	defaultRequestTimeout = 10 * time.Second
)

// Option customizes a Client.
type Option func(*Client)

// WithDoer replaces the underlying transport.
func WithDoer(d Doer) Option {
	return func(c *Client) {
		if d != nil {
			c.http = d
		}
	}
}

// WithTimeout sets the transport timeout used by the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http = &http.Client{Timeout: d}
		}
	}
}

// WithLogger sets the logger used for request failures.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient builds a Client that reads base URL and headers from settings.
func NewClient(settings *Settings, opts ...Option) *Client {
	c := &Client{
		settings:  settings,
		http:      &http.Client{Timeout: defaultRequestTimeout},
		userAgent: defaultUserAgent,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request describes one API call. Header values replace the defaults of the
// same name. Body is sent as-is.
type Request struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

// IsConfigured reports whether the underlying settings are complete.
func (c *Client) IsConfigured() bool {
	return c.settings.IsConfigured()
}

// Settings returns the settings the client reads from.
func (c *Client) Settings() *Settings {
	return c.settings
}

// Get issues a GET and decodes the JSON response into dest.
func (c *Client) Get(ctx context.Context, path string, dest any) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path}, dest)
}

// Post JSON-encodes body, issues a POST, and decodes the response into dest.
func (c *Client) Post(ctx context.Context, path string, body, dest any) error {
	return c.send(ctx, http.MethodPost, path, body, dest)
}

// Put JSON-encodes body, issues a PUT, and decodes the response into dest.
func (c *Client) Put(ctx context.Context, path string, body, dest any) error {
	return c.send(ctx, http.MethodPut, path, body, dest)
}

// Delete issues a DELETE and decodes the response into dest.
func (c *Client) Delete(ctx context.Context, path string, dest any) error {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path}, dest)
}

func (c *Client) send(ctx context.Context, method, path string, body, dest any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request body: %w", err)
	}
	return c.Do(ctx, Request{Method: method, Path: path, Body: payload}, dest)
}

// Do builds the request from the current settings and dispatches it. With a
// nil dest the response body is discarded without being parsed.
func (c *Client) Do(ctx context.Context, r Request, dest any) error {
	if c == nil || c.settings == nil {
		return fmt.Errorf("client is nil")
	}
	baseURL, header := c.settings.snapshot()
	if baseURL == "" {
		return ErrNotConfigured
	}

	method := r.Method
	if method == "" {
		method = http.MethodGet
	}
	reqURL := baseURL + r.Path

	var body io.Reader
	if r.Body != nil {
		body = bytes.NewReader(r.Body)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	header.Set("Accept", "application/json")
	header.Set("User-Agent", c.userAgent)
	for name, values := range r.Header {
		header.Del(name)
		for _, v := range values {
			header.Add(name, v)
		}
	}
	req.Header = header

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("api request failed", "method", method, "path", r.Path, "error", err)
		return &TransportError{Method: method, URL: reqURL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			Method:     method,
			URL:        reqURL,
			StatusCode: resp.StatusCode,
			StatusText: statusText(resp),
		}
		c.logger.Warn("api request rejected", "method", method, "path", r.Path, "status", resp.StatusCode)
		return apiErr
	}

	if dest == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		c.logger.Warn("api response not json", "method", method, "path", r.Path, "error", err)
		return &ParseError{Err: err}
	}
	return nil
}

func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}
