package api

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured is returned when a request or login is attempted
	// before a base URL and API key have been saved.
	ErrNotConfigured = errors.New("api not configured: set base URL and API key first")

	// ErrValidation is returned when required settings fields are missing.
	ErrValidation = errors.New("invalid api settings")
)

// APIError reports a response whose status was outside 2xx. The body is not read.
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	StatusText string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: %d %s", e.StatusCode, e.StatusText)
}

// TransportError wraps a failure to exchange the request with the server
// (DNS, refused connection, timeout, cancelled context).
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ParseError wraps a failure to decode a 2xx response body as JSON.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("decode response: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
