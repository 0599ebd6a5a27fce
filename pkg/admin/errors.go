package admin

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError represents a non-success response from the Admin API. The raw
// response body is preserved for caller inspection; the client never retries
// on its own.
type APIError struct {
	Status  int         `json:"status"`
	Body    []byte      `json:"-"`
	Headers http.Header `json:"-"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if len(e.Body) > 0 {
		return fmt.Sprintf("api error: status %d: %s", e.Status, string(e.Body))
	}

	return fmt.Sprintf("api error: status %d", e.Status)
}

// NotFoundError represents a singular read against a nonexistent resource.
type NotFoundError struct {
	Resource string
	Path     string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if e.Resource != "" {
		return fmt.Sprintf("%s not found: %s", e.Resource, e.Path)
	}

	return "resource not found: " + e.Path
}

// ValidationError represents a 422 response rejecting submitted attributes.
// The original response payload is kept intact; the submitting instance's
// state is left unchanged.
type ValidationError struct {
	Status int
	Body   []byte
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed (status %d): %s", e.Status, string(e.Body))
}

// ConfigError represents a configuration mistake surfaced before any request
// is issued: an unknown API version at mount time, or a path template
// placeholder with no value at call-build time. Never retried.
type ConfigError struct {
	Reason string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "configuration error: " + e.Reason
}

// TransportError wraps a connectivity or timeout failure from the underlying
// HTTP transport. The wrapped error is surfaced unchanged.
type TransportError struct {
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return "transport error: " + e.Err.Error()
}

// Unwrap returns the underlying transport failure.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Static errors that can be wrapped with context.
var (
	ErrConfigRequired      = errors.New("config is required")
	ErrSessionRequired     = errors.New("session is required")
	ErrShopRequired        = errors.New("session shop domain is required")
	ErrUnknownVersion      = errors.New("unknown API version")
	ErrUnknownResource     = errors.New("unknown resource type")
	ErrUnsupportedOp       = errors.New("operation not supported by resource")
	ErrResourceDeleted     = errors.New("resource instance has been deleted")
	ErrMissingPrimaryKey   = errors.New("resource has no primary key value")
	ErrMissingEnvelopeKey  = errors.New("response body missing resource envelope key")
	ErrMalformedLinkHeader = errors.New("malformed pagination link header")
	ErrMalformedCallLimit  = errors.New("malformed call limit header")
	ErrNoMoreItems         = errors.New("no more items")
)

// IsNotFound checks whether the error is a singular read against a
// nonexistent resource.
func IsNotFound(err error) bool {
	notFound := &NotFoundError{}

	return errors.As(err, &notFound)
}

// IsValidation checks whether the error is an attribute rejection by the API.
func IsValidation(err error) bool {
	validation := &ValidationError{}

	return errors.As(err, &validation)
}

// IsConfig checks whether the error is a configuration mistake (unknown
// version, missing path placeholder).
func IsConfig(err error) bool {
	config := &ConfigError{}

	return errors.As(err, &config)
}

// IsRateLimited checks whether the error is a 429 from the API after the
// transport's retry budget was exhausted.
func IsRateLimited(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusTooManyRequests
	}

	return false
}
