package transistor

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Common errors
var (
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid transistor configuration")
	// ErrNoTransport indicates no usable HTTP transport was supplied
	ErrNoTransport = errors.New("no HTTP transport available")
	// ErrTransport indicates the request never produced a response
	ErrTransport = errors.New("transport failure")
	// ErrTimeout indicates the request ran into its timeout
	ErrTimeout = errors.New("request timed out")
	// ErrUnknown indicates a failed call with nothing to explain it
	ErrUnknown = errors.New("unknown error")
	// ErrNotStructured is returned when decoding a result that carries no JSON body
	ErrNotStructured = errors.New("response body is not structured JSON")
)

// unknownErrorMessage is recorded as the last error when no other rule explains a failure.
const unknownErrorMessage = "Unknown error, call LastResponse() to find out what happened."

// APIError is a failure reported by the API itself through a status/detail body.
type APIError struct {
	StatusCode int
	Detail     string
	Body       string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Detail)
}

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// IsValidation checks if the API rejected the submitted arguments
func (e *APIError) IsValidation() bool {
	return e.StatusCode == http.StatusUnprocessableEntity
}

// TransportError wraps a connect, DNS, TLS or read failure.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// TimeoutError reports a call whose elapsed time reached its timeout.
type TimeoutError struct {
	Elapsed time.Duration
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return timeoutMessage(e.Elapsed)
}

func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// UnknownError is a non-2xx response without a structured explanation.
type UnknownError struct {
	StatusCode int
}

func (e *UnknownError) Error() string {
	return unknownErrorMessage
}

func (e *UnknownError) Is(target error) bool {
	return target == ErrUnknown
}

func timeoutMessage(elapsed time.Duration) string {
	return fmt.Sprintf("Request timed out after %f seconds.", elapsed.Seconds())
}
