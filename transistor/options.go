package transistor

import (
	"net/http"
	"time"
)

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	baseURL    string
	timeout    time.Duration
	userAgent  string
	httpClient *http.Client
}

func defaultOptions() clientOptions {
	return clientOptions{
		baseURL:    DefaultBaseURL,
		timeout:    DefaultTimeout,
		userAgent:  DefaultUserAgent,
		httpClient: &http.Client{},
	}
}

// WithBaseURL points the client at another versioned API root.
func WithBaseURL(baseURL string) Option {
	return func(o *clientOptions) {
		o.baseURL = baseURL
	}
}

// WithDefaultTimeout sets the timeout used by calls that don't pass their own.
func WithDefaultTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		o.timeout = timeout
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return func(o *clientOptions) {
		if userAgent != "" {
			o.userAgent = userAgent
		}
	}
}

// WithHTTPClient sets the underlying HTTP client.
// Certificate verification cannot be turned off through it.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = client
	}
}

// CallOption configures a single call.
type CallOption func(*callOptions)

type callOptions struct {
	timeout time.Duration
}

// Timeout overrides the client's default timeout for one call.
// A zero timeout disables both the deadline and timeout detection.
func Timeout(timeout time.Duration) CallOption {
	return func(o *callOptions) {
		if timeout >= 0 {
			o.timeout = timeout
		}
	}
}
