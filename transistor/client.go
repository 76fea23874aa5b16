package transistor

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Client represents a Transistor API client.
//
// Every call returns its own *Outcome. The client additionally mirrors the most recent
// call in LastRequest, LastResponse, LastError and WasSuccessful; with calls in flight
// on several goroutines the mirror reflects whichever finished last.
type Client struct {
	baseURL   string
	apiKey    string
	timeout   time.Duration
	userAgent string
	exec      *executor
	logger    zerolog.Logger

	mu    sync.RWMutex
	state callState
}

// callState mirrors the most recent call.
type callState struct {
	request  Request
	response Response
	err      string
	success  bool
}

// NewClient creates a new Transistor client. No request is made.
func NewClient(apiKey string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: API key is required", ErrInvalidConfig)
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	baseURL, err := normalizeBaseURL(options.baseURL)
	if err != nil {
		return nil, err
	}
	if err := checkTransport(options.httpClient); err != nil {
		return nil, err
	}
	if options.timeout < 0 {
		return nil, fmt.Errorf("%w: timeout must not be negative", ErrInvalidConfig)
	}

	return &Client{
		baseURL:   baseURL,
		apiKey:    apiKey,
		timeout:   options.timeout,
		userAgent: options.userAgent,
		exec:      newExecutor(options.httpClient, logger),
		logger:    logger,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: invalid base URL: %v", ErrInvalidConfig, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: base URL must be an absolute http(s) URL: %q", ErrInvalidConfig, raw)
	}
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	return raw, nil
}

// checkTransport rejects a missing client and any transport that skips certificate checks.
func checkTransport(client *http.Client) error {
	if client == nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, ErrNoTransport)
	}
	if t, ok := client.Transport.(*http.Transport); ok && t != nil {
		if t.TLSClientConfig != nil && t.TLSClientConfig.InsecureSkipVerify {
			return fmt.Errorf("%w: certificate verification cannot be disabled", ErrInvalidConfig)
		}
	}
	return nil
}

// Get issues a GET; args become the query string.
func (c *Client) Get(ctx context.Context, path string, args *Args, opts ...CallOption) *Outcome {
	return c.do(ctx, http.MethodGet, path, args, opts)
}

// Post issues a POST; args become the JSON body.
func (c *Client) Post(ctx context.Context, path string, args *Args, opts ...CallOption) *Outcome {
	return c.do(ctx, http.MethodPost, path, args, opts)
}

// Patch issues a PATCH; args become the JSON body.
func (c *Client) Patch(ctx context.Context, path string, args *Args, opts ...CallOption) *Outcome {
	return c.do(ctx, http.MethodPatch, path, args, opts)
}

// Delete issues a DELETE. args are recorded but not sent.
func (c *Client) Delete(ctx context.Context, path string, args *Args, opts ...CallOption) *Outcome {
	return c.do(ctx, http.MethodDelete, path, args, opts)
}

// CurrentUser fetches the user owning the API key.
func (c *Client) CurrentUser(ctx context.Context, opts ...CallOption) *Outcome {
	return c.Get(ctx, "user", nil, opts...)
}

// do runs builder, executor, interpreter and classifier in sequence. The mirror is
// reset before the request leaves and fully written once the outcome is known;
// the lock is never held across the network call. The mirror keeps its own copies
// of the request and response so callers cannot change each other's view.
func (c *Client) do(ctx context.Context, method, path string, args *Args, opts []CallOption) *Outcome {
	co := callOptions{timeout: c.timeout}
	for _, opt := range opts {
		opt(&co)
	}

	req, headers, err := c.buildRequest(method, path, args, co.timeout)
	if err != nil {
		return c.finish(&Outcome{
			Request:  req,
			Response: Response{Headers: map[string]string{}},
			Result:   Status(false),
			Error:    err.Error(),
			err:      err,
		})
	}

	c.setState(callState{request: req.clone()})
	c.logger.Debug().
		Str("uid", req.UID).
		Str("method", req.Method).
		Str("url", req.URL).
		Dur("timeout", req.Timeout).
		Msg("Making Transistor API request")

	transfer := c.exec.execute(ctx, req, headers)
	resp, decoded, _ := interpret(transfer)
	v := classify(req, resp, decoded)

	result := Status(v.success)
	if isStructured(decoded) {
		result = Structured(decoded)
	}

	return c.finish(&Outcome{
		Request:  req,
		Response: resp,
		Result:   result,
		Success:  v.success,
		Error:    v.message,
		err:      v.err,
	})
}

func (c *Client) finish(out *Outcome) *Outcome {
	c.setState(callState{
		request:  out.Request.clone(),
		response: out.Response.clone(),
		err:      out.Error,
		success:  out.Success,
	})

	c.logger.Debug().
		Str("uid", out.Request.UID).
		Str("method", out.Request.Method).
		Str("url", out.Request.URL).
		Int("status", out.Response.StatusCode).
		Dur("elapsed", out.Response.Info.TotalTime).
		Bool("success", out.Success).
		Str("error", out.Error).
		Msg("Transistor API request finished")

	return out
}

func (c *Client) setState(s callState) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// LastRequest returns the most recently built request.
func (c *Client) LastRequest() Request {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.request.clone()
}

// LastResponse returns the most recently interpreted response.
func (c *Client) LastResponse() Response {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.response.clone()
}

// LastError returns the error message of the most recent call, or "".
func (c *Client) LastError() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.err
}

// WasSuccessful reports whether the most recent call succeeded.
func (c *Client) WasSuccessful() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.success
}
