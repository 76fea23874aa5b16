package transistor

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultBaseURL is the versioned Transistor API root.
	DefaultBaseURL = "https://api.transistor.fm/v1/"
	// DefaultTimeout applies to calls that don't set their own.
	DefaultTimeout = 10 * time.Second
	// DefaultUserAgent identifies the client to the API.
	DefaultUserAgent = "transistor-go"
	// MediaType is sent as both Accept and Content-Type.
	MediaType = "application/vnd.api+json"
	// APIKeyHeader carries the credential on every request.
	APIKeyHeader = "x-api-key"
)

// Request is the snapshot of a built call, kept for diagnostics.
// UID identifies the call in logs; it is not sent.
type Request struct {
	UID     string
	Method  string
	Path    string
	URL     string
	Args    *Args
	Body    string
	Header  http.Header
	Timeout time.Duration
}

// String returns a one-line description of the request.
func (r Request) String() string {
	return fmt.Sprintf("%s %s", r.Method, r.URL)
}

// clone returns a copy that shares no maps with r.
func (r Request) clone() Request {
	r.Header = r.Header.Clone()
	r.Args = r.Args.clone()
	return r
}

// buildRequest turns a verb, path and arguments into a Request plus the headers to send.
// Only GET, POST, PATCH and DELETE reach this point.
func (c *Client) buildRequest(method, path string, args *Args, timeout time.Duration) (Request, map[string]string, error) {
	req := Request{
		UID:     newUID(),
		Method:  method,
		Path:    path,
		URL:     c.baseURL + strings.TrimLeft(path, "/"),
		Args:    args.clone(),
		Timeout: timeout,
	}

	switch method {
	case http.MethodGet:
		if query := args.Encode(); query != "" {
			req.URL += "?" + query
		}
	case http.MethodPost, http.MethodPatch:
		body := []byte("{}")
		if args != nil {
			encoded, err := args.MarshalJSON()
			if err != nil {
				return req, nil, fmt.Errorf("failed to encode request body: %w", err)
			}
			body = encoded
		}
		req.Body = string(body)
	case http.MethodDelete:
	default:
		return req, nil, fmt.Errorf("unsupported method %q", method)
	}

	headers := map[string]string{
		"Accept":       MediaType,
		"Content-Type": MediaType,
		APIKeyHeader:   c.apiKey,
		"User-Agent":   c.userAgent,
	}

	req.Header = make(http.Header, len(headers))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	req.Header.Set(APIKeyHeader, redact(c.apiKey))

	return req, headers, nil
}

func newUID() string {
	id, err := uuid.NewUUID()
	if err != nil {
		id = uuid.New()
	}
	return strings.ReplaceAll(id.String(), "-", "")
}

// redact keeps the last four characters of a secret.
func redact(secret string) string {
	if len(secret) <= 4 {
		return strings.Repeat("*", len(secret))
	}
	return strings.Repeat("*", len(secret)-4) + secret[len(secret)-4:]
}
