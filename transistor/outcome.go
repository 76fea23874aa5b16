package transistor

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// StatusUnknown is the status used when neither the transport nor the body reports one.
const StatusUnknown = http.StatusTeapot

// StatusResolver extracts a status code from one source. ok is false when the source
// has nothing to say.
type StatusResolver func(info TransferInfo, decoded any) (status int, ok bool)

// StatusResolvers is the precedence chain for status resolution: the first resolver
// reporting ok wins.
var StatusResolvers = []StatusResolver{
	TransportStatus,
	BodyStatus,
	UnknownStatus,
}

// TransportStatus returns the status code reported by the transport, if nonzero.
func TransportStatus(info TransferInfo, _ any) (int, bool) {
	return info.StatusCode, info.StatusCode != 0
}

// BodyStatus returns a numeric `status` field from a decoded JSON object.
func BodyStatus(_ TransferInfo, decoded any) (int, bool) {
	obj, ok := decoded.(map[string]any)
	if !ok {
		return 0, false
	}
	return numericStatus(obj["status"])
}

// UnknownStatus always answers StatusUnknown.
func UnknownStatus(TransferInfo, any) (int, bool) {
	return StatusUnknown, true
}

// ResolveStatus walks resolvers in order and returns the first answer.
func ResolveStatus(resolvers []StatusResolver, info TransferInfo, decoded any) int {
	for _, resolve := range resolvers {
		if status, ok := resolve(info, decoded); ok {
			return status
		}
	}
	return StatusUnknown
}

func numericStatus(v any) (int, bool) {
	switch s := v.(type) {
	case float64:
		if s != 0 {
			return int(s), true
		}
	case json.Number:
		if n, err := s.Int64(); err == nil && n != 0 {
			return int(n), true
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil && n != 0 {
			return n, true
		}
	}
	return 0, false
}

// verdict is the classifier's decision for one call.
type verdict struct {
	success bool
	message string
	err     error
}

// classify applies the outcome rules in order: 2xx, API-reported detail, timeout,
// transport failure, unknown.
func classify(req Request, resp Response, decoded any) verdict {
	status := ResolveStatus(StatusResolvers, resp.Info, decoded)
	if status >= 200 && status <= 299 {
		return verdict{success: true}
	}

	if apiErr := detailError(status, resp, decoded); apiErr != nil {
		return verdict{message: apiErr.Error(), err: apiErr}
	}

	if req.Timeout > 0 && resp.Info.TotalTime >= req.Timeout {
		timeoutErr := &TimeoutError{Elapsed: resp.Info.TotalTime, Timeout: req.Timeout}
		return verdict{message: timeoutErr.Error(), err: timeoutErr}
	}

	if resp.Info.Error != "" {
		return verdict{
			message: resp.Info.Error,
			err: &TransportError{
				Method: req.Method,
				URL:    req.URL,
				Err:    fmt.Errorf("%w: %s", ErrTransport, resp.Info.Error),
			},
		}
	}

	return verdict{message: unknownErrorMessage, err: &UnknownError{StatusCode: status}}
}

// detailError builds an APIError from a top-level `detail` field. Bodies without one,
// JSON:API errors arrays included, are left to the later rules.
func detailError(resolved int, resp Response, decoded any) *APIError {
	obj, ok := decoded.(map[string]any)
	if !ok {
		return nil
	}

	detail := obj["detail"]
	if detail == nil {
		return nil
	}

	status, found := numericStatus(obj["status"])
	if !found {
		status = resolved
	}

	return &APIError{
		StatusCode: status,
		Detail:     fmt.Sprint(detail),
		Body:       resp.Body,
	}
}

// Result is what a call hands back: the decoded body when it is an object or array,
// otherwise the success flag.
type Result struct {
	structured bool
	body       any
	success    bool
}

// Structured wraps a decoded object or array.
func Structured(body any) Result {
	return Result{structured: true, body: body}
}

// Status wraps a bare success flag.
func Status(success bool) Result {
	return Result{success: success}
}

// IsStructured reports whether the result carries a decoded body.
func (r Result) IsStructured() bool {
	return r.structured
}

// Body returns the decoded body of a structured result.
func (r Result) Body() (any, bool) {
	return r.body, r.structured
}

// Success returns the flag of a status result.
func (r Result) Success() (success bool, ok bool) {
	return r.success, !r.structured
}

// Decode re-decodes a structured result into v.
func (r Result) Decode(v any) error {
	if !r.structured {
		return ErrNotStructured
	}
	data, err := json.Marshal(r.body)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode result: %w", err)
	}
	return nil
}

// String describes the result for logs and the CLI.
func (r Result) String() string {
	if r.structured {
		return "structured"
	}
	return strconv.FormatBool(r.success)
}

// Outcome is the self-contained record of one call. The client never modifies it after
// the call returns and keeps no reference to its maps; Request.Args is a copy of the
// caller's arguments, with values other than nested Args still shared.
type Outcome struct {
	Request  Request
	Response Response
	Result   Result
	Success  bool
	Error    string

	err error
}

// Err returns the typed failure: *APIError, *TimeoutError, *TransportError,
// *UnknownError, or nil on success.
func (o *Outcome) Err() error {
	return o.err
}

// Decode decodes the raw response body into v.
func (o *Outcome) Decode(v any) error {
	if strings.TrimSpace(o.Response.Body) == "" {
		return ErrNotStructured
	}
	if err := json.Unmarshal([]byte(o.Response.Body), v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
