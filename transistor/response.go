package transistor

import (
	"encoding/json"
	"maps"
	"strings"
)

// Response is the interpreted form of a Transfer, kept for diagnostics.
type Response struct {
	StatusCode int
	Info       TransferInfo
	Headers    map[string]string
	Body       string
}

// clone returns a copy that shares no maps with r.
func (r Response) clone() Response {
	r.Headers = maps.Clone(r.Headers)
	return r
}

// interpret splits a transfer into headers and body and decodes the body.
// decoded is nil and ok false when the body is empty or not JSON.
func interpret(t Transfer) (resp Response, decoded any, ok bool) {
	resp = Response{
		StatusCode: t.Info.StatusCode,
		Info:       t.Info,
		Headers:    map[string]string{},
	}
	if t.Failed() {
		return resp, nil, false
	}

	head, body := splitPayload(string(t.Raw), t.Info.HeaderSize)
	resp.Headers = ParseHeaders(head)
	resp.Body = body

	decoded, ok = DecodeBody(body)
	return resp, decoded, ok
}

// splitPayload cuts a raw payload at the header/body boundary.
func splitPayload(raw string, headerSize int) (head, body string) {
	if headerSize < 0 {
		headerSize = 0
	}
	if headerSize > len(raw) {
		headerSize = len(raw)
	}
	return raw[:headerSize], raw[headerSize:]
}

// ParseHeaders parses a raw header block. Status lines and blank lines are skipped,
// every other line is split on its first colon, and a repeated name keeps its last value.
func ParseHeaders(block string) map[string]string {
	headers := make(map[string]string)
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "HTTP/") {
			continue
		}
		name, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		headers[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}
	return headers
}

// DecodeBody decodes a JSON body into generic values. An empty or malformed body
// yields (nil, false) and never an error.
func DecodeBody(body string) (any, bool) {
	if strings.TrimSpace(body) == "" {
		return nil, false
	}
	var decoded any
	if err := json.Unmarshal([]byte(body), &decoded); err != nil {
		return nil, false
	}
	return decoded, true
}

// isStructured reports whether a decoded body is an object or an array.
func isStructured(decoded any) bool {
	switch decoded.(type) {
	case map[string]any, []any:
		return true
	default:
		return false
	}
}
