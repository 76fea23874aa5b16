package transistor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseHeaders(t *testing.T) {
	block := "HTTP/1.1 200 OK\r\n" +
		"\r\n" +
		"Content-Type: application/vnd.api+json\r\n" +
		"X-Trace: first\r\n" +
		"\r\n" +
		"X-Trace:   second  \r\n" +
		"Location: https://api.transistor.fm/v1/shows?page=2\r\n" +
		"\r\n"

	headers := ParseHeaders(block)

	assert.Equal(t, map[string]string{
		"Content-Type": "application/vnd.api+json",
		"X-Trace":      "second",
		"Location":     "https://api.transistor.fm/v1/shows?page=2",
	}, headers)
}

func TestParseHeadersSkipsMalformedLines(t *testing.T) {
	headers := ParseHeaders("HTTP/2 404\nnot a header\nX-A: 1\n")
	assert.Equal(t, map[string]string{"X-A": "1"}, headers)
}

func TestDecodeBody(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		want   any
		wantOK bool
	}{
		{name: "empty", body: "", want: nil, wantOK: false},
		{name: "whitespace", body: " \n", want: nil, wantOK: false},
		{name: "not JSON", body: "<html>", want: nil, wantOK: false},
		{name: "truncated", body: `{"data":`, want: nil, wantOK: false},
		{name: "object", body: `{"a":1}`, want: map[string]any{"a": float64(1)}, wantOK: true},
		{name: "array", body: `[1,"b"]`, want: []any{float64(1), "b"}, wantOK: true},
		{name: "scalar", body: `true`, want: true, wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DecodeBody(tt.body)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInterpret(t *testing.T) {
	head := "HTTP/1.1 201 Created\r\nContent-Type: application/json\r\n\r\n"
	body := `{"data":{"id":"7"}}`

	t.Run("splits at header size", func(t *testing.T) {
		resp, decoded, ok := interpret(Transfer{
			Info: TransferInfo{StatusCode: 201, HeaderSize: len(head)},
			Raw:  []byte(head + body),
		})

		assert.True(t, ok)
		assert.Equal(t, 201, resp.StatusCode)
		assert.Equal(t, body, resp.Body)
		assert.Equal(t, "application/json", resp.Headers["Content-Type"])
		assert.True(t, isStructured(decoded))
	})

	t.Run("failed transfer has no body", func(t *testing.T) {
		resp, decoded, ok := interpret(Transfer{Info: TransferInfo{Error: "dial tcp: connection refused"}})

		assert.False(t, ok)
		assert.Nil(t, decoded)
		assert.Empty(t, resp.Body)
		assert.Empty(t, resp.Headers)
		assert.Equal(t, "dial tcp: connection refused", resp.Info.Error)
	})

	t.Run("out of range header size", func(t *testing.T) {
		resp, _, _ := interpret(Transfer{
			Info: TransferInfo{HeaderSize: 1000},
			Raw:  []byte(head),
		})
		assert.Empty(t, resp.Body)
	})
}

func TestHeaderBlockRoundTrip(t *testing.T) {
	block := headerBlock("HTTP/1.1", "200 OK", map[string][]string{
		"Content-Type": {"application/json"},
		"Set-Cookie":   {"a=1", "b=2"},
	})

	assert.Equal(t, "HTTP/1.1 200 OK\r\nContent-Type: application/json\r\nSet-Cookie: a=1\r\nSet-Cookie: b=2\r\n\r\n", block)
	assert.Equal(t, map[string]string{
		"Content-Type": "application/json",
		"Set-Cookie":   "b=2",
	}, ParseHeaders(block))
}
