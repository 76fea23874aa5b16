package transistor

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveStatus(t *testing.T) {
	tests := []struct {
		name    string
		info    TransferInfo
		decoded any
		want    int
	}{
		{
			name: "transport status wins",
			info: TransferInfo{StatusCode: 204},
			decoded: map[string]any{
				"status": float64(500),
			},
			want: 204,
		},
		{
			name:    "body status when transport reports none",
			decoded: map[string]any{"status": float64(409)},
			want:    409,
		},
		{
			name:    "string body status",
			decoded: map[string]any{"status": "403"},
			want:    403,
		},
		{
			name:    "zero body status is ignored",
			decoded: map[string]any{"status": float64(0)},
			want:    StatusUnknown,
		},
		{
			name:    "nothing known",
			decoded: []any{},
			want:    StatusUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveStatus(StatusResolvers, tt.info, tt.decoded))
		})
	}
}

func TestResolveStatusOrder(t *testing.T) {
	info := TransferInfo{StatusCode: 200}
	decoded := map[string]any{"status": float64(422)}

	reversed := []StatusResolver{BodyStatus, TransportStatus, UnknownStatus}
	assert.Equal(t, 422, ResolveStatus(reversed, info, decoded))
	assert.Equal(t, 200, ResolveStatus(StatusResolvers, info, decoded))
	assert.Equal(t, StatusUnknown, ResolveStatus(nil, info, decoded))
}

func TestClassify(t *testing.T) {
	get := Request{Method: "GET", URL: "https://api.transistor.fm/v1/shows", Timeout: time.Second}

	tests := []struct {
		name      string
		req       Request
		resp      Response
		decoded   any
		success   bool
		message   string
		wantErrIs error
	}{
		{
			name:    "2xx",
			req:     get,
			resp:    Response{StatusCode: 200, Info: TransferInfo{StatusCode: 200}},
			success: true,
		},
		{
			name:    "2xx from body status",
			req:     get,
			decoded: map[string]any{"status": float64(202)},
			success: true,
		},
		{
			name:    "detail falls back to resolved status",
			req:     get,
			resp:    Response{Info: TransferInfo{StatusCode: 400}},
			decoded: map[string]any{"detail": "Bad filter"},
			message: "400: Bad filter",
		},
		{
			name:    "detail wins over timeout",
			req:     get,
			resp:    Response{Info: TransferInfo{StatusCode: 503, TotalTime: 2 * time.Second}},
			decoded: map[string]any{"status": float64(503), "detail": "Maintenance"},
			message: "503: Maintenance",
		},
		{
			name:      "timeout",
			req:       get,
			resp:      Response{Info: TransferInfo{TotalTime: 1500 * time.Millisecond, Error: "context deadline exceeded"}},
			message:   "Request timed out after 1.500000 seconds.",
			wantErrIs: ErrTimeout,
		},
		{
			name:      "zero timeout never times out",
			req:       Request{Method: "GET", Timeout: 0},
			resp:      Response{Info: TransferInfo{StatusCode: 500, TotalTime: time.Hour}},
			message:   unknownErrorMessage,
			wantErrIs: ErrUnknown,
		},
		{
			name:      "transport failure",
			req:       get,
			resp:      Response{Info: TransferInfo{TotalTime: time.Millisecond, Error: "dial tcp: no such host"}},
			message:   "dial tcp: no such host",
			wantErrIs: ErrTransport,
		},
		{
			name:      "unknown",
			req:       get,
			resp:      Response{Info: TransferInfo{StatusCode: 500, TotalTime: time.Millisecond}},
			decoded:   map[string]any{"message": "boom"},
			message:   unknownErrorMessage,
			wantErrIs: ErrUnknown,
		},
		{
			name:      "JSON:API errors array falls through to unknown",
			req:       get,
			resp:      Response{Info: TransferInfo{StatusCode: 404, TotalTime: time.Millisecond}},
			decoded:   map[string]any{"errors": []any{map[string]any{"status": "404", "detail": "Show not found"}}},
			message:   unknownErrorMessage,
			wantErrIs: ErrUnknown,
		},
		{
			name:      "null detail is not an API error",
			req:       get,
			resp:      Response{Info: TransferInfo{StatusCode: 500}},
			decoded:   map[string]any{"detail": nil},
			message:   unknownErrorMessage,
			wantErrIs: ErrUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := classify(tt.req, tt.resp, tt.decoded)
			assert.Equal(t, tt.success, v.success)
			assert.Equal(t, tt.message, v.message)
			assert.Equal(t, v.success, v.message == "")
			if tt.success {
				assert.NoError(t, v.err)
			} else {
				require.Error(t, v.err)
				assert.Contains(t, v.err.Error(), tt.message)
			}
			if tt.wantErrIs != nil {
				assert.True(t, errors.Is(v.err, tt.wantErrIs), "want %v, got %v", tt.wantErrIs, v.err)
			}
		})
	}
}

func TestResult(t *testing.T) {
	t.Run("structured", func(t *testing.T) {
		r := Structured(map[string]any{"data": map[string]any{"id": "1"}})
		assert.True(t, r.IsStructured())

		_, ok := r.Success()
		assert.False(t, ok)

		var doc struct {
			Data struct {
				ID string `json:"id"`
			} `json:"data"`
		}
		require.NoError(t, r.Decode(&doc))
		assert.Equal(t, "1", doc.Data.ID)
		assert.Equal(t, "structured", r.String())
	})

	t.Run("status", func(t *testing.T) {
		r := Status(true)
		assert.False(t, r.IsStructured())

		success, ok := r.Success()
		assert.True(t, ok)
		assert.True(t, success)

		body, ok := r.Body()
		assert.False(t, ok)
		assert.Nil(t, body)
		assert.ErrorIs(t, r.Decode(&struct{}{}), ErrNotStructured)
	})
}

func TestAPIError(t *testing.T) {
	t.Run("Error message", func(t *testing.T) {
		err := &APIError{StatusCode: 404, Detail: "Not Found"}
		assert.Equal(t, "404: Not Found", err.Error())
	})

	t.Run("IsUnauthorized", func(t *testing.T) {
		tests := []struct {
			code     int
			expected bool
		}{
			{401, true},
			{403, true},
			{404, false},
			{500, false},
		}

		for _, tt := range tests {
			err := &APIError{StatusCode: tt.code}
			assert.Equal(t, tt.expected, err.IsUnauthorized())
		}
	})
}
