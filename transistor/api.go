package transistor

import (
	"context"
)

// API defines the interface for Transistor operations
type API interface {
	// Get issues a GET with args as the query string
	Get(ctx context.Context, path string, args *Args, opts ...CallOption) *Outcome

	// Post issues a POST with args as the JSON body
	Post(ctx context.Context, path string, args *Args, opts ...CallOption) *Outcome

	// Patch issues a PATCH with args as the JSON body
	Patch(ctx context.Context, path string, args *Args, opts ...CallOption) *Outcome

	// Delete issues a DELETE
	Delete(ctx context.Context, path string, args *Args, opts ...CallOption) *Outcome

	// CurrentUser fetches the user owning the API key
	CurrentUser(ctx context.Context, opts ...CallOption) *Outcome
}

// Diagnostics exposes the most recent call made through a client
type Diagnostics interface {
	LastRequest() Request
	LastResponse() Response
	LastError() string
	WasSuccessful() bool
}

var (
	_ API         = (*Client)(nil)
	_ Diagnostics = (*Client)(nil)
)
