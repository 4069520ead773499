package resilience

import (
	"context"

	"github.com/google/uuid"
)

// Operation is a guarded unit of work, typically one outbound API request.
type Operation func(ctx context.Context) (any, error)

// Call is the per-call mutable bag threaded through the interceptor chain.
// It is created fresh for each Execute invocation and discarded afterwards.
type Call struct {
	// ID correlates log lines and spans for one logical call.
	ID string

	// API names the operation, e.g. "weather.forecast".
	API string

	// Attempt is 1 for the initial try, incremented on each retry.
	Attempt int

	// Fields holds caller-supplied data such as headers. Interceptors may
	// read, add, or replace entries.
	Fields map[string]any
}

// NewCall creates a call bag for the named API operation.
func NewCall(api string) *Call {
	return &Call{
		ID:     uuid.NewString(),
		API:    api,
		Fields: make(map[string]any),
	}
}

// Set stores a caller-supplied field.
func (c *Call) Set(key string, value any) {
	if c.Fields == nil {
		c.Fields = make(map[string]any)
	}
	c.Fields[key] = value
}

// Get returns a caller-supplied field.
func (c *Call) Get(key string) (any, bool) {
	v, ok := c.Fields[key]
	return v, ok
}
