package metrics

import (
	"context"
	"time"
)

// Recorder observes call outcomes.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: recording must be best-effort and must not panic.
type Recorder interface {
	// RecordSuccess records a successful call against api.
	RecordSuccess(ctx context.Context, api string, latency time.Duration)

	// RecordFailure records a failed call against api with its error kind.
	RecordFailure(ctx context.Context, api string, kind string, latency time.Duration)

	// RecordRetry records that a call against api is being retried.
	RecordRetry(ctx context.Context, api string)
}

// Multi fans a single event stream out to several recorders.
type Multi struct {
	recorders []Recorder
}

// NewMulti creates a recorder that forwards every event to each of rs.
func NewMulti(rs ...Recorder) *Multi {
	return &Multi{recorders: rs}
}

func (m *Multi) RecordSuccess(ctx context.Context, api string, latency time.Duration) {
	for _, r := range m.recorders {
		r.RecordSuccess(ctx, api, latency)
	}
}

func (m *Multi) RecordFailure(ctx context.Context, api string, kind string, latency time.Duration) {
	for _, r := range m.recorders {
		r.RecordFailure(ctx, api, kind, latency)
	}
}

func (m *Multi) RecordRetry(ctx context.Context, api string) {
	for _, r := range m.recorders {
		r.RecordRetry(ctx, api)
	}
}

var _ Recorder = (*Multi)(nil)
