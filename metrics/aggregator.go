package metrics

import (
	"context"
	"sync"
	"time"
)

// APIStats holds per-dependency counters.
type APIStats struct {
	Requests  int64
	Successes int64
	Errors    int64
}

// Snapshot is an immutable copy of the aggregated counters.
type Snapshot struct {
	TotalRequests      int64
	SuccessfulRequests int64
	FailedRequests     int64
	RetryCount         int64

	// AvgResponseTime is the running mean latency of successful calls.
	AvgResponseTime time.Duration

	// SuccessRate is SuccessfulRequests / TotalRequests, 0 when no requests
	// have been recorded.
	SuccessRate float64

	PerAPI       map[string]APIStats
	PerErrorKind map[string]int64
}

// Aggregator accumulates call outcomes. It is safe for concurrent use; the
// running mean needs the mutex to stay correct under concurrency, so all
// counters share it rather than mixing in atomics.
type Aggregator struct {
	mu       sync.Mutex
	total    int64
	success  int64
	failed   int64
	retries  int64
	avgNanos float64
	perAPI   map[string]*APIStats
	perKind  map[string]int64
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		perAPI:  make(map[string]*APIStats),
		perKind: make(map[string]int64),
	}
}

// RecordSuccess records a successful call against api with its latency.
func (a *Aggregator) RecordSuccess(_ context.Context, api string, latency time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.total++
	a.success++

	stats := a.statsLocked(api)
	stats.Requests++
	stats.Successes++

	// Incremental mean: avg' = avg + (x - avg) / n
	a.avgNanos += (float64(latency) - a.avgNanos) / float64(a.success)
}

// RecordFailure records a failed call against api with its error kind.
func (a *Aggregator) RecordFailure(_ context.Context, api string, kind string, latency time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.total++
	a.failed++

	stats := a.statsLocked(api)
	stats.Requests++
	stats.Errors++

	if kind != "" {
		a.perKind[kind]++
	}
}

// RecordRetry records a retry attempt.
func (a *Aggregator) RecordRetry(_ context.Context, api string) {
	a.mu.Lock()
	a.retries++
	a.mu.Unlock()
}

func (a *Aggregator) statsLocked(api string) *APIStats {
	if api == "" {
		api = "unknown"
	}
	stats, ok := a.perAPI[api]
	if !ok {
		stats = &APIStats{}
		a.perAPI[api] = stats
	}
	return stats
}

// Snapshot returns a copy of the current counters.
func (a *Aggregator) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	snap := Snapshot{
		TotalRequests:      a.total,
		SuccessfulRequests: a.success,
		FailedRequests:     a.failed,
		RetryCount:         a.retries,
		AvgResponseTime:    time.Duration(a.avgNanos),
		PerAPI:             make(map[string]APIStats, len(a.perAPI)),
		PerErrorKind:       make(map[string]int64, len(a.perKind)),
	}

	if a.total > 0 {
		snap.SuccessRate = float64(a.success) / float64(a.total)
	}

	for api, stats := range a.perAPI {
		snap.PerAPI[api] = *stats
	}
	for kind, count := range a.perKind {
		snap.PerErrorKind[kind] = count
	}

	return snap
}

// Reset zeroes all counters. Callers must not rely on monotonicity across a
// reset.
func (a *Aggregator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.total = 0
	a.success = 0
	a.failed = 0
	a.retries = 0
	a.avgNanos = 0
	a.perAPI = make(map[string]*APIStats)
	a.perKind = make(map[string]int64)
}

// Ensure Aggregator implements Recorder
var _ Recorder = (*Aggregator)(nil)
