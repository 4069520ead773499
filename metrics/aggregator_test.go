package metrics

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestAggregator_RecordSuccess(t *testing.T) {
	a := NewAggregator()
	ctx := context.Background()

	a.RecordSuccess(ctx, "weather.forecast", 100*time.Millisecond)
	a.RecordSuccess(ctx, "weather.forecast", 200*time.Millisecond)

	snap := a.Snapshot()
	if snap.TotalRequests != 2 {
		t.Errorf("TotalRequests = %d, want 2", snap.TotalRequests)
	}
	if snap.SuccessfulRequests != 2 {
		t.Errorf("SuccessfulRequests = %d, want 2", snap.SuccessfulRequests)
	}
	if snap.SuccessRate != 1.0 {
		t.Errorf("SuccessRate = %v, want 1.0", snap.SuccessRate)
	}
	if snap.AvgResponseTime != 150*time.Millisecond {
		t.Errorf("AvgResponseTime = %v, want 150ms", snap.AvgResponseTime)
	}

	stats := snap.PerAPI["weather.forecast"]
	if stats.Requests != 2 || stats.Successes != 2 || stats.Errors != 0 {
		t.Errorf("PerAPI stats = %+v, want 2 requests, 2 successes", stats)
	}
}

func TestAggregator_RecordFailure(t *testing.T) {
	a := NewAggregator()
	ctx := context.Background()

	a.RecordSuccess(ctx, "orders.create", 100*time.Millisecond)
	a.RecordFailure(ctx, "orders.create", "timeout", 2*time.Second)
	a.RecordFailure(ctx, "orders.create", "timeout", 2*time.Second)
	a.RecordFailure(ctx, "orders.create", "unretryable", 10*time.Millisecond)

	snap := a.Snapshot()
	if snap.TotalRequests != 4 {
		t.Errorf("TotalRequests = %d, want 4", snap.TotalRequests)
	}
	if snap.FailedRequests != 3 {
		t.Errorf("FailedRequests = %d, want 3", snap.FailedRequests)
	}
	if snap.SuccessRate != 0.25 {
		t.Errorf("SuccessRate = %v, want 0.25", snap.SuccessRate)
	}
	if snap.PerErrorKind["timeout"] != 2 {
		t.Errorf("PerErrorKind[timeout] = %d, want 2", snap.PerErrorKind["timeout"])
	}
	if snap.PerErrorKind["unretryable"] != 1 {
		t.Errorf("PerErrorKind[unretryable] = %d, want 1", snap.PerErrorKind["unretryable"])
	}

	// Failure latencies do not pull down the success mean
	if snap.AvgResponseTime != 100*time.Millisecond {
		t.Errorf("AvgResponseTime = %v, want 100ms", snap.AvgResponseTime)
	}
}

func TestAggregator_RecordRetry(t *testing.T) {
	a := NewAggregator()

	a.RecordRetry(context.Background(), "orders.create")
	a.RecordRetry(context.Background(), "orders.create")

	snap := a.Snapshot()
	if snap.RetryCount != 2 {
		t.Errorf("RetryCount = %d, want 2", snap.RetryCount)
	}
	// Retries are not requests
	if snap.TotalRequests != 0 {
		t.Errorf("TotalRequests = %d, want 0", snap.TotalRequests)
	}
}

func TestAggregator_EmptySnapshot(t *testing.T) {
	a := NewAggregator()

	snap := a.Snapshot()
	if snap.SuccessRate != 0 {
		t.Errorf("SuccessRate = %v, want 0 for empty aggregator", snap.SuccessRate)
	}
	if snap.AvgResponseTime != 0 {
		t.Errorf("AvgResponseTime = %v, want 0", snap.AvgResponseTime)
	}
}

func TestAggregator_UnknownAPI(t *testing.T) {
	a := NewAggregator()

	a.RecordSuccess(context.Background(), "", 10*time.Millisecond)

	snap := a.Snapshot()
	if snap.PerAPI["unknown"].Requests != 1 {
		t.Errorf("PerAPI[unknown].Requests = %d, want 1", snap.PerAPI["unknown"].Requests)
	}
}

func TestAggregator_Reset(t *testing.T) {
	a := NewAggregator()
	ctx := context.Background()

	a.RecordSuccess(ctx, "test.op", 10*time.Millisecond)
	a.RecordFailure(ctx, "test.op", "timeout", time.Second)
	a.RecordRetry(ctx, "test.op")

	a.Reset()

	snap := a.Snapshot()
	if snap.TotalRequests != 0 || snap.RetryCount != 0 {
		t.Errorf("Snapshot after reset = %+v, want zeroed", snap)
	}
	if len(snap.PerAPI) != 0 || len(snap.PerErrorKind) != 0 {
		t.Errorf("Maps after reset = %v / %v, want empty", snap.PerAPI, snap.PerErrorKind)
	}
}

func TestAggregator_SnapshotIsCopy(t *testing.T) {
	a := NewAggregator()
	a.RecordSuccess(context.Background(), "test.op", 10*time.Millisecond)

	snap := a.Snapshot()
	snap.PerAPI["test.op"] = APIStats{Requests: 99}

	if a.Snapshot().PerAPI["test.op"].Requests != 1 {
		t.Error("Mutating a snapshot leaked into the aggregator")
	}
}

func TestAggregator_Concurrent(t *testing.T) {
	a := NewAggregator()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				a.RecordSuccess(ctx, "test.op", time.Millisecond)
				a.RecordFailure(ctx, "test.op", "timeout", time.Millisecond)
				a.RecordRetry(ctx, "test.op")
			}
		}()
	}
	wg.Wait()

	snap := a.Snapshot()
	if snap.TotalRequests != 2000 {
		t.Errorf("TotalRequests = %d, want 2000", snap.TotalRequests)
	}
	if snap.SuccessfulRequests != 1000 || snap.FailedRequests != 1000 {
		t.Errorf("Successes/failures = %d/%d, want 1000/1000",
			snap.SuccessfulRequests, snap.FailedRequests)
	}
	if snap.RetryCount != 1000 {
		t.Errorf("RetryCount = %d, want 1000", snap.RetryCount)
	}
	if snap.AvgResponseTime != time.Millisecond {
		t.Errorf("AvgResponseTime = %v, want 1ms", snap.AvgResponseTime)
	}
}
