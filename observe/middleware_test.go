package observe

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/jonwraymond/callguard/metrics"
)

func TestMiddleware_WrapSuccess(t *testing.T) {
	var buf bytes.Buffer
	agg := metrics.NewAggregator()
	m := NewMiddleware(NewNoopTracer(), agg, NewLoggerWithWriter("info", &buf))

	fn := m.Wrap(CallMeta{Dependency: "weather-api", API: "forecast"},
		func(ctx context.Context) (any, error) {
			return "sunny", nil
		})

	value, err := fn(context.Background())
	if err != nil {
		t.Fatalf("wrapped fn error = %v", err)
	}
	if value != "sunny" {
		t.Errorf("value = %v, want sunny", value)
	}

	snap := agg.Snapshot()
	if snap.SuccessfulRequests != 1 {
		t.Errorf("SuccessfulRequests = %d, want 1", snap.SuccessfulRequests)
	}
	if snap.PerAPI["weather-api.forecast"].Successes != 1 {
		t.Errorf("PerAPI successes = %d, want 1", snap.PerAPI["weather-api.forecast"].Successes)
	}
	if !bytes.Contains(buf.Bytes(), []byte("call execution completed")) {
		t.Error("success log line missing")
	}
}

func TestMiddleware_WrapFailure(t *testing.T) {
	var buf bytes.Buffer
	agg := metrics.NewAggregator()
	m := NewMiddleware(NewNoopTracer(), agg, NewLoggerWithWriter("info", &buf))
	m.ClassifyError = func(err error) string { return "upstream" }

	testErr := errors.New("boom")
	fn := m.Wrap(CallMeta{API: "forecast"}, func(ctx context.Context) (any, error) {
		return nil, testErr
	})

	_, err := fn(context.Background())
	if err != testErr {
		t.Fatalf("wrapped fn error = %v, want %v", err, testErr)
	}

	snap := agg.Snapshot()
	if snap.FailedRequests != 1 {
		t.Errorf("FailedRequests = %d, want 1", snap.FailedRequests)
	}
	if snap.PerErrorKind["upstream"] != 1 {
		t.Errorf("PerErrorKind[upstream] = %d, want 1", snap.PerErrorKind["upstream"])
	}
	if !bytes.Contains(buf.Bytes(), []byte("call execution failed")) {
		t.Error("failure log line missing")
	}
}

func TestNewMiddleware_NilComponents(t *testing.T) {
	m := NewMiddleware(nil, nil, nil)

	fn := m.Wrap(CallMeta{API: "test"}, func(ctx context.Context) (any, error) {
		return 1, nil
	})

	if _, err := fn(context.Background()); err != nil {
		t.Errorf("wrapped fn error = %v", err)
	}
}
