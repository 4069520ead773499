package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHandler_Healthy(t *testing.T) {
	agg := NewAggregator(AggregatorConfig{})
	agg.Register("db", NewCheckerFunc("db", func(ctx context.Context) Result {
		return Healthy("connected").WithDetails(map[string]any{"pool": 5})
	}))

	rec := httptest.NewRecorder()
	Handler(agg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("status = %v, want healthy", body["status"])
	}

	checks := body["checks"].(map[string]any)
	db := checks["db"].(map[string]any)
	if db["status"] != "healthy" {
		t.Errorf("db status = %v, want healthy", db["status"])
	}
	if db["details"].(map[string]any)["pool"] != 5.0 {
		t.Errorf("db details = %v, want pool 5", db["details"])
	}
}

func TestHandler_Unhealthy(t *testing.T) {
	agg := NewAggregator(AggregatorConfig{})
	agg.Register("upstream", NewCheckerFunc("upstream", func(ctx context.Context) Result {
		return Unhealthy("connection refused", errors.New("dial tcp: connection refused"))
	}))

	rec := httptest.NewRecorder()
	Handler(agg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body["status"] != "unhealthy" {
		t.Errorf("status = %v, want unhealthy", body["status"])
	}

	upstream := body["checks"].(map[string]any)["upstream"].(map[string]any)
	if upstream["error"] != "dial tcp: connection refused" {
		t.Errorf("error = %v, want underlying error message", upstream["error"])
	}
}
