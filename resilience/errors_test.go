package resilience

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

type fakeNetError struct{ msg string }

func (e *fakeNetError) Error() string   { return e.msg }
func (e *fakeNetError) Timeout() bool   { return false }
func (e *fakeNetError) Temporary() bool { return true }

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, ""},
		{"circuit open", ErrCircuitOpen, KindCircuitOpen},
		{"wrapped circuit open", fmt.Errorf("call: %w", ErrCircuitOpen), KindCircuitOpen},
		{"timeout sentinel", ErrTimeout, KindTimeout},
		{"deadline exceeded", context.DeadlineExceeded, KindTimeout},
		{"rate limit sentinel", ErrRateLimitExceeded, KindRateLimited},
		{"status 429", &APIError{StatusCode: 429}, KindRateLimited},
		{"rate limit message", errors.New("upstream rate limit hit"), KindRateLimited},
		{"quota message", errors.New("quota exceeded for project"), KindRateLimited},
		{"net error", &fakeNetError{msg: "read tcp: i/o problem"}, KindTransientNetwork},
		{"connection reset", errors.New("read: connection reset by peer"), KindTransientNetwork},
		{"connection refused", errors.New("dial tcp: connection refused"), KindTransientNetwork},
		{"no such host", errors.New("lookup api.example.com: no such host"), KindTransientNetwork},
		{"status 500", &APIError{StatusCode: 500}, KindUnretryable},
		{"generic", errors.New("invalid argument"), KindUnretryable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	apiErr := &APIError{StatusCode: 503, Message: "unavailable"}

	if code, ok := HTTPStatus(apiErr); !ok || code != 503 {
		t.Errorf("HTTPStatus() = %d, %v, want 503, true", code, ok)
	}

	wrapped := fmt.Errorf("fetching forecast: %w", apiErr)
	if code, ok := HTTPStatus(wrapped); !ok || code != 503 {
		t.Errorf("HTTPStatus(wrapped) = %d, %v, want 503, true", code, ok)
	}

	if _, ok := HTTPStatus(errors.New("plain")); ok {
		t.Error("HTTPStatus(plain error) = true, want false")
	}
}

func TestAPIError_Error(t *testing.T) {
	withMsg := &APIError{StatusCode: 404, Message: "not found"}
	if got := withMsg.Error(); got != "api error: status 404: not found" {
		t.Errorf("Error() = %q", got)
	}

	bare := &APIError{StatusCode: 500}
	if got := bare.Error(); got != "api error: status 500" {
		t.Errorf("Error() = %q", got)
	}
}

func TestAPIError_Unwrap(t *testing.T) {
	cause := errors.New("underlying")
	err := &APIError{StatusCode: 502, Err: cause}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(APIError, cause) = false, want true")
	}
}
