package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetryPolicy_ShouldRetry(t *testing.T) {
	p := newRetryPolicy(DefaultConfig())

	tests := []struct {
		name    string
		err     error
		attempt int
		want    bool
	}{
		{"retryable status 503", &APIError{StatusCode: 503}, 0, true},
		{"retryable status 429", &APIError{StatusCode: 429}, 0, true},
		{"unretryable status 400", &APIError{StatusCode: 400}, 0, false},
		{"unretryable status 404", &APIError{StatusCode: 404}, 0, false},
		{"timeout", ErrTimeout, 0, true},
		{"deadline exceeded", context.DeadlineExceeded, 0, true},
		{"transient network", errors.New("dial tcp: connection refused"), 0, true},
		{"rate limited", ErrRateLimitExceeded, 0, true},
		{"generic error", errors.New("invalid argument"), 0, false},
		{"budget exhausted", &APIError{StatusCode: 503}, 3, false},
		{"past budget", &APIError{StatusCode: 503}, 5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.shouldRetry(tt.err, tt.attempt); got != tt.want {
				t.Errorf("shouldRetry(%v, %d) = %v, want %v", tt.err, tt.attempt, got, tt.want)
			}
		})
	}
}

func TestRetryPolicy_ShouldRetry_ZeroBudget(t *testing.T) {
	p := newRetryPolicy(Config{}.withDefaults())

	if p.shouldRetry(&APIError{StatusCode: 503}, 0) {
		t.Error("shouldRetry() = true with zero retry budget, want false")
	}
}

func TestRetryPolicy_BackoffDelay(t *testing.T) {
	p := newRetryPolicy(Config{
		MaxRetries:        5,
		BaseDelay:         100 * time.Millisecond,
		MaxDelay:          10 * time.Second,
		BackoffMultiplier: 2.0,
	}.withDefaults())

	for attempt := 0; attempt < 4; attempt++ {
		base := 100 * time.Millisecond << attempt
		// Jitter adds up to 10% on top of the exponential base
		lo, hi := base, base+base/10

		for i := 0; i < 50; i++ {
			d := p.backoffDelay(attempt)
			if d < lo || d > hi {
				t.Fatalf("backoffDelay(%d) = %v, want in [%v, %v]", attempt, d, lo, hi)
			}
		}
	}
}

func TestRetryPolicy_BackoffDelay_CappedAtMax(t *testing.T) {
	p := newRetryPolicy(Config{
		MaxRetries:        10,
		BaseDelay:         time.Second,
		MaxDelay:          5 * time.Second,
		BackoffMultiplier: 2.0,
	}.withDefaults())

	for i := 0; i < 20; i++ {
		if d := p.backoffDelay(8); d != 5*time.Second {
			t.Errorf("backoffDelay(8) = %v, want capped at 5s", d)
		}
	}
}

func TestRetryPolicy_CustomStatusCodes(t *testing.T) {
	p := newRetryPolicy(Config{
		MaxRetries:           3,
		RetryableStatusCodes: []int{418},
	}.withDefaults())

	if !p.shouldRetry(&APIError{StatusCode: 418}, 0) {
		t.Error("shouldRetry(418) = false, want true with custom codes")
	}
	if p.shouldRetry(&APIError{StatusCode: 503}, 0) {
		t.Error("shouldRetry(503) = true, want false when not in custom codes")
	}
}
