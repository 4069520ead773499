package resilience

import (
	"math"
	"math/rand/v2"
	"time"
)

// retryPolicy decides whether a failed attempt is retried and computes the
// backoff delay. Attempt numbering is zero-based: attempt 0 is the initial
// try.
type retryPolicy struct {
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
	multiplier float64
	retryable  map[int]struct{}
}

func newRetryPolicy(cfg Config) retryPolicy {
	retryable := make(map[int]struct{}, len(cfg.RetryableStatusCodes))
	for _, code := range cfg.RetryableStatusCodes {
		retryable[code] = struct{}{}
	}
	return retryPolicy{
		maxRetries: cfg.MaxRetries,
		baseDelay:  cfg.BaseDelay,
		maxDelay:   cfg.MaxDelay,
		multiplier: cfg.BackoffMultiplier,
		retryable:  retryable,
	}
}

// shouldRetry reports whether the attempt should be retried. Retryable are:
// configured status codes, timeouts, transient network failures, and
// rate-limit responses. Everything else propagates on first occurrence.
func (p retryPolicy) shouldRetry(err error, attempt int) bool {
	if attempt >= p.maxRetries {
		return false
	}

	if code, ok := HTTPStatus(err); ok {
		if _, yes := p.retryable[code]; yes {
			return true
		}
	}

	switch Classify(err) {
	case KindTimeout, KindTransientNetwork, KindRateLimited:
		return true
	}
	return false
}

// backoffDelay computes min(base * multiplier^attempt * (1 + jitter), max)
// with jitter drawn uniformly from [0, 0.1) to avoid thundering herds.
func (p retryPolicy) backoffDelay(attempt int) time.Duration {
	delay := float64(p.baseDelay) * math.Pow(p.multiplier, float64(attempt))
	delay *= 1 + rand.Float64()*0.1 // #nosec G404 -- non-cryptographic timing variance
	if delay > float64(p.maxDelay) {
		delay = float64(p.maxDelay)
	}
	return time.Duration(delay)
}
