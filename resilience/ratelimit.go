package resilience

import (
	"context"
	"sync"
	"time"
)

// RateLimiter is a token bucket pacing call admission. Capacity equals the
// configured rate, so the bucket holds at most one second of work. Acquire is
// advisory pacing, not a hard denial: callers always eventually proceed.
type RateLimiter struct {
	mu         sync.Mutex
	capacity   float64
	tokens     float64
	lastRefill time.Time
}

// NewRateLimiter creates a limiter admitting requestsPerSecond calls at
// steady state. The bucket starts full.
func NewRateLimiter(requestsPerSecond float64) *RateLimiter {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}
	return &RateLimiter{
		capacity:   requestsPerSecond,
		tokens:     requestsPerSecond,
		lastRefill: time.Now(),
	}
}

// Acquire consumes one token, suspending the caller until it is available or
// ctx is done. When the bucket is short, the caller waits out the deficit and
// then proceeds with the bucket treated as drained; availability is not
// re-checked after the wait.
func (rl *RateLimiter) Acquire(ctx context.Context) error {
	rl.mu.Lock()
	rl.refillLocked()

	if rl.tokens >= 1 {
		rl.tokens--
		rl.mu.Unlock()
		return nil
	}

	wait := time.Duration((1 - rl.tokens) / rl.capacity * float64(time.Second))
	// Pre-claim the token that accrues during the wait: the bucket is drained
	// and refill accounting restarts once the wait has elapsed.
	rl.tokens = 0
	rl.lastRefill = time.Now().Add(wait)
	rl.mu.Unlock()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		return nil
	}
}

// Tokens returns the currently available tokens, for observability.
func (rl *RateLimiter) Tokens() float64 {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.refillLocked()
	return rl.tokens
}

// Capacity returns the maximum token count, which equals the steady rate.
func (rl *RateLimiter) Capacity() float64 {
	return rl.capacity
}

func (rl *RateLimiter) refillLocked() {
	now := time.Now()
	elapsed := now.Sub(rl.lastRefill)
	if elapsed <= 0 {
		// lastRefill may sit in the future while a waiter's pre-claimed
		// token accrues.
		return
	}
	rl.lastRefill = now

	rl.tokens += elapsed.Seconds() * rl.capacity
	if rl.tokens > rl.capacity {
		rl.tokens = rl.capacity
	}
}
