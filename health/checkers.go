package health

import (
	"context"
	"fmt"

	"github.com/jonwraymond/callguard/resilience"
)

// BreakerChecker reports the state of a circuit breaker: open circuits are
// unhealthy, half-open circuits degraded.
type BreakerChecker struct {
	name    string
	breaker *resilience.Breaker
}

// NewBreakerChecker creates a checker for the given breaker.
func NewBreakerChecker(name string, breaker *resilience.Breaker) *BreakerChecker {
	return &BreakerChecker{name: name, breaker: breaker}
}

// Name returns the checker name.
func (c *BreakerChecker) Name() string {
	return c.name
}

// Check inspects the breaker snapshot.
func (c *BreakerChecker) Check(_ context.Context) Result {
	snap := c.breaker.Snapshot()
	details := map[string]any{
		"state":    snap.State.String(),
		"failures": snap.Failures,
	}
	if !snap.LastFailure.IsZero() {
		details["last_failure"] = snap.LastFailure
	}

	switch snap.State {
	case resilience.StateOpen:
		return Unhealthy(fmt.Sprintf("circuit %s is open", c.name), resilience.ErrCircuitOpen).WithDetails(details)
	case resilience.StateHalfOpen:
		return Degraded(fmt.Sprintf("circuit %s is probing recovery", c.name)).WithDetails(details)
	default:
		return Healthy(fmt.Sprintf("circuit %s is closed", c.name)).WithDetails(details)
	}
}

// LimiterChecker reports token-bucket saturation: a nearly empty bucket means
// callers are being paced and the dependency is degraded.
type LimiterChecker struct {
	name    string
	limiter *resilience.RateLimiter

	// DegradedBelow is the token fraction under which the check reports
	// degraded. Default: 0.1
	DegradedBelow float64
}

// NewLimiterChecker creates a checker for the given limiter.
func NewLimiterChecker(name string, limiter *resilience.RateLimiter) *LimiterChecker {
	return &LimiterChecker{name: name, limiter: limiter, DegradedBelow: 0.1}
}

// Name returns the checker name.
func (c *LimiterChecker) Name() string {
	return c.name
}

// Check inspects the current token level.
func (c *LimiterChecker) Check(_ context.Context) Result {
	tokens := c.limiter.Tokens()
	capacity := c.limiter.Capacity()
	details := map[string]any{
		"tokens":   tokens,
		"capacity": capacity,
	}

	if capacity > 0 && tokens/capacity < c.DegradedBelow {
		return Degraded(fmt.Sprintf("rate limiter %s is saturated", c.name)).WithDetails(details)
	}
	return Healthy(fmt.Sprintf("rate limiter %s has capacity", c.name)).WithDetails(details)
}
