package resilience

import "time"

// Config is the immutable configuration of an Executor, set once at
// construction.
type Config struct {
	// MaxRetries is the number of retries after the initial attempt.
	// Must be >= 0. The zero value means no retries; use DefaultConfig for
	// the standard 3.
	MaxRetries int

	// BaseDelay is the backoff delay before the first retry.
	// Default: 1 second
	BaseDelay time.Duration

	// MaxDelay caps the backoff delay between retries.
	// Default: 10 seconds
	MaxDelay time.Duration

	// BackoffMultiplier is the exponential backoff multiplier.
	// Must be > 1. Default: 2.0
	BackoffMultiplier float64

	// RetryableStatusCodes are HTTP statuses that trigger a retry.
	// Default: 408, 429, 500, 502, 503, 504
	RetryableStatusCodes []int

	// Timeout is the per-attempt deadline for the operation.
	// Default: 30 seconds
	Timeout time.Duration

	// DisableMetrics turns off the in-process metrics aggregator.
	DisableMetrics bool

	// DisableLogging turns off the executor's structured logging.
	DisableLogging bool
}

var defaultRetryableStatusCodes = []int{408, 429, 500, 502, 503, 504}

// DefaultConfig returns the standard executor configuration.
func DefaultConfig() Config {
	return Config{
		MaxRetries:           3,
		BaseDelay:            time.Second,
		MaxDelay:             10 * time.Second,
		BackoffMultiplier:    2.0,
		RetryableStatusCodes: defaultRetryableStatusCodes,
		Timeout:              30 * time.Second,
	}
}

// withDefaults fills unset fields. MaxRetries is left alone except for
// clamping negatives, so an explicit zero stays "no retries".
func (c Config) withDefaults() Config {
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = time.Second
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = 10 * time.Second
	}
	if c.BackoffMultiplier <= 1 {
		c.BackoffMultiplier = 2.0
	}
	if c.RetryableStatusCodes == nil {
		c.RetryableStatusCodes = defaultRetryableStatusCodes
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	return c
}
