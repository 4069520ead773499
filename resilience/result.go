package resilience

import "time"

// Result is the outcome of one Execute invocation. Exactly one of Value and
// Err is meaningful; Attempts and Elapsed are always set.
type Result struct {
	// Value is the operation's return value when the call succeeded.
	Value any

	// Err is the last underlying error when the call failed.
	Err error

	// Attempts is 1 + the number of retries actually performed. Never
	// greater than MaxRetries + 1.
	Attempts int

	// Elapsed is the wall-clock time of the whole call, retries and backoff
	// included.
	Elapsed time.Duration
}

// Success reports whether the call produced a value.
func (r Result) Success() bool {
	return r.Err == nil
}
