package resilience

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// Sentinel errors for resilience operations.
var (
	// ErrCircuitOpen is returned when the circuit breaker is open.
	ErrCircuitOpen = errors.New("resilience: circuit breaker is open")

	// ErrTimeout is returned when an operation exceeds its configured deadline.
	ErrTimeout = errors.New("resilience: operation timed out")

	// ErrRateLimitExceeded is returned when an upstream signals rate limiting.
	ErrRateLimitExceeded = errors.New("resilience: rate limit exceeded")

	// ErrBulkheadFull is returned when the bulkhead is at capacity.
	ErrBulkheadFull = errors.New("resilience: bulkhead at capacity")
)

// APIError carries the HTTP status returned by an upstream dependency.
type APIError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error: status %d", e.StatusCode)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// HTTPStatus implements the status probe used by the retry policy.
func (e *APIError) HTTPStatus() int {
	return e.StatusCode
}

// HTTPStatus extracts an HTTP status code from err, if any error in the chain
// carries one.
func HTTPStatus(err error) (int, bool) {
	var sc interface{ HTTPStatus() int }
	if errors.As(err, &sc) {
		return sc.HTTPStatus(), true
	}
	return 0, false
}

// ErrorKind classifies a call failure for metrics and retry decisions.
type ErrorKind string

const (
	KindTimeout          ErrorKind = "timeout"
	KindCircuitOpen      ErrorKind = "circuit_open"
	KindTransientNetwork ErrorKind = "transient_network"
	KindRateLimited      ErrorKind = "rate_limited"
	KindUnretryable      ErrorKind = "unretryable"
)

// Classify maps an error to its kind. Rate limiting wins over plain status
// classification so that a 429 carrying a quota message counts once.
func Classify(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrCircuitOpen):
		return KindCircuitOpen
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case isRateLimited(err):
		return KindRateLimited
	case isTransientNetwork(err):
		return KindTransientNetwork
	default:
		return KindUnretryable
	}
}

func isRateLimited(err error) bool {
	if errors.Is(err, ErrRateLimitExceeded) {
		return true
	}
	if code, ok := HTTPStatus(err); ok && code == 429 {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "rate limit") || strings.Contains(msg, "quota exceeded")
}

func isTransientNetwork(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "no such host")
}
