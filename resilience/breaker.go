package resilience

import (
	"context"
	"sync"
	"time"
)

// State represents the circuit breaker state.
type State int

const (
	// StateClosed means the circuit is operating normally.
	StateClosed State = iota
	// StateOpen means the circuit is rejecting all calls.
	StateOpen
	// StateHalfOpen means the circuit is probing whether the dependency recovered.
	StateHalfOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// halfOpenProbeSuccesses is the number of consecutive half-open successes
// required before the circuit closes again.
const halfOpenProbeSuccesses = 3

// BreakerConfig configures a circuit breaker.
type BreakerConfig struct {
	// FailureThreshold is the number of consecutive closed-state failures
	// before the circuit opens.
	// Default: 5
	FailureThreshold int

	// ResetTimeout is how long an open circuit waits before allowing a probe.
	// Default: 30 seconds
	ResetTimeout time.Duration

	// MonitoringWindow bounds how long a failure stays relevant: once it has
	// elapsed since the last failure, the failure count decays to zero.
	// Default: 60 seconds
	MonitoringWindow time.Duration

	// OnStateChange is called when the circuit state changes.
	OnStateChange func(from, to State)

	// IsFailure determines if an error counts as a failure.
	// Default: all non-nil errors are failures.
	IsFailure func(err error) bool
}

// Breaker is a three-state circuit breaker guarding one dependency. Create
// one instance per dependency; instances are never shared across
// dependencies. All state transitions are serialized by the mutex.
type Breaker struct {
	config BreakerConfig

	mu                sync.Mutex
	state             State
	failures          int
	lastFailure       time.Time
	halfOpenSuccesses int
}

// BreakerSnapshot is a read-only view of breaker state for observability.
type BreakerSnapshot struct {
	State             State
	Failures          int
	LastFailure       time.Time
	HalfOpenSuccesses int
}

// NewBreaker creates a circuit breaker in the closed state.
func NewBreaker(config BreakerConfig) *Breaker {
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = 5
	}
	if config.ResetTimeout <= 0 {
		config.ResetTimeout = 30 * time.Second
	}
	if config.MonitoringWindow <= 0 {
		config.MonitoringWindow = 60 * time.Second
	}
	if config.IsFailure == nil {
		config.IsFailure = func(err error) bool { return err != nil }
	}

	return &Breaker{
		config: config,
		state:  StateClosed,
	}
}

// Execute runs op through the breaker. An open circuit rejects the call with
// ErrCircuitOpen without invoking op.
func (b *Breaker) Execute(ctx context.Context, op Operation) (any, error) {
	if err := b.beforeCall(); err != nil {
		return nil, err
	}

	value, err := op(ctx)
	b.afterCall(err)
	return value, err
}

// Snapshot returns the current breaker state.
func (b *Breaker) Snapshot() BreakerSnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.decayLocked()
	return BreakerSnapshot{
		State:             b.currentStateLocked(),
		Failures:          b.failures,
		LastFailure:       b.lastFailure,
		HalfOpenSuccesses: b.halfOpenSuccesses,
	}
}

// State returns the current circuit state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.decayLocked()
	return b.currentStateLocked()
}

// Reset forces the breaker back to the closed state.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	oldState := b.state
	b.state = StateClosed
	b.failures = 0
	b.halfOpenSuccesses = 0

	if oldState != StateClosed && b.config.OnStateChange != nil {
		b.config.OnStateChange(oldState, StateClosed)
	}
}

func (b *Breaker) beforeCall() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.decayLocked()

	if b.currentStateLocked() == StateOpen {
		return ErrCircuitOpen
	}
	return nil
}

func (b *Breaker) afterCall(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	isFailure := b.config.IsFailure(err)
	oldState := b.state

	switch b.state {
	case StateClosed:
		if isFailure {
			b.failures++
			b.lastFailure = time.Now()
			if b.failures >= b.config.FailureThreshold {
				b.state = StateOpen
			}
		} else {
			b.failures = 0
		}

	case StateHalfOpen:
		if isFailure {
			// Failed probe, back to open with a fresh reset timer
			b.lastFailure = time.Now()
			b.state = StateOpen
			b.halfOpenSuccesses = 0
		} else {
			b.halfOpenSuccesses++
			if b.halfOpenSuccesses >= halfOpenProbeSuccesses {
				b.state = StateClosed
				b.failures = 0
				b.halfOpenSuccesses = 0
			}
		}
	}

	if oldState != b.state && b.config.OnStateChange != nil {
		b.config.OnStateChange(oldState, b.state)
	}
}

// decayLocked clears stale failures: once MonitoringWindow has elapsed since
// the last failure, the count resets regardless of state. Independent of the
// open-to-half-open timer.
func (b *Breaker) decayLocked() {
	if b.failures > 0 && !b.lastFailure.IsZero() &&
		time.Since(b.lastFailure) > b.config.MonitoringWindow {
		b.failures = 0
	}
}

// currentStateLocked performs the lazy open-to-half-open transition: an open
// circuit moves to half-open when observed after ResetTimeout has elapsed.
func (b *Breaker) currentStateLocked() State {
	if b.state == StateOpen && time.Since(b.lastFailure) > b.config.ResetTimeout {
		b.state = StateHalfOpen
		b.halfOpenSuccesses = 0
		if b.config.OnStateChange != nil {
			b.config.OnStateChange(StateOpen, StateHalfOpen)
		}
	}
	return b.state
}
