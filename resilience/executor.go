package resilience

import (
	"context"
	"errors"
	"time"

	"github.com/jonwraymond/callguard/metrics"
	"github.com/jonwraymond/callguard/observe"
)

// Executor orchestrates guarded call execution. Construct one per logical
// client and hand it to whichever component needs it; there is no package
// singleton.
type Executor struct {
	config     Config
	policy     retryPolicy
	pipeline   *Pipeline
	limiter    *RateLimiter
	bulkhead   *Bulkhead
	aggregator *metrics.Aggregator
	recorder   metrics.Recorder
	logger     observe.Logger
}

// Option configures an Executor.
type Option func(*Executor)

// WithRateLimiter paces call admission through rl.
func WithRateLimiter(rl *RateLimiter) Option {
	return func(e *Executor) {
		e.limiter = rl
	}
}

// WithBulkhead limits concurrent operations through b.
func WithBulkhead(b *Bulkhead) Option {
	return func(e *Executor) {
		e.bulkhead = b
	}
}

// WithRecorder mirrors metric events to r in addition to the in-process
// aggregator.
func WithRecorder(r metrics.Recorder) Option {
	return func(e *Executor) {
		e.recorder = r
	}
}

// WithLogger sets the executor's logger.
func WithLogger(l observe.Logger) Option {
	return func(e *Executor) {
		e.logger = l
	}
}

// New creates an Executor with the given configuration.
func New(cfg Config, opts ...Option) *Executor {
	cfg = cfg.withDefaults()

	e := &Executor{
		config:     cfg,
		policy:     newRetryPolicy(cfg),
		aggregator: metrics.NewAggregator(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		if cfg.DisableLogging {
			e.logger = observe.NopLogger()
		} else {
			e.logger = observe.NewLogger("info")
		}
	}
	e.pipeline = NewPipeline(e.logger)

	return e
}

// AddRequestInterceptor registers a request interceptor. The returned handle
// removes it again via RemoveInterceptor.
func (e *Executor) AddRequestInterceptor(fn RequestInterceptor) Handle {
	return e.pipeline.OnRequest(fn)
}

// AddResponseInterceptor registers a response interceptor.
func (e *Executor) AddResponseInterceptor(fn ResponseInterceptor) Handle {
	return e.pipeline.OnResponse(fn)
}

// AddErrorInterceptor registers an error interceptor.
func (e *Executor) AddErrorInterceptor(fn ErrorInterceptor) Handle {
	return e.pipeline.OnError(fn)
}

// RemoveInterceptor unregisters the interceptor with the given handle.
func (e *Executor) RemoveInterceptor(h Handle) bool {
	return e.pipeline.Remove(h)
}

// Metrics returns a snapshot of the aggregated counters.
func (e *Executor) Metrics() metrics.Snapshot {
	return e.aggregator.Snapshot()
}

// ResetMetrics zeroes the aggregated counters.
func (e *Executor) ResetMetrics() {
	e.aggregator.Reset()
}

// Execute runs op through the full middleware sequence. For each attempt:
// request interceptors, rate-limiter admission, timed invocation, then
// response interceptors and metrics on success or error interceptors, metrics
// and the retry decision on failure. Retries repeat the full sequence.
func (e *Executor) Execute(ctx context.Context, call *Call, op Operation) Result {
	if call == nil {
		call = NewCall("")
	}

	start := time.Now()
	attempts := 0
	var lastErr error

	for attempt := 0; ; attempt++ {
		attempts = attempt + 1
		call.Attempt = attempts

		call = e.pipeline.applyRequest(ctx, call)

		if e.limiter != nil {
			if err := e.limiter.Acquire(ctx); err != nil {
				lastErr = err
				break
			}
		}

		value, err := e.invoke(ctx, call, op)
		if err == nil {
			value = e.pipeline.applyResponse(ctx, call, value)
			elapsed := time.Since(start)
			e.recordSuccess(ctx, call.API, elapsed)
			e.logger.Debug(ctx, "call succeeded",
				observe.Field{Key: "call.id", Value: call.ID},
				observe.Field{Key: "call.api", Value: call.API},
				observe.Field{Key: "attempts", Value: attempts},
				observe.Field{Key: "elapsed_ms", Value: elapsed.Milliseconds()},
			)
			return Result{Value: value, Attempts: attempts, Elapsed: elapsed}
		}

		lastErr = err
		e.pipeline.applyError(ctx, call, err)
		e.recordFailure(ctx, call.API, err, time.Since(start))

		if !e.policy.shouldRetry(err, attempt) {
			break
		}

		e.recordRetry(ctx, call.API)
		delay := e.policy.backoffDelay(attempt)
		e.logger.Warn(ctx, "call failed, retrying",
			observe.Field{Key: "call.id", Value: call.ID},
			observe.Field{Key: "call.api", Value: call.API},
			observe.Field{Key: "attempt", Value: attempts},
			observe.Field{Key: "delay_ms", Value: delay.Milliseconds()},
			observe.Field{Key: "error", Value: err.Error()},
		)

		select {
		case <-ctx.Done():
			lastErr = ctx.Err()
			return Result{Err: lastErr, Attempts: attempts, Elapsed: time.Since(start)}
		case <-time.After(delay):
		}
	}

	elapsed := time.Since(start)
	e.logger.Error(ctx, "call failed",
		observe.Field{Key: "call.id", Value: call.ID},
		observe.Field{Key: "call.api", Value: call.API},
		observe.Field{Key: "attempts", Value: attempts},
		observe.Field{Key: "error", Value: errString(lastErr)},
	)
	return Result{Err: lastErr, Attempts: attempts, Elapsed: elapsed}
}

// invoke races the operation against the per-attempt timeout. When the timer
// wins, the late result is abandoned; the operation sees its context
// cancelled and should stop if its transport supports that.
func (e *Executor) invoke(ctx context.Context, call *Call, op Operation) (any, error) {
	ctx, cancel := context.WithTimeout(ctx, e.config.Timeout)
	defer cancel()

	if e.bulkhead != nil {
		if err := e.bulkhead.Acquire(ctx); err != nil {
			return nil, err
		}
		defer e.bulkhead.Release()
	}

	type outcome struct {
		value any
		err   error
	}
	done := make(chan outcome, 1)

	go func() {
		value, err := op(ctx)
		done <- outcome{value: value, err: err}
	}()

	select {
	case out := <-done:
		return out.value, out.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, ctx.Err()
	}
}

func (e *Executor) recordSuccess(ctx context.Context, api string, latency time.Duration) {
	if !e.config.DisableMetrics {
		e.aggregator.RecordSuccess(ctx, api, latency)
	}
	if e.recorder != nil {
		e.recorder.RecordSuccess(ctx, api, latency)
	}
}

func (e *Executor) recordFailure(ctx context.Context, api string, err error, latency time.Duration) {
	kind := string(Classify(err))
	if !e.config.DisableMetrics {
		e.aggregator.RecordFailure(ctx, api, kind, latency)
	}
	if e.recorder != nil {
		e.recorder.RecordFailure(ctx, api, kind, latency)
	}
}

func (e *Executor) recordRetry(ctx context.Context, api string) {
	if !e.config.DisableMetrics {
		e.aggregator.RecordRetry(ctx, api)
	}
	if e.recorder != nil {
		e.recorder.RecordRetry(ctx, api)
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
