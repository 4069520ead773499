package observe

import (
	"context"
	"time"

	"github.com/jonwraymond/callguard/metrics"
)

// ExecuteFunc is the function signature wrapped by Middleware. It is
// structurally identical to resilience.Operation so wrapped operations can be
// handed straight to an executor.
type ExecuteFunc func(ctx context.Context) (any, error)

// Middleware wraps call execution with tracing, metrics, and logging.
//
// Contract:
//   - Concurrency: Wrap returns a thread-safe ExecuteFunc.
//   - Errors: errors from the wrapped function are recorded and propagated
//     unchanged.
type Middleware struct {
	tracer   Tracer
	recorder metrics.Recorder
	logger   Logger

	// ClassifyError maps an error to a metric kind. Default: "error".
	ClassifyError func(err error) string
}

// NewMiddleware creates a Middleware from the given telemetry components.
// Nil components are replaced with no-ops.
func NewMiddleware(tracer Tracer, recorder metrics.Recorder, logger Logger) *Middleware {
	if tracer == nil {
		tracer = NewNoopTracer()
	}
	if logger == nil {
		logger = NopLogger()
	}
	return &Middleware{
		tracer:   tracer,
		recorder: recorder,
		logger:   logger,
	}
}

// Wrap wraps fn with a span, outcome metrics, and a log line per invocation.
func (m *Middleware) Wrap(meta CallMeta, fn ExecuteFunc) ExecuteFunc {
	return func(ctx context.Context) (any, error) {
		ctx, span := m.tracer.StartSpan(ctx, meta)
		start := time.Now()

		result, err := fn(ctx)
		duration := time.Since(start)

		m.tracer.EndSpan(span, err)

		if m.recorder != nil {
			if err != nil {
				m.recorder.RecordFailure(ctx, meta.CallID(), m.errorKind(err), duration)
			} else {
				m.recorder.RecordSuccess(ctx, meta.CallID(), duration)
			}
		}

		callLogger := m.logger.WithCall(meta)
		fields := []Field{
			{Key: "duration_ms", Value: float64(duration.Milliseconds())},
		}
		if err != nil {
			fields = append(fields, Field{Key: "error", Value: err.Error()})
			callLogger.Error(ctx, "call execution failed", fields...)
		} else {
			callLogger.Info(ctx, "call execution completed", fields...)
		}

		return result, err
	}
}

func (m *Middleware) errorKind(err error) string {
	if m.ClassifyError != nil {
		return m.ClassifyError(err)
	}
	return "error"
}

// MiddlewareFromObserver creates a Middleware publishing to an Observer's
// tracer, meter, and logger.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	recorder, err := metrics.NewOTelRecorder(obs.Meter())
	if err != nil {
		return nil, err
	}
	return NewMiddleware(NewTracer(obs.Tracer()), recorder, obs.Logger()), nil
}
