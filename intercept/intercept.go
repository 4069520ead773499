package intercept

import (
	"context"

	"github.com/jonwraymond/callguard/observe"
	"github.com/jonwraymond/callguard/resilience"
)

// SetField returns a request interceptor that stores a caller-supplied field,
// such as a header, on every call.
func SetField(key string, value any) resilience.RequestInterceptor {
	return func(_ context.Context, call *resilience.Call) (*resilience.Call, error) {
		call.Set(key, value)
		return call, nil
	}
}

// Redact returns a request interceptor that replaces the named fields with a
// placeholder so later interceptors and logs never see the raw value.
func Redact(keys ...string) resilience.RequestInterceptor {
	return func(_ context.Context, call *resilience.Call) (*resilience.Call, error) {
		for _, key := range keys {
			if _, ok := call.Get(key); ok {
				call.Set(key, "[REDACTED]")
			}
		}
		return call, nil
	}
}

// RequestLogger returns a request interceptor that logs each attempt.
func RequestLogger(logger observe.Logger) resilience.RequestInterceptor {
	return func(ctx context.Context, call *resilience.Call) (*resilience.Call, error) {
		logger.Debug(ctx, "dispatching call",
			observe.Field{Key: "call.id", Value: call.ID},
			observe.Field{Key: "call.api", Value: call.API},
			observe.Field{Key: "attempt", Value: call.Attempt},
		)
		return call, nil
	}
}

// ErrorLogger returns an error interceptor that logs failed attempts with
// their classified kind.
func ErrorLogger(logger observe.Logger) resilience.ErrorInterceptor {
	return func(ctx context.Context, call *resilience.Call, err error) {
		logger.Warn(ctx, "call attempt failed",
			observe.Field{Key: "call.id", Value: call.ID},
			observe.Field{Key: "call.api", Value: call.API},
			observe.Field{Key: "attempt", Value: call.Attempt},
			observe.Field{Key: "error.kind", Value: string(resilience.Classify(err))},
			observe.Field{Key: "error", Value: err.Error()},
		)
	}
}
