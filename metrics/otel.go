package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OTelRecorder mirrors call outcomes to OpenTelemetry instruments.
type OTelRecorder struct {
	totalCount   metric.Int64Counter
	errorCount   metric.Int64Counter
	retryCount   metric.Int64Counter
	durationHist metric.Float64Histogram
}

// NewOTelRecorder creates a recorder publishing to the given meter.
func NewOTelRecorder(meter metric.Meter) (*OTelRecorder, error) {
	totalCount, err := meter.Int64Counter(
		"call.exec.total",
		metric.WithDescription("Total number of guarded call executions"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"call.exec.errors",
		metric.WithDescription("Total number of guarded call failures"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	retryCount, err := meter.Int64Counter(
		"call.exec.retries",
		metric.WithDescription("Total number of guarded call retries"),
		metric.WithUnit("{retry}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"call.exec.duration_ms",
		metric.WithDescription("Guarded call duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &OTelRecorder{
		totalCount:   totalCount,
		errorCount:   errorCount,
		retryCount:   retryCount,
		durationHist: durationHist,
	}, nil
}

func (r *OTelRecorder) RecordSuccess(ctx context.Context, api string, latency time.Duration) {
	opt := metric.WithAttributes(attribute.String("call.api", api))
	r.totalCount.Add(ctx, 1, opt)
	r.durationHist.Record(ctx, float64(latency.Milliseconds()), opt)
}

func (r *OTelRecorder) RecordFailure(ctx context.Context, api string, kind string, latency time.Duration) {
	opt := metric.WithAttributes(attribute.String("call.api", api))
	r.totalCount.Add(ctx, 1, opt)
	r.errorCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("call.api", api),
		attribute.String("error.kind", kind),
	))
	r.durationHist.Record(ctx, float64(latency.Milliseconds()), opt)
}

func (r *OTelRecorder) RecordRetry(ctx context.Context, api string) {
	r.retryCount.Add(ctx, 1, metric.WithAttributes(attribute.String("call.api", api)))
}

var _ Recorder = (*OTelRecorder)(nil)
