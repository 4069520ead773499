// Package observe provides telemetry for outbound call execution: tracing,
// metrics, and structured logging behind a single Observer.
//
// An Observer is constructed once at application startup and handed to the
// components that need it. Exporters are selected by name (otlp, prometheus,
// stdout, none) so the same binary can run instrumented in production and
// silent in tests.
//
//	obs, err := observe.NewObserver(ctx, observe.Config{
//	    ServiceName: "payments-gateway",
//	    Metrics:     observe.MetricsConfig{Enabled: true, Exporter: "prometheus"},
//	    Logging:     observe.LoggingConfig{Enabled: true, Level: "info"},
//	})
//	defer obs.Shutdown(ctx)
package observe
