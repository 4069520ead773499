// Package metrics aggregates outcome counters for guarded call execution.
//
// The Aggregator keeps in-process counters (totals, successes, failures,
// retries, a running mean latency, per-dependency and per-error-kind
// breakdowns) and produces immutable snapshots. Additional Recorder
// implementations can observe the same event stream: OTelRecorder mirrors
// events to OpenTelemetry instruments, and Multi fans a single stream out to
// several recorders.
package metrics
