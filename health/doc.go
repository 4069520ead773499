// Package health exposes the state of the resilience layer as composable
// health checks: open circuit breakers surface as unhealthy, saturated rate
// limiters as degraded. An Aggregator fans checks out with a shared deadline
// and a Handler serves the combined result over HTTP.
package health
