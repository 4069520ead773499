// Package resilience wraps arbitrary outbound operations with retries,
// exponential backoff with jitter, per-operation timeouts, circuit breaking,
// token-bucket rate limiting, interceptor hooks, and aggregated metrics.
//
// # Components
//
// The package provides the following pieces:
//
//   - Executor: the orchestrator. For each logical call it runs the request
//     interceptors, waits for rate-limiter admission, invokes the operation
//     under a timeout, applies the retry policy on failure, and records
//     metrics.
//
//   - Breaker: a three-state circuit breaker (closed / open / half-open)
//     created per protected dependency and wrapped around the executor by the
//     caller.
//
//   - RateLimiter: a token bucket that paces call admission to a steady rate.
//
//   - Bulkhead: limits concurrent operations to prevent resource exhaustion.
//
//   - Pipeline: ordered request/response/error interceptor chains whose
//     failures never change the outcome of the guarded call.
//
// # Usage
//
//	ex := resilience.New(resilience.DefaultConfig(),
//	    resilience.WithRateLimiter(resilience.NewRateLimiter(50)),
//	)
//
//	br := resilience.NewBreaker(resilience.BreakerConfig{
//	    FailureThreshold: 5,
//	    ResetTimeout:     30 * time.Second,
//	})
//
//	value, err := br.Execute(ctx, func(ctx context.Context) (any, error) {
//	    res := ex.Execute(ctx, resilience.NewCall("weather.forecast"), fetchForecast)
//	    return res.Value, res.Err
//	})
package resilience
