// Package cache provides response caching for idempotent guarded calls.
//
// A Middleware wraps a resilience.Operation: hits are served from the store
// without invoking the operation, concurrent identical misses are deduplicated
// through singleflight, and errors are never cached.
package cache
