package cache

import (
	"context"
	"time"
)

// Cache stores call results by key.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: Set and Delete must be best-effort; a failed Set only loses a hit.
type Cache interface {
	// Get retrieves a value. Returns (nil, false) on miss or expiry.
	Get(ctx context.Context, key string) (any, bool)

	// Set stores a value with the given TTL. TTL<=0 means no caching.
	Set(ctx context.Context, key string, value any, ttl time.Duration) error

	// Delete removes a value. Idempotent, no error on miss.
	Delete(ctx context.Context, key string) error
}

// Policy controls whether and how long results are cached.
type Policy struct {
	// TTL is how long cached results stay valid. TTL<=0 disables caching.
	TTL time.Duration

	// Disabled turns the middleware into a pass-through.
	Disabled bool
}

// ShouldCache reports whether the policy allows caching at all.
func (p Policy) ShouldCache() bool {
	return !p.Disabled && p.TTL > 0
}
