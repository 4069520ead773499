package cache

import (
	"context"

	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/callguard/resilience"
)

// Middleware wraps operations with response caching and in-flight
// deduplication.
type Middleware struct {
	cache  Cache
	keyer  Keyer
	policy Policy
	group  singleflight.Group
}

// NewMiddleware creates a cache middleware. A nil keyer falls back to
// DefaultKeyer.
func NewMiddleware(cache Cache, keyer Keyer, policy Policy) *Middleware {
	if keyer == nil {
		keyer = NewDefaultKeyer()
	}
	return &Middleware{
		cache:  cache,
		keyer:  keyer,
		policy: policy,
	}
}

// Wrap returns an operation that serves cache hits for api+params and
// deduplicates concurrent identical misses. Errors are not cached; a failed
// key derivation executes without caching.
func (m *Middleware) Wrap(api string, params any, op resilience.Operation) resilience.Operation {
	return func(ctx context.Context) (any, error) {
		if !m.policy.ShouldCache() {
			return op(ctx)
		}

		key, err := m.keyer.Key(api, params)
		if err != nil {
			return op(ctx)
		}

		if value, ok := m.cache.Get(ctx, key); ok {
			return value, nil
		}

		value, err, _ := m.group.Do(key, func() (any, error) {
			// A concurrent flight may have populated the cache already.
			if value, ok := m.cache.Get(ctx, key); ok {
				return value, nil
			}

			value, err := op(ctx)
			if err != nil {
				return nil, err
			}

			_ = m.cache.Set(ctx, key, value, m.policy.TTL)
			return value, nil
		})
		return value, err
	}
}
