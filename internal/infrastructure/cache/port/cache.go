package port

import (
	"context"
	"time"
)

// Cache is the key-value contract the application needs: atomic counters for
// rate limiting plus connectivity checks. Implementations must be safe for
// concurrent use and context-aware so callers can drive timeouts and
// cancellation.
type Cache interface {
	// Incr atomically increments the counter at key and returns the new
	// value. The TTL is applied when the key is first created, which makes
	// this suitable for fixed-window rate limiting.
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)

	// Ping verifies connectivity with the backend.
	Ping(ctx context.Context) error

	// Close releases any resources held by the cache.
	Close() error
}
