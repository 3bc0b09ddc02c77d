// Package cache provides pluggable byte caches for HTTP response caching.
//
// Three backends are provided:
//   - FileCache: XDG cache directory storage for CLI usage
//   - RedisCache: shared storage for long-running serve deployments
//   - NullCache: no-op cache for tests or --no-cache runs
//
// Cache keys are hashed with SHA-256 before hitting the backend, so callers
// may use arbitrary strings (URLs, package names) as keys.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values with per-entry TTLs.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the
	// key was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}
