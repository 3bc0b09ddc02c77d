package cache

import (
	"context"
	"time"
)

// NullCache stores nothing and always misses. It backs --no-cache and
// degraded startup when no real backend is reachable.
type NullCache struct{}

var _ Cache = NullCache{}

// NewNullCache returns the no-op cache.
func NewNullCache() Cache {
	return NullCache{}
}

func (NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (NullCache) Delete(context.Context, string) error { return nil }

func (NullCache) Close() error { return nil }
