package cache

import (
	"context"
	"time"
)

// NullCache stores no artifacts and misses on every lookup, so every
// compile renders fresh. It backs --no-cache runs and stands in when the
// file cache directory cannot be opened.
type NullCache struct{}

// NewNullCache creates a cache that never holds an artifact.
func NewNullCache() Cache {
	return &NullCache{}
}

// Get always reports a miss: no artifact is ever cached.
func (c *NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set discards the rendered artifact.
func (c *NullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}

// Delete has nothing to remove.
func (c *NullCache) Delete(ctx context.Context, key string) error {
	return nil
}

// Close has nothing to release.
func (c *NullCache) Close() error {
	return nil
}

var _ Cache = (*NullCache)(nil)
