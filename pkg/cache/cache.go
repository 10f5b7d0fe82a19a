// Package cache provides a content-addressed artifact cache for the
// compilation pipeline.
//
// Layout is deterministic, so a rendered artifact is fully determined by
// the parsed document and the render options. The pipeline hashes both
// into a key and reuses cached artifacts on later runs of the same
// input. Two implementations are provided: a file-backed cache for CLI
// usage and a null cache for cache-off runs and tests.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Cache stores rendered artifacts keyed by content hash.
type Cache interface {
	// Get retrieves a value. The second return reports a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value; deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// TTLArtifact is how long rendered artifacts stay cached. Artifacts are
// cheap to recompute, so the TTL mostly bounds disk growth.
const TTLArtifact = 7 * 24 * time.Hour

// ArtifactKeyOpts are the render options that contribute to an artifact
// key. Two runs with equal document hashes and equal options produce
// byte-identical artifacts.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Background string  `json:"background,omitempty"`
	FontFamily string  `json:"font_family,omitempty"`
}

// ArtifactKey builds the cache key for one rendered artifact of one
// document.
func ArtifactKey(docHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", docHash, opts)
}

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
