// Package cache stores computed layouts and rendered artifacts.
//
// The pipeline caches two things: the diagram computed for a chain (keyed by
// a hash of the chain document, the host ports and the plugin catalog) and
// each rendered artifact (keyed by the diagram hash plus render options).
// Keys are produced by a [Keyer]; storage is any [Cache] implementation.
//
// Three backends are provided:
//
//   - [NullCache]: caching disabled
//   - [FileCache]: one JSON file per entry, used by the CLI
//   - [RedisCache]: shared cache for `pedalboard serve`
package cache

import (
	"context"
	"time"
)

// Default lifetimes of cache entries.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 30 * 24 * time.Hour
)

// Backend names accepted by [Open].
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases resources held by the cache.
	Close() error
}

// Clearer is implemented by caches that can drop all their entries.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}
