// Package cache stores rendered tiling artifacts between runs.
//
// # Backends
//
//   - [NullCache]: never stores anything (caching disabled)
//   - [FileCache]: hash-sharded JSON entries on local disk, used by the CLI
//   - [RedisCache]: shared cache for server deployments
//
// All backends implement [Cache]; misses are reported as (nil, false, nil)
// rather than as errors.
//
// # Keys
//
// A [Keyer] builds cache keys. [DefaultKeyer] hashes a content hash of the
// tiling together with every render option that changes the output, so two
// runs share an artifact only when its bytes would be identical.
// [ScopedKeyer] adds a namespace prefix.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key-value store with expiry.
type Cache interface {
	// Get returns the value for key. hit is false when the key is absent
	// or expired.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// TTLArtifact is how long rendered artifacts stay cached.
const TTLArtifact = 7 * 24 * time.Hour
