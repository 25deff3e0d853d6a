// Package cache stores rendered plot artifacts keyed by content hash.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the preview server
//   - [NullCache]: stores nothing, used when caching is disabled
//
// # Keys
//
// Keys come from a [Keyer]. [DefaultKeyer] hashes the plot document and the
// render options so that any change to either yields a new key;
// [ScopedKeyer] prefixes keys to isolate namespaces sharing one backend.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry. A miss is reported through
// the boolean, never as an error.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Entry lifetimes.
const (
	// TTLDocument bounds how long a decoded plot document is kept.
	TTLDocument = 24 * time.Hour
	// TTLArtifact bounds how long a rendered file is kept.
	TTLArtifact = 7 * 24 * time.Hour
)
