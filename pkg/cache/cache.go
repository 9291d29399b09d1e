// Package cache provides byte-oriented caching for downloaded part images.
//
// Part images are immutable once published, so they cache extremely well.
// The [Cache] interface abstracts the backend:
//
//   - [FileCache]: hash-sharded files on disk, the CLI default
//   - [RedisCache]: shared cache for running bricklabels behind a server
//   - [NullCache]: no-op backend for tests and --no-cache
//
// JSON API responses use the lighter pkg/httputil cache instead; this
// package exists for binary payloads where a JSON envelope per entry is
// the only metadata needed.
package cache

import (
	"context"
	"time"
)

// Cache stores binary blobs under string keys with optional expiration.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the
	// key was present and fresh.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the backend.
	Close() error
}
