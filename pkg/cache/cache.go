// Package cache stores rendered artifacts between CLI runs.
//
// Rendering a snapshot to SVG or PNG is deterministic, so the artifact can
// be keyed by a hash of the snapshot bytes plus the render options: a second
// render of an unchanged snapshot is a cache hit and skips the sink
// entirely. Entries carry an optional TTL; the [FileCache] stores them under
// the user's cache directory, [NullCache] disables caching.
package cache

import (
	"context"
	"time"
)

// Cache is the storage interface for rendered artifacts.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A non-positive ttl means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is a no-op.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// RenderKeyOpts are the render parameters that affect artifact bytes. Two
// renders with equal snapshot hashes and equal options produce identical
// output, so they share a cache entry.
type RenderKeyOpts struct {
	Format string  // "svg", "png", "dot"
	Width  float64 // canvas size in pixels
	Height float64
	Scale  float64 // PNG raster scale, 0 for non-raster formats
	Labels bool
}

// RenderKey builds the cache key for a rendered artifact.
func RenderKey(snapshotHash string, opts RenderKeyOpts) string {
	return hashKey("render", snapshotHash, opts)
}
