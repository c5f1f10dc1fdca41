// Package cache stores minification results between builds.
//
// Minifying hundreds of polyfills dominates build time, while most sources
// do not change between runs. Results are stored under a key derived from
// the source content and the minifier options, so a cache entry can never
// serve output for a different input.
//
// Three backends implement [Cache]:
//   - [FileCache]: entries under a local directory (CLI default)
//   - [RedisCache]: entries in Redis, shared between build machines
//   - [NullCache]: caching disabled
//
// Cache failures are never fatal for a build; callers treat them as misses.
package cache

import (
	"context"
	"time"
)

// TTLMinified is how long a minification result stays cached.
const TTLMinified = 30 * 24 * time.Hour

// Cache is a byte-oriented key-value store with expiration.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value for key and true, or nil and false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// MinifyKeyOpts are the minifier settings that influence the output and
// therefore belong in the cache key.
type MinifyKeyOpts struct {
	Mode     string // "polyfill" or "detect"
	Target   string // e.g. "es5"
	Version  string // minifier version
	KeepName bool   // function names preserved
}

// Keyer generates cache keys.
type Keyer interface {
	// MinifyKey generates a key for a minified source.
	MinifyKey(sourceHash string, opts MinifyKeyOpts) string
}

// DefaultKeyer generates unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// MinifyKey generates a key of the form "minify:<mode>:<source>:<opts>".
func (DefaultKeyer) MinifyKey(sourceHash string, opts MinifyKeyOpts) string {
	return hashKey([]string{"minify", opts.Mode}, sourceHash, opts)
}
