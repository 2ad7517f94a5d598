// Package cache stores parsed record sets so repeated runs over unchanged
// doxygen output skip XML parsing.
//
// Three backends implement [Cache]: [FileCache] for local CLI use,
// [RedisCache] for caches shared between machines (for example CI runners),
// and [NullCache] when caching is disabled. Keys come from a [Keyer] so
// that callers can namespace them with [NewScopedKeyer].
package cache

import (
	"context"
	"os"
	"path/filepath"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
// A miss is reported as hit == false with a nil error.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Keyer derives cache keys.
type Keyer interface {
	// RecordsKey identifies the record set loaded from a doxygen directory
	// with the given content fingerprint.
	RecordsKey(fingerprint string, opts RecordsKeyOpts) string
}

// RecordsKeyOpts lists the load options that change the loaded records.
type RecordsKeyOpts struct {
	Language string
	Anchors  bool
}

// recordsSchema is bumped whenever the cached record format changes.
const recordsSchema = 1

// DefaultKeyer produces unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// RecordsKey hashes the fingerprint together with the options.
func (DefaultKeyer) RecordsKey(fingerprint string, opts RecordsKeyOpts) string {
	return recordsKey(fingerprint, opts)
}

// DefaultDir returns the per-user cache directory for moxygen.
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "moxygen"), nil
}
