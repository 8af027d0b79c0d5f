// Package cache stores resolved layouts and rendered artifacts.
//
// A [Cache] is a byte-oriented key/value store with per-entry expiry. The
// backends are:
//
//   - [NullCache]: stores nothing (caching disabled)
//   - [FileCache]: one JSON file per entry below a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP server
//   - [MongoCache]: a MongoDB collection, for long-lived deployments
//
// Keys come from a [Keyer]. Layout keys hash the canonical tree encoding
// together with the resolve options; artifact keys hash the layout key
// together with the render options, so a changed tree never hits a stale
// artifact.
package cache

import (
	"context"
	"time"
)

// Default entry lifetimes.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// Cache is a key/value store for serialized pipeline results.
//
// Get reports a miss with hit == false and a nil error. A ttl of zero
// means the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
