// Package cache stores session drafts: the last exported state of each graph
// being edited, so work survives a restart without saving to the backend.
//
// # Backends
//
//   - [NullCache]: drafts disabled
//   - [FileCache]: one JSON file per key under a local directory (CLI default)
//   - [RedisCache]: shared drafts for several editor processes
//   - [MongoCache]: drafts in a MongoDB collection with a TTL index
//
// [Open] selects a backend from [Options]. Keys come from a [Keyer] so that
// several users or workspaces can share one store.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the stored data and true, or false on a miss. Expired
	// entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// NullCache discards every draft. Reads always miss.
type NullCache struct{}

// NewNullCache returns the cache used when drafts are disabled.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }
