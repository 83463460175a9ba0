package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/flowgraph/pkg/observability"
)

// Backend names accepted by Open.
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// Options selects and configures a draft backend.
type Options struct {
	Backend string // "none", "file" (default), "redis" or "mongo"
	Dir     string // file backend directory
	Redis   RedisOptions
	Mongo   MongoOptions
}

// Open creates the cache named by opts.Backend, wrapped so that reads and
// writes are reported to the observability cache hooks.
func Open(ctx context.Context, opts Options) (Cache, error) {
	var (
		c   Cache
		err error
	)
	switch opts.Backend {
	case BackendNone:
		return NewNullCache(), nil
	case "", BackendFile:
		c, err = NewFileCache(opts.Dir)
	case BackendRedis:
		c, err = NewRedisCache(ctx, opts.Redis)
	case BackendMongo:
		c, err = NewMongoCache(ctx, opts.Mongo)
	default:
		return nil, fmt.Errorf("unknown draft backend %q", opts.Backend)
	}
	if err != nil {
		return nil, err
	}
	name := opts.Backend
	if name == "" {
		name = BackendFile
	}
	return Instrument(c, name), nil
}

// Instrument wraps c so every Get and Set is reported to the observability
// cache hooks under the given backend name.
func Instrument(c Cache, backend string) Cache {
	return &instrumented{Cache: c, backend: backend}
}

type instrumented struct {
	Cache
	backend string
}

func (c *instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := c.Cache.Get(ctx, key)
	if err == nil {
		if ok {
			observability.Cache().OnCacheHit(ctx, c.backend)
		} else {
			observability.Cache().OnCacheMiss(ctx, c.backend)
		}
	}
	return data, ok, err
}

func (c *instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.Cache.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, c.backend, len(data))
	return nil
}

// Unwrap returns the underlying cache of an instrumented cache, or c itself.
func Unwrap(c Cache) Cache {
	if i, ok := c.(*instrumented); ok {
		return i.Cache
	}
	return c
}
