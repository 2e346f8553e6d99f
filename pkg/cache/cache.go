// Package cache stores built tables and rendered artifacts between runs.
//
// # Backends
//
// Three implementations of [Cache] are provided:
//
//   - [NullCache] never stores anything; used when caching is disabled
//   - [FileCache] keeps entries as JSON files under a directory (CLI default)
//   - [RedisCache] keeps entries in Redis, shared across machines
//
// # Keys
//
// Keys are derived from build and render parameters by a [Keyer], so the
// same request always maps to the same entry. [ScopedKeyer] prefixes every
// key with a namespace, which lets several configurations share one Redis
// database without colliding.
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "lab:")
//	key := keyer.GraphKey(cache.GraphKeyOpts{Mode: "graph", Root: "1", K: 3})
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
//
// Get reports a miss with ok == false and a nil error. Implementations must
// be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Backend names accepted by [New].
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
)

// Config selects and configures a cache backend.
type Config struct {
	Backend   string // "none", "file" or "redis"
	Dir       string // FileCache directory
	RedisAddr string // host:port
	RedisDB   int
	Password  string
}

// New opens the backend named by cfg.Backend. An empty backend means
// [BackendFile].
func New(ctx context.Context, cfg Config) (Cache, error) {
	switch cfg.Backend {
	case BackendNone:
		return NewNullCache(), nil
	case BackendFile, "":
		fc, err := NewFileCache(cfg.Dir)
		if err != nil {
			return nil, err
		}
		return fc, nil
	case BackendRedis:
		rc, err := NewRedisCache(ctx, RedisOptions{
			Addr:     cfg.RedisAddr,
			DB:       cfg.RedisDB,
			Password: cfg.Password,
		})
		if err != nil {
			return nil, err
		}
		return rc, nil
	default:
		return nil, ErrUnknownBackend
	}
}

// NullCache never stores anything. Every Get is a miss.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() Cache {
	return NullCache{}
}

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }

var _ Cache = NullCache{}
