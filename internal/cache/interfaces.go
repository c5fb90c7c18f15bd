package cache

import (
	"context"
	"time"
)

// Cache is a byte-value cache keyed by string. The barcode-scan hot
// path reads through it; everything else treats it as optional.
// MemoryCache serves single-instance and desktop deployments, RedisCache
// serves multi-instance ones.
type Cache interface {
	// Get retrieves a value by key. Returns ErrCacheMiss when absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value by key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Exists reports whether a live (non-expired) entry exists for key.
	Exists(ctx context.Context, key string) (bool, error)

	// GetOrSet returns the cached value, or computes, stores and
	// returns it when absent.
	GetOrSet(ctx context.Context, key string, ttl time.Duration, fn func() ([]byte, error)) ([]byte, error)

	// Clear removes all entries owned by this cache.
	Clear(ctx context.Context) error

	// Close releases the cache's resources.
	Close() error
}

// CacheError is a sentinel error type for cache conditions.
type CacheError string

func (e CacheError) Error() string { return string(e) }

// ErrCacheMiss indicates the key was not found.
const ErrCacheMiss CacheError = "cache miss"
