package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopkit-io/shopkit/internal/constants"
)

// CacheType represents the type of cache backend.
type CacheType string

const (
	// CacheTypeMemory represents in-memory cache.
	CacheTypeMemory CacheType = "memory"

	// CacheTypeNATS represents NATS KV cache.
	CacheTypeNATS CacheType = "nats"

	// CacheTypeNone represents no caching.
	CacheTypeNone CacheType = "none"
)

// Static errors for cache configuration.
var (
	ErrNATSConfigRequired    = errors.New("NATS configuration required for NATS cache")
	ErrUnsupportedCacheType  = errors.New("unsupported cache type")
	ErrCacheDisabled         = errors.New("cache disabled")
	ErrKeyNotFoundInAnyCache = errors.New("key not found in any cache")
)

// CacheConfig configures the cache backend.
type CacheConfig struct {
	// Type is the cache backend type.
	Type CacheType

	// Memory cache configuration.
	Memory *MemoryCacheConfig

	// NATS KV cache configuration.
	NATS *NATSKVConfig

	// Common options applied to any backend. If nil, DefaultCacheOptions() is
	// used.
	Options *CacheOptions
}

// MemoryCacheConfig configures the memory cache.
type MemoryCacheConfig struct {
	// MaxSize is the maximum number of items in the cache.
	MaxSize int
}

// DefaultCacheConfig returns the default cache configuration.
func DefaultCacheConfig() *CacheConfig {
	return &CacheConfig{
		Type: CacheTypeMemory,
		Memory: &MemoryCacheConfig{
			MaxSize: constants.DefaultCacheSize,
		},
		Options: DefaultCacheOptions(),
	}
}

// NewCacheFromConfig creates a cache backend from configuration.
func NewCacheFromConfig(config *CacheConfig) (Cache, error) {
	if config == nil {
		config = DefaultCacheConfig()
	}

	switch config.Type {
	case CacheTypeMemory:
		if config.Memory == nil {
			config.Memory = &MemoryCacheConfig{MaxSize: constants.DefaultCacheSize}
		}

		return NewMemoryCache(config.Memory.MaxSize), nil

	case CacheTypeNATS:
		if config.NATS == nil {
			return nil, ErrNATSConfigRequired
		}

		return NewNATSKVCache(config.NATS)

	case CacheTypeNone:
		return NewNoOpCache(), nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCacheType, config.Type)
	}
}

// NoOpCache satisfies Cache without storing anything. Get always misses with
// ErrCacheDisabled and the mutating methods succeed without effect.
type NoOpCache struct{}

// NewNoOpCache creates a new no-op cache.
func NewNoOpCache() *NoOpCache { return &NoOpCache{} }

func (c *NoOpCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	return nil, ErrCacheDisabled
}

func (c *NoOpCache) Set(ctx context.Context, key string, entry *CacheEntry) error { return nil }

func (c *NoOpCache) Delete(ctx context.Context, key string) error { return nil }

func (c *NoOpCache) Clear(ctx context.Context) error { return nil }

func (c *NoOpCache) Has(ctx context.Context, key string) bool { return false }

// CacheChain layers backends, typically a small memory L1 in front of a NATS
// KV L2 shared across processes.
type CacheChain struct {
	caches []Cache
}

// NewCacheChain creates a chain that consults backends in order.
func NewCacheChain(caches ...Cache) *CacheChain {
	return &CacheChain{caches: caches}
}

// Get returns the first hit, backfilling every earlier backend so subsequent
// lookups resolve closer to the caller.
func (c *CacheChain) Get(ctx context.Context, key string) (*CacheEntry, error) {
	for i, cache := range c.caches {
		entry, err := cache.Get(ctx, key)
		if err != nil {
			continue
		}

		for j := range i {
			_ = c.caches[j].Set(ctx, key, entry)
		}

		return entry, nil
	}

	return nil, ErrKeyNotFoundInAnyCache
}

// Set writes through to every backend and reports the last failure, if any.
func (c *CacheChain) Set(ctx context.Context, key string, entry *CacheEntry) error {
	return c.each(func(cache Cache) error {
		return cache.Set(ctx, key, entry)
	})
}

// Delete removes the key from every backend.
func (c *CacheChain) Delete(ctx context.Context, key string) error {
	return c.each(func(cache Cache) error {
		return cache.Delete(ctx, key)
	})
}

// Clear empties every backend.
func (c *CacheChain) Clear(ctx context.Context) error {
	return c.each(func(cache Cache) error {
		return cache.Clear(ctx)
	})
}

// Has reports whether any backend holds the key.
func (c *CacheChain) Has(ctx context.Context, key string) bool {
	for _, cache := range c.caches {
		if cache.Has(ctx, key) {
			return true
		}
	}

	return false
}

func (c *CacheChain) each(op func(Cache) error) error {
	var lastErr error

	for _, cache := range c.caches {
		if err := op(cache); err != nil {
			lastErr = err
		}
	}

	return lastErr
}

func encodeCacheEntry(entry *CacheEntry) ([]byte, error) {
	data, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("encoding cache entry: %w", err)
	}

	return data, nil
}

func decodeCacheEntry(data []byte) (*CacheEntry, error) {
	var entry CacheEntry

	err := json.Unmarshal(data, &entry)
	if err != nil {
		return nil, fmt.Errorf("decoding cache entry: %w", err)
	}

	return &entry, nil
}
