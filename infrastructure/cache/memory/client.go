// ABOUTME: In-memory cache implementation on patrickmn/go-cache
// ABOUTME: Holds screenshots, page metadata and model replies for a single instance deployment

package memory

import (
	"context"
	"errors"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"conversion-roast-api/pkg/config"
)

const (
	defaultExpiration = time.Hour
	cleanupInterval   = 10 * time.Minute
)

// ErrCacheMiss is returned when a key is not found or has expired
var ErrCacheMiss = errors.New("cache: key not found")

// MemoryCache implements the Cache interface using in-memory storage
type MemoryCache struct {
	cache *gocache.Cache
}

// NewMemoryCache creates a new in-memory cache instance
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{cache: gocache.New(defaultExpiration, cleanupInterval)}
}

// NewMemoryCacheFromConfig creates a cache with the configured expiration and purge interval
func NewMemoryCacheFromConfig(cfg config.MemoryConfig) *MemoryCache {
	expiration := time.Duration(cfg.DefaultExpiration) * time.Second
	if expiration <= 0 {
		expiration = defaultExpiration
	}
	cleanup := time.Duration(cfg.CleanupInterval) * time.Second
	if cleanup <= 0 {
		cleanup = cleanupInterval
	}
	return &MemoryCache{cache: gocache.New(expiration, cleanup)}
}

// Get retrieves a value from the cache
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	value, found := c.cache.Get(key)
	if !found {
		return nil, ErrCacheMiss
	}

	data, ok := value.([]byte)
	if !ok {
		return nil, ErrCacheMiss
	}

	// Return a copy of the value
	result := make([]byte, len(data))
	copy(result, data)
	return result, nil
}

// Set stores a value in the cache with the given TTL. A zero TTL never expires.
func (c *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)

	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	c.cache.Set(key, valueCopy, ttl)
	return nil
}

// Delete removes a key from the cache
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.cache.Delete(key)
	return nil
}

// Count returns the number of items, including expired ones not yet purged
func (c *MemoryCache) Count() int {
	return c.cache.ItemCount()
}

// Flush removes every item
func (c *MemoryCache) Flush() {
	c.cache.Flush()
}
