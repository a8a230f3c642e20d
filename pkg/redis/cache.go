package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache provides typed caching utilities
// ⭐ SSOT: cache helpers live only here
type Cache struct {
	client *Client
	prefix string
}

// NewCache creates a new cache helper
func NewCache(client *Client, prefix string) *Cache {
	return &Cache{
		client: client,
		prefix: prefix,
	}
}

func (c *Cache) key(key string) string {
	return fmt.Sprintf("%s:cache:%s", c.prefix, key)
}

// GetBytes retrieves a raw cached value
func (c *Cache) GetBytes(ctx context.Context, key string) ([]byte, bool, error) {
	if !c.client.Enabled() {
		return nil, false, nil
	}

	data, err := c.client.Redis().Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get failed: %w", err)
	}
	return data, true, nil
}

// SetBytes stores a raw value with TTL
func (c *Cache) SetBytes(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if !c.client.Enabled() {
		return nil
	}
	return c.client.Redis().Set(ctx, c.key(key), data, ttl).Err()
}

// Get retrieves a cached JSON value into dest
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, found, err := c.GetBytes(ctx, key)
	if err != nil || !found {
		return false, err
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache unmarshal failed: %w", err)
	}
	return true, nil
}

// Set stores a value as JSON with TTL
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !c.client.Enabled() {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal failed: %w", err)
	}
	return c.SetBytes(ctx, key, data, ttl)
}

// Delete removes a cached value
func (c *Cache) Delete(ctx context.Context, key string) error {
	if !c.client.Enabled() {
		return nil
	}
	return c.client.Redis().Del(ctx, c.key(key)).Err()
}

// GetOrSetBytes returns the cached bytes or calls fn and caches its result
func (c *Cache) GetOrSetBytes(ctx context.Context, key string, ttl time.Duration, fn func() ([]byte, error)) ([]byte, error) {
	data, found, err := c.GetBytes(ctx, key)
	if err == nil && found {
		return data, nil
	}

	// Cache miss or cache failure - call function
	data, err = fn()
	if err != nil {
		return nil, err
	}

	// A failed write is not fatal; the value is still returned
	_ = c.SetBytes(ctx, key, data, ttl)
	return data, nil
}

// Predefined TTLs
const (
	TTLShort  = 1 * time.Minute
	TTLMedium = 10 * time.Minute
	TTLLong   = 1 * time.Hour
)

// DatasetKey is the cache key for the raw record file of a source
func DatasetKey(source string) string {
	return fmt.Sprintf("dataset:%s", source)
}
