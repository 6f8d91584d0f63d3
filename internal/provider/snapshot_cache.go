package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/coocood/freecache"
	"github.com/redis/go-redis/v9"
)

// SnapshotCache stores serialized snapshots with a TTL.
type SnapshotCache interface {
	// Get returns the cached value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// RedisSnapshotCache is a SnapshotCache backed by Redis.
type RedisSnapshotCache struct {
	client *redis.Client
}

// NewRedisSnapshotCache creates a new RedisSnapshotCache.
func NewRedisSnapshotCache(client *redis.Client) *RedisSnapshotCache {
	return &RedisSnapshotCache{client: client}
}

// Get implements SnapshotCache.
func (c *RedisSnapshotCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return data, true, nil
}

// Set implements SnapshotCache.
func (c *RedisSnapshotCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// MemorySnapshotCache is an in-process SnapshotCache backed by freecache.
type MemorySnapshotCache struct {
	cache *freecache.Cache
}

// NewMemorySnapshotCache creates a MemorySnapshotCache holding up to sizeMB megabytes.
func NewMemorySnapshotCache(sizeMB int) *MemorySnapshotCache {
	if sizeMB <= 0 {
		sizeMB = 16
	}
	return &MemorySnapshotCache{cache: freecache.NewCache(sizeMB * 1024 * 1024)}
}

// Get implements SnapshotCache.
func (c *MemorySnapshotCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	data, err := c.cache.Get([]byte(key))
	if errors.Is(err, freecache.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("freecache get %s: %w", key, err)
	}
	return data, true, nil
}

// Set implements SnapshotCache. freecache expiry has second granularity.
func (c *MemorySnapshotCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	seconds := int(ttl.Seconds())
	if seconds <= 0 {
		seconds = 1
	}
	if err := c.cache.Set([]byte(key), value, seconds); err != nil {
		return fmt.Errorf("freecache set %s: %w", key, err)
	}
	return nil
}

var (
	_ SnapshotCache = (*RedisSnapshotCache)(nil)
	_ SnapshotCache = (*MemorySnapshotCache)(nil)
)
