package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// Redis key prefix for cached embeddings
	embedKeyPrefix = "embed:"
	// Default TTL for cached embeddings
	defaultTTL = 24 * time.Hour
)

// RedisCache is an embedding cache shared across service replicas.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a Redis-backed embedding cache.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RedisCache{
		client: client,
		ttl:    ttl,
	}
}

// Get implements port.EmbedCache. A miss returns (nil, nil).
func (c *RedisCache) Get(ctx context.Context, key string) ([]float32, error) {
	val, err := c.client.Get(ctx, embedKeyPrefix+key).Result()
	if err == redis.Nil {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, err
	}

	var vector []float32
	if err := json.Unmarshal([]byte(val), &vector); err != nil {
		return nil, err
	}
	return vector, nil
}

// Put implements port.EmbedCache.
func (c *RedisCache) Put(ctx context.Context, key string, vector []float32) error {
	val, err := json.Marshal(vector)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, embedKeyPrefix+key, val, c.ttl).Err()
}

// Close releases the underlying Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
