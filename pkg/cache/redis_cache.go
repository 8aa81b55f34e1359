package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

// DefaultTTL is applied when NewRedisCache is given a zero TTL.
const DefaultTTL = 5 * time.Minute

var ErrCacheMiss = errors.New("cache miss")

// RedisCache wraps Redis client for caching JSON-encoded values under a
// common key prefix.
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCache creates a Redis cache with default TTL
func NewRedisCache(client *redis.Client, prefix string, ttl time.Duration) *RedisCache {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

// Get retrieves a value from Redis and unmarshals into v
func (r *RedisCache) Get(ctx context.Context, key string, v interface{}) error {
	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// Set stores a value in Redis with TTL
func (r *RedisCache) Set(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.prefix+key, data, r.ttl).Err()
}

// Ping checks connectivity. It backs the redis entry of /healthz.
func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
