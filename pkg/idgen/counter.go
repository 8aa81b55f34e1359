package idgen

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// DefaultCounterKey is the Redis key holding the shared counter.
const DefaultCounterKey = "shortlink:counter"

// CounterGenerator hands out sequential codes backed by a Redis counter, so
// every instance pointed at the same Redis draws from one sequence.
type CounterGenerator struct {
	redis  *redis.Client
	key    string
	length int
}

func NewCounterGenerator(redisClient *redis.Client, key string, length int) (*CounterGenerator, error) {
	if err := checkLength(length); err != nil {
		return nil, err
	}
	if key == "" {
		key = DefaultCounterKey
	}
	return &CounterGenerator{redis: redisClient, key: key, length: length}, nil
}

// Generate returns next ID using Redis INCR (atomic counter)
func (g *CounterGenerator) Generate(ctx context.Context, _ string, _ int) (string, error) {
	val, err := g.redis.Incr(ctx, g.key).Result()
	if err != nil {
		return "", fmt.Errorf("failed to increment counter: %w", err)
	}
	return EncodePadded(uint64(val), g.length), nil
}
