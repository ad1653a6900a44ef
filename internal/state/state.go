package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores JSON-encoded detail responses keyed by resource and id.
type Cache interface {
	// Get decodes the cached value into out. It reports false on a miss.
	Get(ctx context.Context, key string, out any) (bool, error)
	Set(ctx context.Context, key string, value any) error
}

type redisCache struct {
	redisClient *redis.Client
	keyPrefix   string
	ttl         time.Duration
}

func NewRedisCache(redisClient *redis.Client, ttl time.Duration) Cache {
	return &redisCache{
		redisClient: redisClient,
		keyPrefix:   "multiverse:cache:",
		ttl:         ttl,
	}
}

func (c *redisCache) Get(ctx context.Context, key string, out any) (bool, error) {
	val, err := c.redisClient.Get(ctx, c.keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cached %s: %w", key, err)
	}

	if err := json.Unmarshal(val, out); err != nil {
		return false, fmt.Errorf("failed to decode cached %s: %w", key, err)
	}
	return true, nil
}

func (c *redisCache) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s for cache: %w", key, err)
	}

	if err := c.redisClient.Set(ctx, c.keyPrefix+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache %s: %w", key, err)
	}
	return nil
}

// Key builds a cache key such as "pokemon:pikachu".
func Key(resource string, id any) string {
	return fmt.Sprintf("%s:%v", resource, id)
}

// NopCache never hits. It is used when Redis is not configured.
type NopCache struct{}

func (NopCache) Get(ctx context.Context, key string, out any) (bool, error) {
	return false, nil
}

func (NopCache) Set(ctx context.Context, key string, value any) error {
	return nil
}
