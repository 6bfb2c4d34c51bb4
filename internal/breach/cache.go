package breach

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const rangeKeyPrefix = "securepass:range:"

// RangeCache stores raw range response bodies keyed by hash prefix.
// Get returns ok=false on a miss.
type RangeCache interface {
	Get(ctx context.Context, prefix string) (body []byte, ok bool, err error)
	Set(ctx context.Context, prefix string, body []byte) error
}

// NopCache never stores anything.
type NopCache struct{}

func (NopCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (NopCache) Set(context.Context, string, []byte) error         { return nil }

// RedisCache keeps range bodies in Redis with a fixed TTL.
type RedisCache struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewRedisCache creates a RedisCache. A zero ttl keeps entries without expiry.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{redis: client, ttl: ttl}
}

func (c *RedisCache) key(prefix string) string {
	return rangeKeyPrefix + prefix
}

func (c *RedisCache) Get(ctx context.Context, prefix string) ([]byte, bool, error) {
	body, err := c.redis.Get(ctx, c.key(prefix)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return body, true, nil
}

func (c *RedisCache) Set(ctx context.Context, prefix string, body []byte) error {
	return c.redis.Set(ctx, c.key(prefix), body, c.ttl).Err()
}
