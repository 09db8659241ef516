package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/coworkhub/backend/internal/metrics"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "catalog:"
	indexKey  = keyPrefix + "keys"
)

// Cache stores JSON snapshots of catalog reads.
type Cache interface {
	Get(ctx context.Context, key string, dst interface{}) (bool, error)
	Set(ctx context.Context, key string, v interface{}) error
	Invalidate(ctx context.Context) error
}

// NopCache never hits; every read goes to the database.
type NopCache struct{}

func (NopCache) Get(context.Context, string, interface{}) (bool, error) { return false, nil }

func (NopCache) Set(context.Context, string, interface{}) error { return nil }

func (NopCache) Invalidate(context.Context) error { return nil }

// RedisCache keeps entries under "catalog:" with a TTL and tracks written
// keys in a set so Invalidate can drop them without a SCAN.
type RedisCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisCache(client redis.Cmdable, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string, dst interface{}) (bool, error) {
	raw, err := c.client.Get(ctx, keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, err
	}
	return true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, keyPrefix+key, string(b), c.ttl).Err(); err != nil {
		return err
	}
	return c.client.SAdd(ctx, indexKey, keyPrefix+key).Err()
}

func (c *RedisCache) Invalidate(ctx context.Context) error {
	keys, err := c.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return err
	}
	return c.client.Del(ctx, append(keys, indexKey)...).Err()
}

func cacheLookup(kind, result string) {
	metrics.CacheLookup(kind, result)
}
