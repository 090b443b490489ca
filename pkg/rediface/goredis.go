package rediface

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// goredisClient adapts redis.UniversalClient to Client.
//
// Grounded on xcache's redisWrapper (pkg/storage/xcache/xcache.go): a thin
// pass-through that exposes the underlying client for anything not worth
// wrapping, and translates redis.Nil into a package-local sentinel so
// callers never need to import go-redis to check for a cache miss.
type goredisClient struct {
	rdb redis.UniversalClient
}

// NewGoRedis wraps an already-configured redis.UniversalClient as a Client.
// The caller owns the client's lifecycle; this adapter never closes it.
func NewGoRedis(rdb redis.UniversalClient) Client {
	return &goredisClient{rdb: rdb}
}

func (c *goredisClient) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return b, err
}

func (c *goredisClient) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

func (c *goredisClient) SetIfAbsent(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	if ttl < 0 {
		ttl = 0
	}
	return c.rdb.SetNX(ctx, key, value, ttl).Result()
}

func (c *goredisClient) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

func (c *goredisClient) HSet(ctx context.Context, key, field string, value []byte) error {
	return c.rdb.HSet(ctx, key, field, value).Err()
}

func (c *goredisClient) HGet(ctx context.Context, key, field string) ([]byte, error) {
	b, err := c.rdb.HGet(ctx, key, field).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return b, err
}

func (c *goredisClient) HDel(ctx context.Context, key string, fields ...string) error {
	if len(fields) == 0 {
		return nil
	}
	return c.rdb.HDel(ctx, key, fields...).Err()
}

func (c *goredisClient) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return c.rdb.Expire(ctx, key, ttl).Err()
}

func (c *goredisClient) PTTL(ctx context.Context, key string) (time.Duration, error) {
	return c.rdb.PTTL(ctx, key).Result()
}

func (c *goredisClient) Keys(ctx context.Context, pattern string) ([]string, error) {
	return c.rdb.Keys(ctx, pattern).Result()
}

func (c *goredisClient) Scan(ctx context.Context, cursor uint64, pattern string, count int64) ([]string, uint64, error) {
	return c.rdb.Scan(ctx, cursor, pattern, count).Result()
}

func (c *goredisClient) Eval(ctx context.Context, script string, keys []string, args ...any) (any, error) {
	return c.rdb.Eval(ctx, script, keys, args...).Result()
}

var _ Client = (*goredisClient)(nil)
