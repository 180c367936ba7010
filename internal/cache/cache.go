package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const keyPrefix = "billiard:sim:"

// Cache stores JSON-encoded results in redis and collapses concurrent
// computations of the same key. A nil redis client disables storage but keeps
// the collapsing.
type Cache struct {
	rdb   *redis.Client
	ttl   time.Duration
	log   *zap.Logger
	group singleflight.Group
}

func New(rdb *redis.Client, ttl time.Duration, log *zap.Logger) *Cache {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cache{rdb: rdb, ttl: ttl, log: log}
}

// Key hashes the canonical JSON encoding of v.
func Key(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("cache key: %w", err)
	}
	return fmt.Sprintf("%s%016x", keyPrefix, xxhash.Sum64(raw)), nil
}

type result struct {
	raw []byte
	hit bool
}

// Fetch returns the cached value for key, or runs compute and stores its
// result. The bool reports a cache hit. Redis failures are logged and
// treated as misses.
func Fetch[T any](ctx context.Context, c *Cache, key string, compute func() (T, error)) (T, bool, error) {
	var zero T

	v, err, _ := c.group.Do(key, func() (any, error) {
		// Shared by every caller joined on key; one cancelling must not fail the rest.
		ctx := context.WithoutCancel(ctx)
		if raw, ok := c.get(ctx, key); ok {
			return result{raw: raw, hit: true}, nil
		}
		out, err := compute()
		if err != nil {
			return nil, err
		}
		raw, err := json.Marshal(out)
		if err != nil {
			return nil, err
		}
		c.set(ctx, key, raw)
		return result{raw: raw}, nil
	})
	if err != nil {
		return zero, false, err
	}

	res := v.(result)
	var out T
	if err := json.Unmarshal(res.raw, &out); err != nil {
		return zero, false, fmt.Errorf("decode cached value: %w", err)
	}
	return out, res.hit, nil
}

func (c *Cache) get(ctx context.Context, key string) ([]byte, bool) {
	if c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("[CACHE] get failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return raw, true
}

func (c *Cache) set(ctx context.Context, key string, raw []byte) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Warn("[CACHE] set failed", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate drops every cached simulation. Used when stored tables change.
func (c *Cache) Invalidate(ctx context.Context) error {
	if c.rdb == nil {
		return nil
	}
	iter := c.rdb.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
