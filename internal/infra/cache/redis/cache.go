// Package redis is the shared availability cache used when several
// instances serve the same enablers.
package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"

	"enablers/internal/app/policies"
)

const defaultPrefix = "availability:"

// Cache stores payloads under <prefix><key> and tracks each enabler's keys in
// a set so invalidation never scans the keyspace.
type Cache struct {
	rdb    *redis.Client
	prefix string
	logger *slog.Logger
}

type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

func NewClient(opts Options) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
}

func New(rdb *redis.Client, prefix string, logger *slog.Logger) *Cache {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &Cache{rdb: rdb, prefix: prefix, logger: logger}
}

func (c *Cache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Get treats every redis failure as a miss.
func (c *Cache) Get(ctx context.Context, key policies.CacheKey) ([]byte, bool) {
	raw, err := c.rdb.Get(ctx, c.entryKey(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) && c.logger != nil {
			c.logger.WarnContext(ctx, "redis cache read failed", "key", key.String(), "error", err)
		}
		return nil, false
	}
	return raw, true
}

func (c *Cache) Set(ctx context.Context, key policies.CacheKey, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	idx := c.indexKey(key.EnablerID)
	_, err := c.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, c.entryKey(key), value, ttl)
		p.SAdd(ctx, idx, c.entryKey(key))
		p.Expire(ctx, idx, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis cache: set %s: %w", key, err)
	}
	return nil
}

func (c *Cache) Invalidate(ctx context.Context, enablerID string) error {
	idx := c.indexKey(enablerID)
	keys, err := c.rdb.SMembers(ctx, idx).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("redis cache: members of %s: %w", idx, err)
	}
	if err := c.rdb.Del(ctx, append(keys, idx)...).Err(); err != nil {
		return fmt.Errorf("redis cache: invalidate %s: %w", enablerID, err)
	}
	return nil
}

// Clear removes every key under the cache prefix.
func (c *Cache) Clear(ctx context.Context) error {
	iter := c.rdb.Scan(ctx, 0, c.prefix+"*", 200).Iterator()
	var batch []string
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 200 {
			if err := c.rdb.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis cache: scan: %w", err)
	}
	if len(batch) > 0 {
		return c.rdb.Del(ctx, batch...).Err()
	}
	return nil
}

func (c *Cache) entryKey(key policies.CacheKey) string {
	return c.prefix + key.String()
}

func (c *Cache) indexKey(enablerID string) string {
	return c.prefix + "idx:" + enablerID
}

var _ policies.AvailabilityCache = (*Cache)(nil)
