// ABOUTME: Redis-backed response cache for read endpoints.
// ABOUTME: Degrades to a no-op when Redis is unconfigured or unreachable.
package server

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	cacheTTL       = time.Minute
	cacheKeyPrefix = "trainer:"
)

// Cache wraps a Redis client. A Cache with a nil client is valid and
// every operation on it is a no-op, so handlers never branch on whether
// caching is enabled.
type Cache struct {
	client *redis.Client
	logger *zap.Logger
}

// NewCache connects to Redis at addr. An empty addr, or a Redis that
// does not answer the initial ping, yields a disabled cache rather than
// an error; serving stale-free responses beats refusing to start.
func NewCache(addr string, logger *zap.Logger) *Cache {
	if addr == "" {
		return &Cache{logger: logger}
	}

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable, response cache disabled",
			zap.String("addr", addr), zap.Error(err))
		_ = client.Close()
		return &Cache{logger: logger}
	}

	logger.Info("redis connected", zap.String("addr", addr))
	return &Cache{client: client, logger: logger}
}

// Enabled reports whether a Redis connection backs this cache.
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// Get returns the cached payload for key, or nil on a miss.
func (c *Cache) Get(ctx context.Context, key string) []byte {
	if !c.Enabled() {
		return nil
	}
	val, err := c.client.Get(ctx, cacheKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		c.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		return nil
	}
	return val
}

// Set stores a payload under key for the cache TTL.
func (c *Cache) Set(ctx context.Context, key string, payload []byte) {
	if !c.Enabled() {
		return
	}
	if err := c.client.Set(ctx, cacheKeyPrefix+key, payload, cacheTTL).Err(); err != nil {
		c.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// InvalidateAll drops every cached response. Called after anything that
// changes stored data: sync, rollup, or a write endpoint.
func (c *Cache) InvalidateAll(ctx context.Context) {
	if !c.Enabled() {
		return
	}
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, cacheKeyPrefix+"*", 100).Result()
		if err != nil {
			c.logger.Warn("cache invalidation scan failed", zap.Error(err))
			return
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				c.logger.Warn("cache invalidation delete failed", zap.Error(err))
				return
			}
		}
		if next == 0 {
			return
		}
		cursor = next
	}
}

// Close releases the Redis connection.
func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}
