// In file: internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dileep-u-k/decision-gateway/internal/decision"
)

// RedisCache stores analyses as JSON strings with a Redis-side expiry, so
// every gateway replica shares one cache.
type RedisCache struct {
	rdb redis.UniversalClient
	ttl time.Duration
}

var _ Cache = (*RedisCache)(nil)

func NewRedisCache(rdb redis.UniversalClient, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{rdb: rdb, ttl: ttl}
}

// Get looks for a cached analysis and its remaining lifetime.
func (c *RedisCache) Get(ctx context.Context, key string) (*Entry, bool, error) {
	pipe := c.rdb.Pipeline()
	get := pipe.Get(ctx, key)
	ttl := pipe.TTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil // Cache miss.
		}
		return nil, false, fmt.Errorf("redis cache get failed: %w", err)
	}

	var analysis decision.Analysis
	if err := json.Unmarshal([]byte(get.Val()), &analysis); err != nil {
		// A corrupt entry is treated as a miss and dropped.
		_ = c.rdb.Del(ctx, key).Err()
		return nil, false, nil
	}

	remaining := ttl.Val()
	if remaining < 0 {
		remaining = 0
	}
	return &Entry{Analysis: &analysis, TTL: remaining}, true, nil
}

// Set adds an analysis to the cache with the configured expiry.
func (c *RedisCache) Set(ctx context.Context, key string, analysis *decision.Analysis) error {
	raw, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("failed to encode analysis for cache: %w", err)
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis cache set failed: %w", err)
	}
	return nil
}

func (c *RedisCache) Evict(ctx context.Context, key string) error {
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis cache evict failed: %w", err)
	}
	return nil
}
