// README: Redis-backed read-through cache for GET responses.
package cache

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "resp:"

// ResponseCache stores rendered GET responses keyed by request
// identity. Every operation is best effort: a Redis failure is logged
// and the caller proceeds as if it were a miss.
type ResponseCache struct {
	redis *redis.Client
	ttl   time.Duration
	log   *zap.Logger
}

func NewResponseCache(redisClient *redis.Client, ttl time.Duration, log *zap.Logger) *ResponseCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &ResponseCache{redis: redisClient, ttl: ttl, log: log}
}

// Key builds the cache key for a request. Responses are scoped per
// caller because list endpoints are role- and identity-dependent.
func Key(path, rawQuery, callerUID string) string {
	var b strings.Builder
	b.WriteString(keyPrefix)
	b.WriteString(strings.TrimPrefix(path, "/api/"))
	if rawQuery != "" {
		b.WriteString("?")
		b.WriteString(rawQuery)
	}
	b.WriteString("#")
	b.WriteString(callerUID)
	return b.String()
}

// Get returns the cached body for key, or found=false on a miss or any
// Redis error.
func (c *ResponseCache) Get(ctx context.Context, key string) (body []byte, found bool) {
	val, err := c.redis.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.log.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return val, true
}

// Set stores a response body under key with the configured TTL.
func (c *ResponseCache) Set(ctx context.Context, key string, body []byte) {
	if err := c.redis.Set(ctx, key, body, c.ttl).Err(); err != nil {
		c.log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate deletes every cached response matching the given patterns.
// Patterns are resource prefixes like "bookings*"; failures are logged
// and swallowed, never propagated to the triggering mutation.
func (c *ResponseCache) Invalidate(ctx context.Context, patterns ...string) {
	for _, p := range patterns {
		match := keyPrefix + p
		iter := c.redis.Scan(ctx, 0, match, 0).Iterator()
		var keys []string
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			c.log.Warn("cache scan failed", zap.String("pattern", match), zap.Error(err))
			continue
		}
		if len(keys) == 0 {
			continue
		}
		if err := c.redis.Del(ctx, keys...).Err(); err != nil {
			c.log.Warn("cache invalidation failed", zap.String("pattern", match), zap.Error(err))
		}
	}
}
