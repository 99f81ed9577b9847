package address

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "addr:"

// RedisCache fronts a Source with a TTL cache. Cache failures fall through
// to the underlying source.
type RedisCache struct {
	client *redis.Client
	next   Source
	ttl    time.Duration
	logger *slog.Logger
}

func NewRedisCache(client *redis.Client, next Source, ttl time.Duration, logger *slog.Logger) *RedisCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisCache{client: client, next: next, ttl: ttl, logger: logger}
}

func (c *RedisCache) List(ctx context.Context, level Level, parentCode string) ([]Place, error) {
	key := cacheKey(level, parentCode)

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var places []Place
		if jerr := json.Unmarshal(raw, &places); jerr == nil {
			return places, nil
		}
		c.logger.WarnContext(ctx, "discarding corrupt address cache entry", "key", key)
	case !errors.Is(err, redis.Nil):
		c.logger.WarnContext(ctx, "address cache read failed", "key", key, "error", err)
	}

	places, err := c.next.List(ctx, level, parentCode)
	if err != nil {
		return nil, err
	}
	if payload, jerr := json.Marshal(places); jerr == nil {
		if serr := c.client.Set(ctx, key, payload, c.ttl).Err(); serr != nil {
			c.logger.WarnContext(ctx, "address cache write failed", "key", key, "error", serr)
		}
	}
	return places, nil
}

// Invalidate drops a cached listing.
func (c *RedisCache) Invalidate(ctx context.Context, level Level, parentCode string) error {
	return c.client.Del(ctx, cacheKey(level, parentCode)).Err()
}

func cacheKey(level Level, parentCode string) string {
	return cacheKeyPrefix + string(level) + ":" + parentCode
}
