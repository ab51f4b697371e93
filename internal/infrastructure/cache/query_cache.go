package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"crew-directory.backend/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "qc:v1:"

// Loader produces the value for a cache miss
type Loader func(ctx context.Context) (interface{}, error)

// QueryCache stores JSON encoded query results in Redis, grouped by tags so
// that a write can drop every dependent entry at once. A cache without a
// client passes straight through to the loader.
type QueryCache struct {
	client  goredis.Cmdable
	metrics *cacheMetrics
}

// NewQueryCache creates a cache over client. reg may be nil.
func NewQueryCache(client goredis.Cmdable, reg prometheus.Registerer) *QueryCache {
	return &QueryCache{
		client:  client,
		metrics: newCacheMetrics(reg),
	}
}

func entryKey(key string) string { return keyPrefix + key }

func tagKey(tag string) string { return keyPrefix + "tag:" + tag }

func genKey(tag string) string { return keyPrefix + "gen:" + tag }

// Remember decodes the cached value of key into dest, or runs loader and
// caches its result for ttl under tags. Loader errors are returned as is and
// nothing is cached. Redis failures are logged and fall back to the loader.
func (c *QueryCache) Remember(ctx context.Context, key string, ttl time.Duration, tags []string, dest interface{}, loader Loader) error {
	if c == nil || c.client == nil {
		return passThrough(ctx, dest, loader)
	}

	raw, err := c.client.Get(ctx, entryKey(key)).Bytes()
	switch {
	case err == nil:
		jsonErr := json.Unmarshal(raw, dest)
		if jsonErr == nil {
			c.metrics.hits.Inc()
			return nil
		}
		c.metrics.errors.Inc()
		logger.Warn(ctx, "Discarding undecodable cache entry", zap.String("key", key), zap.Error(jsonErr))
	case !errors.Is(err, goredis.Nil):
		c.metrics.errors.Inc()
		logger.Warn(ctx, "Cache read failed, loading from source", zap.String("key", key), zap.Error(err))
	}

	c.metrics.misses.Inc()
	gens, genErr := c.generations(ctx, tags)
	if genErr != nil {
		c.metrics.errors.Inc()
		logger.Warn(ctx, "Cache generation read failed, result will not be cached", zap.String("key", key), zap.Error(genErr))
	}

	value, err := loader(ctx)
	if err != nil {
		return err
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cache value %s: %w", key, err)
	}

	if genErr == nil {
		stored, err := c.store(ctx, key, data, ttl, tags, gens)
		switch {
		case err != nil:
			c.metrics.errors.Inc()
			logger.Warn(ctx, "Cache write failed", zap.String("key", key), zap.Error(err))
		case !stored:
			c.metrics.staleWrites.Inc()
			logger.Debug(ctx, "Tag invalidated during load, result not cached", zap.String("key", key))
		}
	}

	return json.Unmarshal(data, dest)
}

// generations returns the current generation of each tag, "0" for a tag that
// was never invalidated.
func (c *QueryCache) generations(ctx context.Context, tags []string) ([]string, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	keys := make([]string, len(tags))
	for i, tag := range tags {
		keys[i] = genKey(tag)
	}
	values, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	gens := make([]string, len(values))
	for i, v := range values {
		gens[i] = "0"
		if s, ok := v.(string); ok {
			gens[i] = s
		}
	}
	return gens, nil
}

// storeScript writes the entry and its tag memberships only if no tag moved
// to a new generation since the loader started.
// KEYS: entry, n tag sets, n generation keys. ARGV: data, ttl ms, n generations.
var storeScript = goredis.NewScript(`
local n = (#KEYS - 1) / 2
for i = 1, n do
  local gen = redis.call('GET', KEYS[1 + n + i]) or '0'
  if gen ~= ARGV[2 + i] then
    return 0
  end
end
local ttl = tonumber(ARGV[2])
if ttl > 0 then
  redis.call('SET', KEYS[1], ARGV[1], 'PX', ttl)
else
  redis.call('SET', KEYS[1], ARGV[1])
end
for i = 1, n do
  local tk = KEYS[1 + i]
  local fresh = redis.call('EXISTS', tk) == 0
  redis.call('SADD', tk, KEYS[1])
  if ttl > 0 then
    local left = redis.call('PTTL', tk)
    if fresh or (left >= 0 and left < ttl) then
      redis.call('PEXPIRE', tk, ttl)
    end
  else
    redis.call('PERSIST', tk)
  end
end
return 1
`)

func (c *QueryCache) store(ctx context.Context, key string, data []byte, ttl time.Duration, tags, gens []string) (bool, error) {
	keys := make([]string, 0, 1+2*len(tags))
	keys = append(keys, entryKey(key))
	for _, tag := range tags {
		keys = append(keys, tagKey(tag))
	}
	for _, tag := range tags {
		keys = append(keys, genKey(tag))
	}
	args := make([]interface{}, 0, 2+len(gens))
	args = append(args, data, ttl.Milliseconds())
	for _, g := range gens {
		args = append(args, g)
	}

	n, err := storeScript.Run(ctx, c.client, keys, args...).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// Invalidate drops every entry registered under the given tags and bumps the
// tag generation, so loads that started earlier do not write their result
// back. Calling it again, or for a tag with no entries, is harmless.
func (c *QueryCache) Invalidate(ctx context.Context, tags ...string) error {
	if c == nil || c.client == nil {
		return nil
	}
	for _, tag := range tags {
		if err := c.client.Incr(ctx, genKey(tag)).Err(); err != nil {
			return fmt.Errorf("bump cache tag %s: %w", tag, err)
		}
		tk := tagKey(tag)
		members, err := c.client.SMembers(ctx, tk).Result()
		if err != nil {
			return fmt.Errorf("read cache tag %s: %w", tag, err)
		}
		keys := append(members, tk)
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("invalidate cache tag %s: %w", tag, err)
		}
		c.metrics.invalidations.Inc()
		logger.Debug(ctx, "Cache tag invalidated", zap.String("tag", tag), zap.Int("entries", len(members)))
	}
	return nil
}

// Load is the typed form of Remember
func Load[T any](ctx context.Context, c *QueryCache, key string, ttl time.Duration, tags []string, loader func(context.Context) (T, error)) (T, error) {
	var out T
	err := c.Remember(ctx, key, ttl, tags, &out, func(ctx context.Context) (interface{}, error) {
		return loader(ctx)
	})
	return out, err
}

func passThrough(ctx context.Context, dest interface{}, loader Loader) error {
	value, err := loader(ctx)
	if err != nil {
		return err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}
