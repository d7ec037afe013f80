// Package rediscache provides the Redis-backed implementation of the task
// read-through cache.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/phrazzld/cloudtask-api/internal/cache"
	"github.com/phrazzld/cloudtask-api/internal/config"
	"github.com/phrazzld/cloudtask-api/internal/platform/metrics"
)

// ErrCacheUnavailable wraps backend failures so callers can distinguish
// them from a plain miss. The task service degrades to store-only reads on
// this error; it never surfaces to API clients.
var ErrCacheUnavailable = errors.New("cache backend unavailable")

// RedisTaskCache implements cache.TaskCache on a Redis backend, storing
// projections as JSON values.
type RedisTaskCache struct {
	client *redis.Client
	logger *slog.Logger
}

var _ cache.TaskCache = (*RedisTaskCache)(nil)

// NewRedisTaskCache creates a RedisTaskCache from the cache configuration.
// If logger is nil, the default logger is used.
func NewRedisTaskCache(cfg config.CacheConfig, logger *slog.Logger) *RedisTaskCache {
	if logger == nil {
		logger = slog.Default()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &RedisTaskCache{
		client: client,
		logger: logger.With(slog.String("component", "task_cache")),
	}
}

// Ping verifies connectivity to the Redis backend.
func (c *RedisTaskCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	return nil
}

// Close releases the underlying Redis connection.
func (c *RedisTaskCache) Close() error {
	return c.client.Close()
}

// Get implements cache.TaskCache.Get. Absent and expired keys return
// (nil, nil); backend failures return ErrCacheUnavailable.
func (c *RedisTaskCache) Get(ctx context.Context, key string) (*cache.TaskProjection, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.CacheMisses.WithLabelValues("task").Inc()
			return nil, nil
		}
		metrics.CacheErrors.WithLabelValues("task", "get").Inc()
		return nil, fmt.Errorf("%w: get %s: %v", ErrCacheUnavailable, key, err)
	}

	var projection cache.TaskProjection
	if err := json.Unmarshal(data, &projection); err != nil {
		// A corrupt entry is useless; drop it and report a miss so the
		// caller repopulates from the store.
		c.logger.Warn("dropping undecodable cache entry",
			slog.String("key", key),
			slog.String("error", err.Error()))
		_ = c.client.Del(ctx, key).Err()
		metrics.CacheMisses.WithLabelValues("task").Inc()
		return nil, nil
	}

	metrics.CacheHits.WithLabelValues("task").Inc()
	return &projection, nil
}

// Set implements cache.TaskCache.Set.
func (c *RedisTaskCache) Set(ctx context.Context, key string, projection *cache.TaskProjection, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}

	data, err := json.Marshal(projection)
	if err != nil {
		return fmt.Errorf("failed to encode projection for %s: %w", key, err)
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		metrics.CacheErrors.WithLabelValues("task", "set").Inc()
		return fmt.Errorf("%w: set %s: %v", ErrCacheUnavailable, key, err)
	}
	return nil
}

// Delete implements cache.TaskCache.Delete.
func (c *RedisTaskCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		metrics.CacheErrors.WithLabelValues("task", "delete").Inc()
		return fmt.Errorf("%w: delete %s: %v", ErrCacheUnavailable, key, err)
	}
	return nil
}
