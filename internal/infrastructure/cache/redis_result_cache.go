package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/programmatrix/backend/internal/domain/insight"
)

// RedisResultCache caches generated chart data in Redis. Suitable for
// distributed deployments where multiple instances serve the same org.
type RedisResultCache struct {
	client    *redis.Client
	keyPrefix string
	logger    *zap.Logger
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisResultCache creates a new Redis-backed result cache
func NewRedisResultCache(cfg RedisConfig, logger *zap.Logger) (*RedisResultCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisResultCache{
		client:    client,
		keyPrefix: "report:result:",
		logger:    logger,
	}, nil
}

// NewRedisResultCacheWithClient creates a cache with an existing Redis
// client. Useful for testing or when sharing a client across components.
func NewRedisResultCacheWithClient(client *redis.Client, keyPrefix string, logger *zap.Logger) *RedisResultCache {
	if keyPrefix == "" {
		keyPrefix = "report:result:"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisResultCache{client: client, keyPrefix: keyPrefix, logger: logger}
}

// Get retrieves cached chart data by fingerprint. Redis or decode
// failures are treated as misses so the pipeline regenerates instead
// of failing the request.
func (c *RedisResultCache) Get(ctx context.Context, key string) (*insight.ChartData, bool) {
	payload, err := c.client.Get(ctx, c.keyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("redis result cache read failed",
				zap.String("key", key),
				zap.Error(err))
		}
		return nil, false
	}

	var data insight.ChartData
	if err := json.Unmarshal(payload, &data); err != nil {
		c.logger.Warn("discarding undecodable cached result",
			zap.String("key", key),
			zap.Error(err))
		return nil, false
	}
	return &data, true
}

// Set stores chart data under a fingerprint with a TTL
func (c *RedisResultCache) Set(ctx context.Context, key string, data *insight.ChartData, ttl time.Duration) {
	if data == nil {
		return
	}
	if ttl == 0 {
		ttl = defaultResultTTL
	}

	payload, err := json.Marshal(data)
	if err != nil {
		c.logger.Warn("failed to encode result for caching",
			zap.String("key", key),
			zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, c.keyPrefix+key, payload, ttl).Err(); err != nil {
		c.logger.Warn("redis result cache write failed",
			zap.String("key", key),
			zap.Error(err))
	}
}

// Delete removes a cached result
func (c *RedisResultCache) Delete(ctx context.Context, key string) {
	if err := c.client.Del(ctx, c.keyPrefix+key).Err(); err != nil {
		c.logger.Warn("redis result cache delete failed",
			zap.String("key", key),
			zap.Error(err))
	}
}

// Close closes the Redis client
func (c *RedisResultCache) Close() error {
	return c.client.Close()
}

// GetClient returns the underlying Redis client (for testing/monitoring)
func (c *RedisResultCache) GetClient() *redis.Client {
	return c.client
}
