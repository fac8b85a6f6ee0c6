package cache

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/programmatrix/backend/internal/application/insight"
	"github.com/programmatrix/backend/internal/infrastructure/config"
)

// ResultCacheFactory creates report result caches based on configuration
type ResultCacheFactory struct {
	cacheConfig           config.CacheConfig
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// ResultCacheFactoryOption is a functional option for configuring the factory
type ResultCacheFactoryOption func(*ResultCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) ResultCacheFactoryOption {
	return func(f *ResultCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory
// cache when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) ResultCacheFactoryOption {
	return func(f *ResultCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewResultCacheFactory creates a new factory
func NewResultCacheFactory(cacheCfg config.CacheConfig, redisCfg config.RedisConfig, opts ...ResultCacheFactoryOption) *ResultCacheFactory {
	f := &ResultCacheFactory{
		cacheConfig:           cacheCfg,
		redisConfig:           redisCfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateCache creates the result cache the configuration asks for. A
// redis backend falls back to in-memory when the connection fails and
// fallback is allowed; in-memory caches do not share state across
// process instances.
func (f *ResultCacheFactory) CreateCache() (insight.ResultCache, error) {
	switch f.cacheConfig.Backend {
	case "memory":
		f.logger.Info("using in-memory result cache")
		return NewInMemoryResultCache(WithInMemoryLogger(f.logger)), nil

	case "redis":
		cache, err := NewRedisResultCache(RedisConfig{
			Host:     f.redisConfig.Host,
			Port:     f.redisConfig.Port,
			Password: f.redisConfig.Password,
			DB:       f.redisConfig.DB,
		}, f.logger)
		if err == nil {
			f.logger.Info("using Redis result cache")
			return cache, nil
		}

		if !f.allowInMemoryFallback {
			return nil, fmt.Errorf("Redis required for result cache but unavailable: %w", err)
		}

		f.logger.Warn("Redis unavailable, falling back to in-memory result cache. "+
			"Cached reports will not be shared across instances.",
			zap.Error(err),
		)
		return NewInMemoryResultCache(WithInMemoryLogger(f.logger)), nil

	default:
		return nil, fmt.Errorf("unknown cache backend %q", f.cacheConfig.Backend)
	}
}
