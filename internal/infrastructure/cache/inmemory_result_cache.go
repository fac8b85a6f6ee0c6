package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/programmatrix/backend/internal/domain/insight"
)

const (
	defaultCleanupInterval = 30 * time.Second
	defaultResultTTL       = 5 * time.Minute
)

// InMemoryResultCache caches generated chart data in process memory.
// Suitable for single-instance deployments and testing; state is not
// shared across processes.
type InMemoryResultCache struct {
	entries sync.Map // map[string]*resultEntry
	logger  *zap.Logger
	stopCh  chan struct{}
	stopped int32

	// Stats for monitoring
	hits   int64
	misses int64
}

// resultEntry wraps a cached payload with its expiration time
type resultEntry struct {
	data      *insight.ChartData
	expiresAt time.Time
}

func (e *resultEntry) isExpired() bool {
	return time.Now().After(e.expiresAt)
}

// InMemoryResultCacheOption is a functional option for configuring the cache
type InMemoryResultCacheOption func(*InMemoryResultCache)

// WithInMemoryLogger sets the logger for the cache
func WithInMemoryLogger(logger *zap.Logger) InMemoryResultCacheOption {
	return func(c *InMemoryResultCache) {
		c.logger = logger
	}
}

// NewInMemoryResultCache creates a new in-memory result cache
func NewInMemoryResultCache(opts ...InMemoryResultCacheOption) *InMemoryResultCache {
	cache := &InMemoryResultCache{
		logger: zap.NewNop(),
		stopCh: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(cache)
	}

	go cache.cleanupExpired()

	return cache
}

// Get retrieves cached chart data by fingerprint
func (c *InMemoryResultCache) Get(ctx context.Context, key string) (*insight.ChartData, bool) {
	if value, ok := c.entries.Load(key); ok {
		entry := value.(*resultEntry)
		if !entry.isExpired() {
			atomic.AddInt64(&c.hits, 1)
			c.logger.Debug("result cache hit", zap.String("key", key))
			return entry.data, true
		}
		c.entries.Delete(key)
	}

	atomic.AddInt64(&c.misses, 1)
	c.logger.Debug("result cache miss", zap.String("key", key))
	return nil, false
}

// Set stores chart data under a fingerprint with a TTL
func (c *InMemoryResultCache) Set(ctx context.Context, key string, data *insight.ChartData, ttl time.Duration) {
	if data == nil {
		return
	}
	if ttl == 0 {
		ttl = defaultResultTTL
	}

	c.entries.Store(key, &resultEntry{
		data:      data,
		expiresAt: time.Now().Add(ttl),
	})
	c.logger.Debug("cached report result",
		zap.String("key", key),
		zap.Duration("ttl", ttl))
}

// Delete removes a cached result
func (c *InMemoryResultCache) Delete(ctx context.Context, key string) {
	c.entries.Delete(key)
}

// Close stops the background cleanup goroutine
func (c *InMemoryResultCache) Close() error {
	if atomic.CompareAndSwapInt32(&c.stopped, 0, 1) {
		close(c.stopCh)
	}
	return nil
}

// GetStats returns cache hit/miss counters
func (c *InMemoryResultCache) GetStats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}

// Count returns the number of entries currently cached
func (c *InMemoryResultCache) Count() int {
	count := 0
	c.entries.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}

func (c *InMemoryResultCache) cleanupExpired() {
	ticker := time.NewTicker(defaultCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.doCleanup()
		}
	}
}

func (c *InMemoryResultCache) doCleanup() {
	var removed int
	c.entries.Range(func(key, value any) bool {
		if value.(*resultEntry).isExpired() {
			c.entries.Delete(key)
			removed++
		}
		return true
	})
	if removed > 0 {
		c.logger.Debug("cleaned up expired result cache entries", zap.Int("removed", removed))
	}
}
