package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/programmatrix/backend/internal/domain/insight"
)

func sampleData() *insight.ChartData {
	return &insight.ChartData{
		Labels: []string{"Jan", "Feb"},
		Datasets: []insight.Dataset{
			{Label: "Financial: Budget Spend", Data: []float64{100, 200}},
		},
	}
}

func TestInMemoryResultCache_GetMissThenHit(t *testing.T) {
	cache := NewInMemoryResultCache()
	defer cache.Close()

	ctx := context.Background()
	key := "fingerprint-1"

	data, ok := cache.Get(ctx, key)
	assert.False(t, ok)
	assert.Nil(t, data)

	cache.Set(ctx, key, sampleData(), 5*time.Second)

	data, ok = cache.Get(ctx, key)
	require.True(t, ok)
	require.NotNil(t, data)
	assert.Equal(t, []string{"Jan", "Feb"}, data.Labels)
}

func TestInMemoryResultCache_Expiration(t *testing.T) {
	cache := NewInMemoryResultCache()
	defer cache.Close()

	ctx := context.Background()
	cache.Set(ctx, "short-lived", sampleData(), 10*time.Millisecond)

	time.Sleep(30 * time.Millisecond)

	data, ok := cache.Get(ctx, "short-lived")
	assert.False(t, ok)
	assert.Nil(t, data)
	assert.Equal(t, 0, cache.Count())
}

func TestInMemoryResultCache_NilIsNoOp(t *testing.T) {
	cache := NewInMemoryResultCache()
	defer cache.Close()

	ctx := context.Background()
	cache.Set(ctx, "nil-entry", nil, 5*time.Second)

	_, ok := cache.Get(ctx, "nil-entry")
	assert.False(t, ok)
}

func TestInMemoryResultCache_Delete(t *testing.T) {
	cache := NewInMemoryResultCache()
	defer cache.Close()

	ctx := context.Background()
	key := "fingerprint-2"
	cache.Set(ctx, key, sampleData(), 5*time.Second)

	cache.Delete(ctx, key)

	_, ok := cache.Get(ctx, key)
	assert.False(t, ok)
}

func TestInMemoryResultCache_Stats(t *testing.T) {
	cache := NewInMemoryResultCache()
	defer cache.Close()

	ctx := context.Background()
	cache.Set(ctx, "tracked", sampleData(), 5*time.Second)

	cache.Get(ctx, "tracked")
	cache.Get(ctx, "absent")

	hits, misses := cache.GetStats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}
