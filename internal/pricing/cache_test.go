package pricing

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*PriceCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewPriceCache(client, time.Hour), mr
}

func TestPriceCacheRoundTrip(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	_, ok, err := cache.Get(ctx, 42)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Put(ctx, 42, 16.75))

	price, ok, err := cache.Get(ctx, 42)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.InDelta(t, 16.75, price, 1e-9)
}

func TestPriceCacheOverwrite(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, 7, 13.25))
	require.NoError(t, cache.Put(ctx, 7, 14.10))

	price, ok, err := cache.Get(ctx, 7)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.InDelta(t, 14.10, price, 1e-9)
}

func TestPriceCacheExpiry(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, 9, 12.00))
	mr.FastForward(2 * time.Hour)

	_, ok, err := cache.Get(ctx, 9)
	require.NoError(t, err)
	assert.False(t, ok)
}
