package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricelab/pricelab/internal/catalog"
	"github.com/pricelab/pricelab/internal/pricing"
)

type fakeLister struct {
	products []catalog.Product
	pages    int
}

func (f *fakeLister) List(ctx context.Context, filters catalog.ListFilters) ([]catalog.Product, int, error) {
	f.pages++
	start := (filters.Page - 1) * filters.Limit
	if start >= len(f.products) {
		return nil, len(f.products), nil
	}
	end := start + filters.Limit
	if end > len(f.products) {
		end = len(f.products)
	}
	return f.products[start:end], len(f.products), nil
}

func TestCatalogRepriceHandler(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := pricing.NewPriceCache(client, time.Hour)

	lister := &fakeLister{products: []catalog.Product{
		{ID: 1, Name: "beans", Cost: 10, BasePrice: 15, DemandSignal: 0.85},
		{ID: 2, Name: "grinder", Cost: 40, BasePrice: 60, DemandSignal: 0.15},
	}}

	handler := NewCatalogRepriceHandler(lister, cache, nil)
	require.NoError(t, handler(context.Background(), NewCatalogRepriceTask()))

	ctx := context.Background()
	price, ok, err := cache.Get(ctx, 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 16.75, price, 1e-9)

	price, ok, err = cache.Get(ctx, 2)
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 53, price, 1e-9)
}

func TestCatalogRepriceIdempotent(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := pricing.NewPriceCache(client, time.Hour)

	lister := &fakeLister{products: []catalog.Product{
		{ID: 1, Name: "beans", Cost: 10, BasePrice: 15, DemandSignal: 0.5},
	}}
	handler := NewCatalogRepriceHandler(lister, cache, nil)

	ctx := context.Background()
	require.NoError(t, handler(ctx, NewCatalogRepriceTask()))
	first, _, err := cache.Get(ctx, 1)
	require.NoError(t, err)

	require.NoError(t, handler(ctx, NewCatalogRepriceTask()))
	second, _, err := cache.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCatalogRepriceEmptyCatalog(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := pricing.NewPriceCache(client, time.Hour)

	lister := &fakeLister{}
	handler := NewCatalogRepriceHandler(lister, cache, nil)
	require.NoError(t, handler(context.Background(), NewCatalogRepriceTask()))
	assert.Equal(t, 1, lister.pages)
}
