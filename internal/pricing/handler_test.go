package pricing

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricelab/pricelab/internal/catalog"
	"github.com/pricelab/pricelab/internal/rbac"
)

type stubProducts struct {
	byID map[int64]catalog.Product
}

func (s *stubProducts) Get(ctx context.Context, id int64) (catalog.Product, error) {
	p, ok := s.byID[id]
	if !ok {
		return catalog.Product{}, catalog.ErrNotFound
	}
	return p, nil
}

func newPricingHandler(t *testing.T, cache *PriceCache) *Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	products := &stubProducts{byID: map[int64]catalog.Product{
		1: {ID: 1, Name: "beans", Cost: 10, BasePrice: 15, DemandSignal: 0.85},
	}}
	// Routes are exercised directly; the permission guard has its own tests.
	return NewHandler(logger, products, cache, rbac.Middleware{})
}

func paramRequest(id string, path string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestOptimizeEndpoint(t *testing.T) {
	h := newPricingHandler(t, nil)

	rr := httptest.NewRecorder()
	h.optimize(rr, paramRequest("1", "/catalog/products/1/optimize"))
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		ProductID      int64   `json:"product_id"`
		OptimizedPrice float64 `json:"optimized_price"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, int64(1), body.ProductID)
	assert.InDelta(t, 16.75, body.OptimizedPrice, 1e-9)
}

func TestForecastEndpoint(t *testing.T) {
	h := newPricingHandler(t, nil)

	rr := httptest.NewRecorder()
	h.forecast(rr, paramRequest("1", "/catalog/products/1/forecast"))
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Horizon int       `json:"horizon"`
		Demand  []float64 `json:"demand"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, ForecastHorizon, body.Horizon)
	assert.Len(t, body.Demand, ForecastHorizon)
}

func TestPricingOverviewIncludesNightlyPriceWhenCached(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewPriceCache(client, time.Hour)
	h := newPricingHandler(t, cache)

	ctx := context.Background()
	require.NoError(t, cache.Put(ctx, 1, 16.75))

	rr := httptest.NewRecorder()
	h.overview(rr, paramRequest("1", "/catalog/products/1/pricing"))
	require.Equal(t, http.StatusOK, rr.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Contains(t, body, "nightly_price")
	assert.InDelta(t, 16.75, body["nightly_price"].(float64), 1e-9)
	assert.Len(t, body["demand"], ForecastHorizon)
}

func TestPricingOverviewWithoutCache(t *testing.T) {
	h := newPricingHandler(t, nil)

	rr := httptest.NewRecorder()
	h.overview(rr, paramRequest("1", "/catalog/products/1/pricing"))
	require.Equal(t, http.StatusOK, rr.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.NotContains(t, body, "nightly_price")
}

func TestLoadProductErrors(t *testing.T) {
	h := newPricingHandler(t, nil)

	rr := httptest.NewRecorder()
	h.optimize(rr, paramRequest("abc", "/catalog/products/abc/optimize"))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = httptest.NewRecorder()
	h.optimize(rr, paramRequest("99", "/catalog/products/99/optimize"))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
