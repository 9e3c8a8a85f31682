package pricing

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/pricelab/pricelab/internal/catalog"
	"github.com/pricelab/pricelab/internal/platform/httpx"
	"github.com/pricelab/pricelab/internal/rbac"
)

// ProductGetter loads catalog entries for pricing endpoints.
type ProductGetter interface {
	Get(ctx context.Context, id int64) (catalog.Product, error)
}

// Handler serves optimization and forecast endpoints for a product.
type Handler struct {
	logger   *slog.Logger
	products ProductGetter
	cache    *PriceCache
	rbac     rbac.Middleware
}

// NewHandler builds a Handler instance. The cache may be nil; prices are
// then always computed on demand.
func NewHandler(logger *slog.Logger, products ProductGetter, cache *PriceCache, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, products: products, cache: cache, rbac: rbac}
}

// MountRoutes registers pricing routes under a product subtree.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.rbac.Require(rbac.PermOptimizationRead)).Get("/{id}/optimize", h.optimize)
	r.With(h.rbac.Require(rbac.PermForecastRead)).Get("/{id}/forecast", h.forecast)
	r.With(
		h.rbac.Require(rbac.PermOptimizationRead),
		h.rbac.Require(rbac.PermForecastRead),
	).Get("/{id}/pricing", h.overview)
}

func (h *Handler) optimize(w http.ResponseWriter, r *http.Request) {
	product, ok := h.loadProduct(w, r)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"product_id":      product.ID,
		"optimized_price": OptimizePrice(product),
	})
}

func (h *Handler) forecast(w http.ResponseWriter, r *http.Request) {
	product, ok := h.loadProduct(w, r)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"product_id": product.ID,
		"horizon":    ForecastHorizon,
		"demand":     Forecast(product, ForecastHorizon),
	})
}

// overview combines both computations; the cached nightly price and the
// forecast are gathered concurrently.
func (h *Handler) overview(w http.ResponseWriter, r *http.Request) {
	product, ok := h.loadProduct(w, r)
	if !ok {
		return
	}

	var (
		cachedPrice float64
		cached      bool
		demand      []float64
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		if h.cache == nil {
			return nil
		}
		var err error
		cachedPrice, cached, err = h.cache.Get(ctx, product.ID)
		return err
	})
	g.Go(func() error {
		demand = Forecast(product, ForecastHorizon)
		return nil
	})
	if err := g.Wait(); err != nil {
		h.logger.Error("pricing overview", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	price := OptimizePrice(product)
	response := map[string]any{
		"product_id":      product.ID,
		"base_price":      product.BasePrice,
		"optimized_price": price,
		"horizon":         ForecastHorizon,
		"demand":          demand,
	}
	if cached {
		response["nightly_price"] = cachedPrice
	}
	httpx.JSON(w, http.StatusOK, response)
}

func (h *Handler) loadProduct(w http.ResponseWriter, r *http.Request) (catalog.Product, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid product ID")
		return catalog.Product{}, false
	}
	product, err := h.products.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
			return catalog.Product{}, false
		}
		h.logger.Error("load product", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return catalog.Product{}, false
	}
	return product, true
}
