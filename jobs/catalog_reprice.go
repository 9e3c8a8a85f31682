package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/pricelab/pricelab/internal/catalog"
	"github.com/pricelab/pricelab/internal/pricing"
)

const repricePageSize = 200

// ProductLister pages through the catalog for batch jobs.
type ProductLister interface {
	List(ctx context.Context, filters catalog.ListFilters) ([]catalog.Product, int, error)
}

// NewCatalogRepriceHandler returns the handler for TaskCatalogReprice. The
// task is idempotent: recomputing a price overwrites the previous cache
// entry with the same deterministic value.
func NewCatalogRepriceHandler(products ProductLister, cache *pricing.PriceCache, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		repriced := 0
		for page := 1; ; page++ {
			batch, _, err := products.List(ctx, catalog.ListFilters{Page: page, Limit: repricePageSize})
			if err != nil {
				return err
			}
			if len(batch) == 0 {
				break
			}
			for _, product := range batch {
				if err := cache.Put(ctx, product.ID, pricing.OptimizePrice(product)); err != nil {
					return err
				}
				repriced++
			}
			if len(batch) < repricePageSize {
				break
			}
		}
		if logger != nil {
			logger.Info("catalog repriced", slog.Int("products", repriced))
		}
		return nil
	}
}
