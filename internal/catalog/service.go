package catalog

import (
	"context"
	"fmt"
	"strings"
)

// Service handles catalog business logic.
type Service struct {
	repo Repository
}

// NewService builds a Service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns products matching the filters plus the unfiltered total.
func (s *Service) List(ctx context.Context, filters ListFilters) ([]Product, int, error) {
	return s.repo.List(ctx, filters)
}

// Get fetches a product by ID.
func (s *Service) Get(ctx context.Context, id int64) (Product, error) {
	if id <= 0 {
		return Product{}, fmt.Errorf("%w: id", ErrInvalidProduct)
	}
	return s.repo.Get(ctx, id)
}

// Create validates and inserts a product.
func (s *Service) Create(ctx context.Context, product Product) (Product, error) {
	if err := validate(product); err != nil {
		return Product{}, err
	}
	return s.repo.Create(ctx, product)
}

// Update validates and replaces a product's attributes.
func (s *Service) Update(ctx context.Context, id int64, product Product) (Product, error) {
	if id <= 0 {
		return Product{}, fmt.Errorf("%w: id", ErrInvalidProduct)
	}
	if err := validate(product); err != nil {
		return Product{}, err
	}
	return s.repo.Update(ctx, id, product)
}

// Delete removes a product.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: id", ErrInvalidProduct)
	}
	return s.repo.Delete(ctx, id)
}

// validate enforces the pricing floor at the data-entry boundary: the engine
// downstream assumes cost >= 0 and base_price >= cost.
func validate(p Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name required", ErrInvalidProduct)
	}
	if strings.TrimSpace(p.Category) == "" {
		return fmt.Errorf("%w: category required", ErrInvalidProduct)
	}
	if p.Cost < 0 {
		return fmt.Errorf("%w: negative cost", ErrInvalidProduct)
	}
	if p.BasePrice < p.Cost {
		return ErrPriceBelowCost
	}
	if p.DemandSignal < 0 || p.DemandSignal > 1 {
		return fmt.Errorf("%w: demand signal out of range", ErrInvalidProduct)
	}
	return nil
}
