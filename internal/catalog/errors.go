package catalog

import "errors"

var (
	// ErrNotFound indicates the product does not exist.
	ErrNotFound = errors.New("catalog: product not found")
	// ErrNameTaken indicates a duplicate product name.
	ErrNameTaken = errors.New("catalog: product name already exists")
	// ErrPriceBelowCost rejects a base price under cost.
	ErrPriceBelowCost = errors.New("catalog: base price below cost")
	// ErrInvalidProduct rejects missing or negative fields.
	ErrInvalidProduct = errors.New("catalog: invalid product")
)
