package catalog

// ProductForm is the JSON payload for create and update requests. The demand
// signal accepts a named level (low/normal/high) or a bare number.
type ProductForm struct {
	Name         string  `json:"name" validate:"required"`
	Category     string  `json:"category" validate:"required"`
	Cost         float64 `json:"cost" validate:"gte=0"`
	BasePrice    float64 `json:"base_price" validate:"gte=0"`
	DemandSignal string  `json:"demand_signal"`
}

// ToProduct converts the form into a domain product.
func (f ProductForm) ToProduct() (Product, error) {
	signal, err := ParseDemandSignal(f.DemandSignal)
	if err != nil {
		return Product{}, err
	}
	return Product{
		Name:         f.Name,
		Category:     f.Category,
		Cost:         f.Cost,
		BasePrice:    f.BasePrice,
		DemandSignal: signal,
	}, nil
}
