package catalog

import (
	"fmt"
	"strconv"
	"time"
)

// Product is a catalog entry the pricing engine operates on. The demand
// signal is normalized to [0, 1]; 0.5 is neutral demand.
type Product struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	Cost         float64   `json:"cost"`
	BasePrice    float64   `json:"base_price"`
	DemandSignal float64   `json:"demand_signal"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Named demand levels accepted at the API boundary.
const (
	demandLow    = 0.15
	demandNormal = 0.5
	demandHigh   = 0.85
)

// ParseDemandSignal maps a named level or a bare number onto the normalized
// scale. Numbers outside [0, 1] are clamped.
func ParseDemandSignal(raw string) (float64, error) {
	switch raw {
	case "", "normal":
		return demandNormal, nil
	case "low":
		return demandLow, nil
	case "high":
		return demandHigh, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("catalog: unknown demand signal %q", raw)
	}
	if value < 0 {
		value = 0
	}
	if value > 1 {
		value = 1
	}
	return value, nil
}
