package pricing

import (
	"math"

	"github.com/pricelab/pricelab/internal/catalog"
)

// ForecastHorizon is the number of periods a demand projection covers.
const ForecastHorizon = 12

// baseDemand anchors forecasts at a neutral demand signal, in units/period.
const baseDemand = 100.0

// trendDamping shrinks the trend component each period so projections level
// off instead of running away.
const trendDamping = 0.9

// OptimizePrice returns the heuristic price for a product. The adjustment is
// linear in the demand signal, so it is continuous and monotonic: a neutral
// signal (0.5) reproduces the base price, scarcity pushes up to 1.5x the
// margin over cost, weak demand slides toward cost. The result never drops
// below cost.
func OptimizePrice(p catalog.Product) float64 {
	signal := clamp01(p.DemandSignal)
	margin := p.BasePrice - p.Cost
	price := round2(p.Cost + margin*(0.5+signal))
	// Rounding to cents can land below a sub-cent cost; the floor must hold
	// after rounding, so round the cost up to the next cent.
	if price < p.Cost {
		price = math.Ceil(p.Cost*100) / 100
	}
	return price
}

// Forecast projects demand for the next horizon periods with a damped linear
// trend seeded from the demand signal. It is a pure function of the product:
// identical input yields an identical sequence.
func Forecast(p catalog.Product, horizon int) []float64 {
	if horizon <= 0 {
		horizon = ForecastHorizon
	}
	signal := clamp01(p.DemandSignal)

	level := baseDemand * (0.5 + signal)
	trend := baseDemand * (signal - 0.5) * 0.2

	out := make([]float64, horizon)
	for i := range out {
		level += trend
		trend *= trendDamping
		if level < 0 {
			level = 0
		}
		out[i] = round2(level)
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
