package domain

import (
	"fmt"
	"math"
)

// AssetSpec is one configured basket entry: a ticker and its strategic
// target weight. Target weights are fixed configuration, never mutated
// at runtime.
type AssetSpec struct {
	Ticker       string  `json:"ticker"`
	TargetWeight float64 `json:"target_weight"`
}

// Basket is the ordered set of configured assets.
type Basket []AssetSpec

const weightSumTolerance = 1e-9

// DefaultBasket is the reference 60/25/15 ETF allocation.
var DefaultBasket = Basket{
	{Ticker: "SPYM", TargetWeight: 0.60},
	{Ticker: "SCHD", TargetWeight: 0.25},
	{Ticker: "VEA", TargetWeight: 0.15},
}

// Validate checks the load-time invariants: every weight in (0,1], no
// duplicate tickers, and weights summing to 1.0.
func (b Basket) Validate() error {
	if len(b) == 0 {
		return fmt.Errorf("basket is empty")
	}
	seen := make(map[string]bool, len(b))
	var sum float64
	for _, spec := range b {
		if spec.Ticker == "" {
			return fmt.Errorf("basket entry with empty ticker")
		}
		if seen[spec.Ticker] {
			return fmt.Errorf("duplicate ticker in basket: %s", spec.Ticker)
		}
		seen[spec.Ticker] = true
		if spec.TargetWeight <= 0 || spec.TargetWeight > 1 {
			return fmt.Errorf("target weight for %s out of (0,1]: %f", spec.Ticker, spec.TargetWeight)
		}
		sum += spec.TargetWeight
	}
	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("target weights sum to %f, want 1.0", sum)
	}
	return nil
}

// Tickers returns the basket's tickers in configured order.
func (b Basket) Tickers() []string {
	out := make([]string, len(b))
	for i, spec := range b {
		out[i] = spec.Ticker
	}
	return out
}

// Contains reports whether the basket holds the given ticker.
func (b Basket) Contains(ticker string) bool {
	for _, spec := range b {
		if spec.Ticker == ticker {
			return true
		}
	}
	return false
}
