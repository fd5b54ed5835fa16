// Package allocation translates final weights and a cash amount into the
// per-asset dollar plan.
package allocation

import (
	"time"

	"steady-drip/internal/domain"
	"steady-drip/internal/tilt"
)

// BuildPlan converts final weights into per-asset dollar amounts and
// fractional unit counts. Purely deterministic; preconditions (weights
// summing to 1.0, signals for every ticker) are the tilt engine's job.
func BuildPlan(
	basket domain.Basket,
	finalWeights map[string]float64,
	sigs map[string]domain.AssetSignals,
	cash float64,
	regime domain.Regime,
	now time.Time,
) *domain.AllocationPlan {
	lines := make([]domain.PlanLine, 0, len(basket))
	for _, spec := range basket {
		s := sigs[spec.Ticker]
		weight := finalWeights[spec.Ticker]
		dollars := cash * weight

		var units float64
		if s.Price > 0 {
			units = dollars / s.Price
		}

		lines = append(lines, domain.PlanLine{
			Ticker:       spec.Ticker,
			Price:        s.Price,
			Drawdown:     s.Drawdown,
			SMADistance:  s.SMADistance,
			ZScore:       s.ZScore,
			Volatility:   s.Volatility,
			Source:       s.Source,
			TargetWeight: spec.TargetWeight,
			FinalWeight:  weight,
			DollarAmount: dollars,
			Units:        units,
			Status:       tilt.Classify(weight, spec.TargetWeight),
		})
	}

	return &domain.AllocationPlan{
		Cash:        cash,
		Regime:      regime,
		Lines:       lines,
		GeneratedAt: now.UTC(),
	}
}
