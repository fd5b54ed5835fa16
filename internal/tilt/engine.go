// Package tilt turns target weights, technical signals, and a regime
// sentiment table into final normalized portfolio weights.
package tilt

import "steady-drip/internal/domain"

// Tilt rule thresholds and adjustments. All terms are additive on a 1.0
// base multiplier; only the floor clamp is non-linear.
const (
	belowSMABonus     = 0.15
	richSMAThreshold  = 0.10
	richSMAPenalty    = 0.15
	deepDrawdown      = -0.10
	deepDrawdownBonus = 0.20
	mildDrawdown      = -0.05
	mildDrawdownBonus = 0.10
	richZThreshold    = 1.5
	richZPenalty      = 0.15
	cheapZThreshold   = -1.0
	cheapZBonus       = 0.15
	highVolThreshold  = 0.20
	highVolPenalty    = 0.10

	// multiplierFloor guarantees every asset keeps at least 20% of its
	// target weight no matter how negative the combined signals are.
	multiplierFloor = 0.2

	// Status label thresholds on the final/target weight ratio.
	opportunityRatio = 1.15
	trimmedRatio     = 0.85
)

// Compute returns final normalized weights for the basket. It is
// fail-closed: if any configured ticker lacks signals it returns
// *domain.IncompleteBasketError and no weights.
func Compute(basket domain.Basket, sigs map[string]domain.AssetSignals, adjustments map[string]float64) (map[string]float64, error) {
	missing := make([]string, 0)
	for _, spec := range basket {
		if _, ok := sigs[spec.Ticker]; !ok {
			missing = append(missing, spec.Ticker)
		}
	}
	if len(missing) > 0 {
		return nil, &domain.IncompleteBasketError{Missing: missing}
	}

	raw := make(map[string]float64, len(basket))
	var total float64
	for _, spec := range basket {
		m := Multiplier(sigs[spec.Ticker], adjustments[spec.Ticker])
		raw[spec.Ticker] = spec.TargetWeight * m
		total += raw[spec.Ticker]
	}

	final := make(map[string]float64, len(raw))
	for ticker, w := range raw {
		final[ticker] = w / total
	}
	return final, nil
}

// Multiplier combines the four signal rules and the regime adjustment
// into a single tilt multiplier, clamped at the floor.
func Multiplier(s domain.AssetSignals, regimeAdjustment float64) float64 {
	m := 1.0

	// Below the long average is cheap; materially above it is rich.
	if s.SMADistance < 0 {
		m += belowSMABonus
	} else if s.SMADistance > richSMAThreshold {
		m -= richSMAPenalty
	}

	// Only the deepest applicable drawdown tier applies.
	if s.Drawdown < deepDrawdown {
		m += deepDrawdownBonus
	} else if s.Drawdown < mildDrawdown {
		m += mildDrawdownBonus
	}

	if s.ZScore > richZThreshold {
		m -= richZPenalty
	} else if s.ZScore < cheapZThreshold {
		m += cheapZBonus
	}

	if s.Volatility > highVolThreshold {
		m -= highVolPenalty
	}

	m += regimeAdjustment

	if m < multiplierFloor {
		m = multiplierFloor
	}
	return m
}

// Classify labels how far the final weight drifted from target. Display
// only; not part of the allocation math.
func Classify(finalWeight, targetWeight float64) domain.AllocationStatus {
	if targetWeight <= 0 {
		return domain.StatusBalanced
	}
	ratio := finalWeight / targetWeight
	switch {
	case ratio > opportunityRatio:
		return domain.StatusOpportunity
	case ratio < trimmedRatio:
		return domain.StatusTrimmed
	default:
		return domain.StatusBalanced
	}
}
