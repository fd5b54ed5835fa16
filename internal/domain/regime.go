package domain

import (
	"fmt"
	"strings"
)

// Regime is a qualitative macro scenario selected by the caller. Each
// regime maps to a fixed per-ticker additive sentiment adjustment that
// the tilt engine applies unconditionally.
type Regime string

const (
	RegimeBalanced         Regime = "balanced"
	RegimeFlightToValue    Regime = "flight-to-value"
	RegimeAggressiveGrowth Regime = "aggressive-growth"
	RegimeGlobalRiskOff    Regime = "global-risk-off"
)

// SupportedRegimes lists all selectable regimes.
var SupportedRegimes = []Regime{
	RegimeBalanced,
	RegimeFlightToValue,
	RegimeAggressiveGrowth,
	RegimeGlobalRiskOff,
}

// regimeAdjustments holds the sentiment tables. Values are additive tilt
// terms in roughly [-0.15, +0.15].
var regimeAdjustments = map[Regime]map[string]float64{
	RegimeBalanced: {},
	RegimeFlightToValue: {
		"SPYM": -0.05,
		"SCHD": +0.10,
		"VEA":  +0.05,
	},
	RegimeAggressiveGrowth: {
		"SPYM": +0.10,
		"SCHD": -0.05,
		"VEA":  +0.05,
	},
	RegimeGlobalRiskOff: {
		"SPYM": -0.10,
		"SCHD": +0.15,
		"VEA":  -0.10,
	},
}

// ParseRegime maps user input to a Regime. Empty input selects balanced.
func ParseRegime(s string) (Regime, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return RegimeBalanced, nil
	}
	for _, r := range SupportedRegimes {
		if s == string(r) {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown regime: %s", s)
}

// Adjustments returns the per-ticker sentiment table for a regime.
// Tickers absent from the table adjust by zero. Unknown regimes behave
// as balanced.
func (r Regime) Adjustments() map[string]float64 {
	table, ok := regimeAdjustments[r]
	if !ok {
		return map[string]float64{}
	}
	out := make(map[string]float64, len(table))
	for t, v := range table {
		out[t] = v
	}
	return out
}
