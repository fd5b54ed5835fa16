package allocation

import (
	"math"
	"testing"
	"time"

	"steady-drip/internal/domain"
	"steady-drip/internal/tilt"
)

func basketSignals(prices map[string]float64) map[string]domain.AssetSignals {
	out := make(map[string]domain.AssetSignals, len(prices))
	for ticker, price := range prices {
		out[ticker] = domain.AssetSignals{Ticker: ticker, Price: price, Volatility: 0.10, Source: "yahoo"}
	}
	return out
}

func TestBuildPlanNeutralScenario(t *testing.T) {
	// Balanced regime, all signals neutral, $500: dollars follow targets.
	sigs := basketSignals(map[string]float64{"SPYM": 50, "SCHD": 25, "VEA": 40})
	weights, err := tilt.Compute(domain.DefaultBasket, sigs, domain.RegimeBalanced.Adjustments())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	plan := BuildPlan(domain.DefaultBasket, weights, sigs, 500, domain.RegimeBalanced, time.Now())

	want := map[string]float64{"SPYM": 300, "SCHD": 125, "VEA": 75}
	for _, line := range plan.Lines {
		if math.Abs(line.DollarAmount-want[line.Ticker]) > 0.01 {
			t.Fatalf("%s: expected $%.2f, got $%.2f", line.Ticker, want[line.Ticker], line.DollarAmount)
		}
		if line.Status != domain.StatusBalanced {
			t.Fatalf("%s: expected balanced status, got %s", line.Ticker, line.Status)
		}
		wantUnits := want[line.Ticker] / sigs[line.Ticker].Price
		if math.Abs(line.Units-wantUnits) > 1e-9 {
			t.Fatalf("%s: expected %.4f units, got %.4f", line.Ticker, wantUnits, line.Units)
		}
	}
}

func TestBuildPlanCashConservation(t *testing.T) {
	sigs := basketSignals(map[string]float64{"SPYM": 50, "SCHD": 25, "VEA": 40})
	sigs["SPYM"] = domain.AssetSignals{Ticker: "SPYM", Price: 50, Drawdown: -0.15, SMADistance: -0.05, Volatility: 0.1}
	sigs["VEA"] = domain.AssetSignals{Ticker: "VEA", Price: 40, ZScore: 2.2, Volatility: 0.25}

	for _, cash := range []float64{0.01, 500, 532.45, 100000} {
		weights, err := tilt.Compute(domain.DefaultBasket, sigs, domain.RegimeFlightToValue.Adjustments())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		plan := BuildPlan(domain.DefaultBasket, weights, sigs, cash, domain.RegimeFlightToValue, time.Now())

		var total float64
		for _, line := range plan.Lines {
			total += line.DollarAmount
			if line.DollarAmount < 0 || line.Units < 0 {
				t.Fatalf("negative allocation: %+v", line)
			}
		}
		if math.Abs(total-cash) > 0.01*float64(len(plan.Lines)) {
			t.Fatalf("cash %.2f: allocations sum to %.6f", cash, total)
		}
	}
}

func TestBuildPlanPreservesBasketOrderAndReadouts(t *testing.T) {
	sigs := basketSignals(map[string]float64{"SPYM": 50, "SCHD": 25, "VEA": 40})
	weights, _ := tilt.Compute(domain.DefaultBasket, sigs, nil)
	plan := BuildPlan(domain.DefaultBasket, weights, sigs, 500, domain.RegimeBalanced, time.Now())

	if len(plan.Lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(plan.Lines))
	}
	for i, spec := range domain.DefaultBasket {
		line := plan.Lines[i]
		if line.Ticker != spec.Ticker {
			t.Fatalf("line %d: expected %s, got %s", i, spec.Ticker, line.Ticker)
		}
		if line.Source != "yahoo" {
			t.Fatalf("%s: source not carried into plan", line.Ticker)
		}
		if line.TargetWeight != spec.TargetWeight {
			t.Fatalf("%s: target weight not carried", line.Ticker)
		}
	}
}
