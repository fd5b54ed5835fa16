package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"steady-drip/internal/domain"
)

type fakeSignalSource struct {
	sigs map[string]domain.AssetSignals
	errs map[string]error
}

func (f *fakeSignalSource) GetSignals(ctx context.Context, ticker string) (domain.AssetSignals, error) {
	if err, ok := f.errs[ticker]; ok {
		return domain.AssetSignals{}, err
	}
	sig, ok := f.sigs[ticker]
	if !ok {
		return domain.AssetSignals{}, domain.ErrDataUnavailable
	}
	return sig, nil
}

func neutralSource() *fakeSignalSource {
	sigs := make(map[string]domain.AssetSignals)
	prices := map[string]float64{"SPYM": 50, "SCHD": 25, "VEA": 40}
	for ticker, price := range prices {
		sigs[ticker] = domain.AssetSignals{Ticker: ticker, Price: price, Volatility: 0.10, Source: "yahoo"}
	}
	return &fakeSignalSource{sigs: sigs}
}

func TestPlanServiceNeutralScenario(t *testing.T) {
	svc := NewPlanService(testTracer, neutralSource(), domain.DefaultBasket)

	plan, err := svc.BuildPlan(context.Background(), "500", "balanced")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Cash != 500 || plan.Regime != domain.RegimeBalanced {
		t.Fatalf("unexpected plan envelope: %+v", plan)
	}

	want := map[string]float64{"SPYM": 300, "SCHD": 125, "VEA": 75}
	var weightSum, dollarSum float64
	for _, line := range plan.Lines {
		weightSum += line.FinalWeight
		dollarSum += line.DollarAmount
		if math.Abs(line.DollarAmount-want[line.Ticker]) > 0.01 {
			t.Fatalf("%s: expected $%.2f, got $%.2f", line.Ticker, want[line.Ticker], line.DollarAmount)
		}
	}
	if math.Abs(weightSum-1.0) > 1e-9 {
		t.Fatalf("weights sum to %.12f", weightSum)
	}
	if math.Abs(dollarSum-500) > 0.03 {
		t.Fatalf("dollars sum to %.6f", dollarSum)
	}
}

func TestPlanServiceCommaDecimalCash(t *testing.T) {
	svc := NewPlanService(testTracer, neutralSource(), domain.DefaultBasket)

	plan, err := svc.BuildPlan(context.Background(), "532,45", "balanced")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(plan.Cash-532.45) > 1e-9 {
		t.Fatalf("expected cash 532.45, got %f", plan.Cash)
	}
}

func TestPlanServiceRejectsBadCash(t *testing.T) {
	svc := NewPlanService(testTracer, neutralSource(), domain.DefaultBasket)

	for _, in := range []string{"abc", "", "0", "-10"} {
		if _, err := svc.BuildPlan(context.Background(), in, "balanced"); !errors.Is(err, domain.ErrInvalidCash) {
			t.Fatalf("%q: expected ErrInvalidCash, got %v", in, err)
		}
	}
}

func TestPlanServiceRejectsUnknownRegime(t *testing.T) {
	svc := NewPlanService(testTracer, neutralSource(), domain.DefaultBasket)
	if _, err := svc.BuildPlan(context.Background(), "500", "moon"); err == nil {
		t.Fatal("expected regime error")
	}
}

func TestPlanServiceFailClosedOnPartialBasket(t *testing.T) {
	source := neutralSource()
	source.errs = map[string]error{"VEA": domain.ErrInsufficientHistory}
	svc := NewPlanService(testTracer, source, domain.DefaultBasket)

	plan, err := svc.BuildPlan(context.Background(), "500", "balanced")
	if plan != nil {
		t.Fatal("expected no plan on incomplete basket")
	}
	if !domain.IsIncompleteBasket(err) {
		t.Fatalf("expected IncompleteBasketError, got %v", err)
	}
	ib := &domain.IncompleteBasketError{}
	if !errors.As(err, &ib) {
		t.Fatal("error should unwrap to IncompleteBasketError")
	}
	if len(ib.Missing) != 1 || ib.Missing[0] != "VEA" {
		t.Fatalf("unexpected missing tickers: %v", ib.Missing)
	}
	if !errors.Is(ib.Reasons["VEA"], domain.ErrInsufficientHistory) {
		t.Fatalf("expected per-ticker reason, got %v", ib.Reasons["VEA"])
	}
}

func TestPlanServiceIdempotent(t *testing.T) {
	svc := NewPlanService(testTracer, neutralSource(), domain.DefaultBasket)

	a, err := svc.BuildPlan(context.Background(), "500", "global-risk-off")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := svc.BuildPlan(context.Background(), "500", "global-risk-off")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range a.Lines {
		if a.Lines[i].FinalWeight != b.Lines[i].FinalWeight ||
			a.Lines[i].DollarAmount != b.Lines[i].DollarAmount ||
			a.Lines[i].Units != b.Lines[i].Units {
			t.Fatalf("plans differ at line %d: %+v vs %+v", i, a.Lines[i], b.Lines[i])
		}
	}
}

func TestPlanServiceBasketSignalsCollectsFailures(t *testing.T) {
	source := neutralSource()
	source.errs = map[string]error{"SCHD": domain.ErrDataUnavailable}
	svc := NewPlanService(testTracer, source, domain.DefaultBasket)

	sigs, failures := svc.BasketSignals(context.Background())
	if len(sigs) != 2 {
		t.Fatalf("expected 2 signals, got %d", len(sigs))
	}
	if !errors.Is(failures["SCHD"], domain.ErrDataUnavailable) {
		t.Fatalf("expected SCHD failure recorded, got %v", failures)
	}
}
