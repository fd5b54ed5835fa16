package domain

import "testing"

func TestDefaultBasketValid(t *testing.T) {
	if err := DefaultBasket.Validate(); err != nil {
		t.Fatalf("default basket should validate: %v", err)
	}
}

func TestBasketValidateRejectsBadWeights(t *testing.T) {
	tests := map[string]Basket{
		"empty":        {},
		"zero weight":  {{Ticker: "A", TargetWeight: 0}, {Ticker: "B", TargetWeight: 1.0}},
		"over one":     {{Ticker: "A", TargetWeight: 1.2}},
		"sum not one":  {{Ticker: "A", TargetWeight: 0.5}, {Ticker: "B", TargetWeight: 0.4}},
		"duplicate":    {{Ticker: "A", TargetWeight: 0.5}, {Ticker: "A", TargetWeight: 0.5}},
		"empty ticker": {{Ticker: "", TargetWeight: 1.0}},
	}
	for name, basket := range tests {
		if err := basket.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestBasketTickersOrder(t *testing.T) {
	got := DefaultBasket.Tickers()
	want := []string{"SPYM", "SCHD", "VEA"}
	if len(got) != len(want) {
		t.Fatalf("expected %d tickers, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ticker %d: expected %s, got %s", i, want[i], got[i])
		}
	}
	if !DefaultBasket.Contains("SCHD") || DefaultBasket.Contains("BTC") {
		t.Fatal("Contains misbehaved")
	}
}
