package signals

import (
	"errors"
	"math"
	"testing"
	"time"

	"steady-drip/internal/domain"
)

func flatSeries(ticker string, n int, price float64) domain.Series {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	series := make(domain.Series, n)
	for i := 0; i < n; i++ {
		series[i] = domain.Bar{
			Ticker: ticker,
			Day:    start.AddDate(0, 0, i),
			Close:  price,
			High:   price,
		}
	}
	return series
}

func TestComputeRejectsShortSeries(t *testing.T) {
	_, err := Compute("SPYM", flatSeries("SPYM", domain.MinHistory-1, 100), "yahoo")
	if !errors.Is(err, domain.ErrInsufficientHistory) {
		t.Fatalf("expected ErrInsufficientHistory, got %v", err)
	}
}

func TestComputeFlatSeries(t *testing.T) {
	sig, err := Compute("SPYM", flatSeries("SPYM", 250, 100), "yahoo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sig.Price != 100 || sig.SMALong != 100 || sig.HighWindow != 100 {
		t.Fatalf("unexpected levels: %+v", sig)
	}
	if sig.Drawdown != 0 || sig.SMADistance != 0 || sig.Volatility != 0 {
		t.Fatalf("flat series should be all-neutral: %+v", sig)
	}
	// Zero variance must yield z-score 0, not NaN or an error.
	if sig.ZScore != 0 {
		t.Fatalf("expected z-score 0 on zero variance, got %f", sig.ZScore)
	}
	if sig.Source != "yahoo" {
		t.Fatalf("source not recorded: %q", sig.Source)
	}
}

func TestComputeDrawdownAndDistance(t *testing.T) {
	series := flatSeries("SCHD", 250, 100)
	// A historical spike to 125 and a last close of 90.
	series[100].High = 125
	series[len(series)-1].Close = 90

	sig, err := Compute("SCHD", series, "stooq")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantDrawdown := (90.0 - 125.0) / 125.0
	if math.Abs(sig.Drawdown-wantDrawdown) > 1e-12 {
		t.Fatalf("expected drawdown %f, got %f", wantDrawdown, sig.Drawdown)
	}
	if sig.Drawdown > 0 {
		t.Fatal("drawdown must be non-positive")
	}
	if sig.SMADistance >= 0 {
		t.Fatalf("price below average should give negative distance, got %f", sig.SMADistance)
	}
	if sig.ZScore >= 0 {
		t.Fatalf("price below mean should give negative z-score, got %f", sig.ZScore)
	}
}

func TestComputeZScoreMatchesStdConvention(t *testing.T) {
	series := flatSeries("VEA", 250, 100)
	for i := range series {
		if i%2 == 0 {
			series[i].Close = 102
		} else {
			series[i].Close = 98
		}
	}
	sig, err := Compute("VEA", series, "yahoo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sig.StdLong <= 0 {
		t.Fatalf("expected positive std, got %f", sig.StdLong)
	}
	want := (sig.Price - sig.SMALong) / sig.StdLong
	if math.Abs(sig.ZScore-want) > 1e-12 {
		t.Fatalf("z-score %f inconsistent with std_long, want %f", sig.ZScore, want)
	}
}

func TestComputeVolatilityAnnualized(t *testing.T) {
	series := flatSeries("SPYM", 250, 100)
	// Alternate +1%/-1% daily moves: annualized vol near 0.01*sqrt(252).
	px := 100.0
	for i := range series {
		if i%2 == 0 {
			px *= 1.01
		} else {
			px *= 0.99
		}
		series[i].Close = px
		series[i].High = px
	}
	sig, err := Compute("SPYM", series, "yahoo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	approx := 0.01 * math.Sqrt(252)
	if sig.Volatility < approx*0.9 || sig.Volatility > approx*1.1 {
		t.Fatalf("volatility %f not near %f", sig.Volatility, approx)
	}
}

func TestComputeIdempotent(t *testing.T) {
	series := flatSeries("SPYM", 260, 100)
	series[10].High = 130
	series[len(series)-1].Close = 95

	a, err := Compute("SPYM", series, "yahoo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Compute("SPYM", series, "yahoo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a != b {
		t.Fatalf("expected bit-identical signals, got %+v vs %+v", a, b)
	}
}
