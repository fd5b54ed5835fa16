// Package signals derives per-asset statistics from a daily price series.
//
// Standard-deviation convention: sample standard deviation (n-1 divisor,
// gonum stat.StdDev) everywhere — for the trailing-window deviation that
// feeds the z-score and for the annualized volatility — so the two stay
// numerically consistent.
package signals

import (
	"fmt"
	"math"

	"steady-drip/internal/domain"

	"gonum.org/v1/gonum/stat"
)

// longWindow is the trailing window for the moving average and its
// deviation, in observations.
const longWindow = 200

// tradingDaysPerYear annualizes daily return volatility.
const tradingDaysPerYear = 252

// Compute derives AssetSignals from an ascending daily series. Fails with
// domain.ErrInsufficientHistory when the series is shorter than
// domain.MinHistory.
func Compute(ticker string, series domain.Series, source string) (domain.AssetSignals, error) {
	if len(series) < domain.MinHistory {
		return domain.AssetSignals{}, fmt.Errorf("%s: %d of %d observations: %w",
			ticker, len(series), domain.MinHistory, domain.ErrInsufficientHistory)
	}

	closes := series.Closes()
	price := closes[len(closes)-1]

	window := closes[len(closes)-longWindow:]
	smaLong := stat.Mean(window, nil)
	stdLong := stat.StdDev(window, nil)

	highWindow := series.MaxHigh()

	var drawdown float64
	if highWindow > 0 {
		drawdown = (price - highWindow) / highWindow
	}

	var smaDistance float64
	if smaLong != 0 {
		smaDistance = (price - smaLong) / smaLong
	}

	// Zero variance is a valid flat series, not an error.
	var zScore float64
	if stdLong > 0 {
		zScore = (price - smaLong) / stdLong
	}

	return domain.AssetSignals{
		Ticker:      ticker,
		Price:       price,
		SMALong:     smaLong,
		StdLong:     stdLong,
		HighWindow:  highWindow,
		Drawdown:    drawdown,
		SMADistance: smaDistance,
		ZScore:      zScore,
		Volatility:  annualizedVolatility(closes),
		Source:      source,
	}, nil
}

// annualizedVolatility is the sample std-dev of daily percentage returns
// scaled by sqrt(252). The first (undefined) return is dropped.
func annualizedVolatility(closes []float64) float64 {
	if len(closes) < 2 {
		return 0
	}
	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			continue
		}
		returns = append(returns, closes[i]/closes[i-1]-1)
	}
	if len(returns) < 2 {
		return 0
	}
	return stat.StdDev(returns, nil) * math.Sqrt(tradingDaysPerYear)
}
