package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"steady-drip/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const yahooBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"

// YahooProvider fetches daily close/high history from the Yahoo Finance
// v8 chart API. It is the primary history source.
type YahooProvider struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
	limiter *RateLimiter
}

// NewYahooProvider creates the provider with built-in rate limiting.
// Rate limited to 10 requests per minute (one token every 6 seconds).
func NewYahooProvider(tracer trace.Tracer) *YahooProvider {
	return &YahooProvider{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: yahooBaseURL,
		tracer:  tracer,
		limiter: NewRateLimiter(10, 6*time.Second),
	}
}

// Name identifies this source on AssetSignals for auditability.
func (p *YahooProvider) Name() string { return "yahoo" }

// FetchDailyHistory returns ascending daily bars covering the lookback
// window. The chart API is asked for whole years to keep the request
// cacheable server-side.
func (p *YahooProvider) FetchDailyHistory(ctx context.Context, ticker string, lookbackDays int) (domain.Series, error) {
	_, span := p.tracer.Start(ctx, "yahoo.fetch-daily-history")
	defer span.End()

	years := (lookbackDays + 364) / 365
	if years < 1 {
		years = 1
	}
	url := fmt.Sprintf("%s/%s?range=%dy&interval=1d", p.baseURL, ticker, years)

	body, err := p.doRequest(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch history for %s: %w", ticker, err)
	}

	var raw struct {
		Chart struct {
			Result []struct {
				Timestamp  []int64 `json:"timestamp"`
				Indicators struct {
					Quote []struct {
						Close []*float64 `json:"close"`
						High  []*float64 `json:"high"`
					} `json:"quote"`
				} `json:"indicators"`
			} `json:"result"`
			Error *struct {
				Code        string `json:"code"`
				Description string `json:"description"`
			} `json:"error"`
		} `json:"chart"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse history for %s: %w", ticker, err)
	}
	if raw.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo chart error for %s: %s", ticker, raw.Chart.Error.Code)
	}
	if len(raw.Chart.Result) == 0 || len(raw.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("empty chart result for %s", ticker)
	}

	result := raw.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	cutoff := time.Now().AddDate(0, 0, -lookbackDays)
	series := make(domain.Series, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || i >= len(quote.High) {
			break
		}
		// Nil slots are holidays/suspensions; skip them.
		if quote.Close[i] == nil || quote.High[i] == nil {
			continue
		}
		day := time.Unix(ts, 0).UTC().Truncate(24 * time.Hour)
		if day.Before(cutoff) {
			continue
		}
		series = append(series, domain.Bar{
			Ticker: ticker,
			Day:    day,
			Close:  *quote.Close[i],
			High:   *quote.High[i],
		})
	}

	if len(series) == 0 {
		return nil, fmt.Errorf("no usable bars for %s", ticker)
	}
	return series, nil
}

func (p *YahooProvider) doRequest(ctx context.Context, url string) ([]byte, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "steady-drip/1.0")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("yahoo API error %d: %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}
