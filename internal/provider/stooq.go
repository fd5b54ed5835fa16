package provider

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"steady-drip/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const (
	stooqBaseURL = "https://stooq.com/q/d/l/"

	// Stooq identifies US-listed symbols with an exchange suffix.
	stooqUSSuffix = ".us"
)

// StooqProvider fetches daily history from Stooq's CSV download endpoint.
// It is the secondary, independent source: different operator and a
// different transport (CSV rather than JSON).
type StooqProvider struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
	limiter *RateLimiter
}

// NewStooqProvider creates the provider. Stooq throttles aggressively, so
// the limiter is conservative (6 requests per minute).
func NewStooqProvider(tracer trace.Tracer) *StooqProvider {
	return &StooqProvider{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: stooqBaseURL,
		tracer:  tracer,
		limiter: NewRateLimiter(6, 10*time.Second),
	}
}

// Name identifies this source on AssetSignals for auditability.
func (p *StooqProvider) Name() string { return "stooq" }

// symbolFor maps an internal ticker to Stooq's notation.
func symbolFor(ticker string) string {
	return strings.ToLower(ticker) + stooqUSSuffix
}

// FetchDailyHistory downloads the daily CSV for a ticker and returns the
// bars inside the lookback window, ascending.
func (p *StooqProvider) FetchDailyHistory(ctx context.Context, ticker string, lookbackDays int) (domain.Series, error) {
	_, span := p.tracer.Start(ctx, "stooq.fetch-daily-history")
	defer span.End()

	url := fmt.Sprintf("%s?s=%s&i=d", p.baseURL, symbolFor(ticker))

	body, err := p.doRequest(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch history for %s: %w", ticker, err)
	}

	series, err := parseStooqCSV(ticker, body, lookbackDays)
	if err != nil {
		return nil, fmt.Errorf("parse history for %s: %w", ticker, err)
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("no usable bars for %s", ticker)
	}
	return series, nil
}

// parseStooqCSV reads Stooq's Date,Open,High,Low,Close,Volume layout.
// Rows are already chronologically ascending.
func parseStooqCSV(ticker string, body []byte, lookbackDays int) (domain.Series, error) {
	reader := csv.NewReader(strings.NewReader(string(body)))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) < 5 || !strings.EqualFold(header[0], "Date") {
		return nil, fmt.Errorf("unexpected CSV header: %v", header)
	}

	cutoff := time.Now().AddDate(0, 0, -lookbackDays)
	var series domain.Series
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if len(record) < 5 {
			continue
		}

		day, err := time.Parse("2006-01-02", record[0])
		if err != nil {
			continue
		}
		if day.Before(cutoff) {
			continue
		}
		high, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			continue
		}
		closePx, err := strconv.ParseFloat(record[4], 64)
		if err != nil {
			continue
		}

		series = append(series, domain.Bar{
			Ticker: ticker,
			Day:    day.UTC(),
			Close:  closePx,
			High:   high,
		})
	}

	return series, nil
}

func (p *StooqProvider) doRequest(ctx context.Context, url string) ([]byte, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "steady-drip/1.0")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("stooq API error %d: %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}
