package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"steady-drip/internal/domain"
	"steady-drip/internal/signals"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

// HistorySource is one upstream daily-price provider.
type HistorySource interface {
	FetchDailyHistory(ctx context.Context, ticker string, lookbackDays int) (domain.Series, error)
	Name() string
}

// BarStore persists fetched daily bars (audit/history, never a fallback
// data source).
type BarStore interface {
	UpsertBars(ctx context.Context, bars domain.Series) error
	GetBars(ctx context.Context, ticker string, limit int) (domain.Series, error)
}

type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// HistoryService acquires price history with primary→secondary fallback
// and serves computed signals through a bounded-TTL cache.
type HistoryService struct {
	tracer       trace.Tracer
	primary      HistorySource
	secondary    HistorySource
	store        BarStore
	redis        RedisClient
	lookbackDays int
	cacheTTL     time.Duration
	retries      int
	retryDelay   time.Duration
	group        singleflight.Group
}

func NewHistoryService(
	tracer trace.Tracer,
	primary, secondary HistorySource,
	store BarStore,
	redisClient RedisClient,
	lookbackDays int,
	cacheTTL time.Duration,
	retries int,
	retryDelay time.Duration,
) *HistoryService {
	if lookbackDays < 365 {
		lookbackDays = 365
	}
	if retries < 1 {
		retries = 1
	}
	return &HistoryService{
		tracer:       tracer,
		primary:      primary,
		secondary:    secondary,
		store:        store,
		redis:        redisClient,
		lookbackDays: lookbackDays,
		cacheTTL:     cacheTTL,
		retries:      retries,
		retryDelay:   retryDelay,
	}
}

// GetSignals returns fresh-or-cached signals for one ticker. Concurrent
// calls for the same ticker share a single fetch.
func (s *HistoryService) GetSignals(ctx context.Context, ticker string) (domain.AssetSignals, error) {
	ctx, span := s.tracer.Start(ctx, "history-service.get-signals")
	defer span.End()
	span.SetAttributes(attribute.String("ticker", ticker))

	if s.redis != nil {
		cached, err := s.getSignalsCache(ctx, ticker)
		if err != nil {
			log.Printf("redis cache read error for %s: %v", ticker, err)
		}
		if cached != nil {
			return *cached, nil
		}
	}

	v, err, _ := s.group.Do(ticker, func() (interface{}, error) {
		return s.fetchAndCompute(ctx, ticker)
	})
	if err != nil {
		return domain.AssetSignals{}, err
	}
	return v.(domain.AssetSignals), nil
}

// GetBars serves stored daily bars for the history endpoint.
func (s *HistoryService) GetBars(ctx context.Context, ticker string, limit int) (domain.Series, error) {
	if s.store == nil {
		return nil, domain.ErrDataUnavailable
	}
	return s.store.GetBars(ctx, ticker, limit)
}

// Refresh forces a fetch for a ticker and re-warms the cache. Used by the
// background refresher.
func (s *HistoryService) Refresh(ctx context.Context, ticker string) error {
	ctx, span := s.tracer.Start(ctx, "history-service.refresh")
	defer span.End()
	span.SetAttributes(attribute.String("ticker", ticker))

	_, err := s.fetchAndCompute(ctx, ticker)
	return err
}

func (s *HistoryService) fetchAndCompute(ctx context.Context, ticker string) (domain.AssetSignals, error) {
	series, source, err := s.fetchSeries(ctx, ticker)
	if err != nil {
		return domain.AssetSignals{}, err
	}

	sig, err := signals.Compute(ticker, series, source)
	if err != nil {
		return domain.AssetSignals{}, err
	}

	// Best effort: losing the audit trail must not fail the request.
	if s.store != nil {
		if err := s.store.UpsertBars(ctx, series); err != nil {
			log.Printf("bar store write error for %s: %v", ticker, err)
		}
	}
	if s.redis != nil {
		if err := s.setSignalsCache(ctx, sig); err != nil {
			log.Printf("redis cache write error for %s: %v", ticker, err)
		}
	}

	log.Printf("Signals for %s served by %s (%d bars)", ticker, source, len(series))
	return sig, nil
}

// fetchSeries tries the primary source with bounded retries, then falls
// back to the secondary. A series under domain.MinHistory observations
// counts as a failed attempt.
func (s *HistoryService) fetchSeries(ctx context.Context, ticker string) (domain.Series, string, error) {
	ctx, span := s.tracer.Start(ctx, "history-service.fetch-series")
	defer span.End()

	var lastErr error
	for attempt := 1; attempt <= s.retries; attempt++ {
		series, err := s.primary.FetchDailyHistory(ctx, ticker, s.lookbackDays)
		if err == nil {
			if len(series) >= domain.MinHistory {
				span.SetAttributes(attribute.String("source", s.primary.Name()))
				return series, s.primary.Name(), nil
			}
			// Too short is not transient; go straight to the fallback.
			lastErr = fmt.Errorf("%s returned %d of %d observations for %s: %w",
				s.primary.Name(), len(series), domain.MinHistory, ticker, domain.ErrInsufficientHistory)
			break
		}
		lastErr = err
		log.Printf("primary %s attempt %d/%d failed for %s: %v", s.primary.Name(), attempt, s.retries, ticker, err)
		if attempt < s.retries {
			select {
			case <-ctx.Done():
				return nil, "", ctx.Err()
			case <-time.After(s.retryDelay):
			}
		}
	}

	series, err := s.secondary.FetchDailyHistory(ctx, ticker, s.lookbackDays)
	if err == nil && len(series) >= domain.MinHistory {
		span.SetAttributes(attribute.String("source", s.secondary.Name()))
		log.Printf("fell back to %s for %s", s.secondary.Name(), ticker)
		return series, s.secondary.Name(), nil
	}
	if err == nil {
		err = fmt.Errorf("%s returned %d of %d observations for %s: %w",
			s.secondary.Name(), len(series), domain.MinHistory, ticker, domain.ErrInsufficientHistory)
	}

	span.RecordError(err)
	return nil, "", fmt.Errorf("%s: all sources failed (primary: %v; secondary: %v): %w",
		ticker, lastErr, err, domain.ErrDataUnavailable)
}

func (s *HistoryService) setSignalsCache(ctx context.Context, sig domain.AssetSignals) error {
	data, err := json.Marshal(sig)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, "signals:"+sig.Ticker, data, s.cacheTTL).Err()
}

func (s *HistoryService) getSignalsCache(ctx context.Context, ticker string) (*domain.AssetSignals, error) {
	data, err := s.redis.Get(ctx, "signals:"+ticker).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var sig domain.AssetSignals
	if err := json.Unmarshal(data, &sig); err != nil {
		return nil, err
	}
	return &sig, nil
}
