package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"steady-drip/internal/domain"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
)

var testTracer = trace.NewNoopTracerProvider().Tracer("service-test")

type fakeSource struct {
	name   string
	series domain.Series
	err    error
	calls  int
}

func (f *fakeSource) FetchDailyHistory(ctx context.Context, ticker string, lookbackDays int) (domain.Series, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.series, nil
}

func (f *fakeSource) Name() string { return f.name }

type fakeBarStore struct {
	upserts int
	bars    domain.Series
	err     error
}

func (f *fakeBarStore) UpsertBars(ctx context.Context, bars domain.Series) error {
	f.upserts++
	f.bars = bars
	return f.err
}

func (f *fakeBarStore) GetBars(ctx context.Context, ticker string, limit int) (domain.Series, error) {
	return f.bars, f.err
}

type fakeRedis struct {
	data   map[string][]byte
	setErr error
	getErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: make(map[string][]byte)}
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}
	switch v := value.(type) {
	case []byte:
		f.data[key] = append([]byte(nil), v...)
	case string:
		f.data[key] = []byte(v)
	default:
		bytes, _ := json.Marshal(v)
		f.data[key] = bytes
	}
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	if v, ok := f.data[key]; ok {
		return redis.NewStringResult(string(v), nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

func validSeries(ticker string, n int) domain.Series {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	series := make(domain.Series, n)
	for i := 0; i < n; i++ {
		series[i] = domain.Bar{Ticker: ticker, Day: start.AddDate(0, 0, i), Close: 100, High: 101}
	}
	return series
}

func newHistoryService(primary, secondary HistorySource, store BarStore, r RedisClient) *HistoryService {
	return NewHistoryService(testTracer, primary, secondary, store, r, 365, time.Hour, 2, time.Millisecond)
}

func TestHistoryServicePrimaryServes(t *testing.T) {
	primary := &fakeSource{name: "yahoo", series: validSeries("SPYM", 250)}
	secondary := &fakeSource{name: "stooq"}
	store := &fakeBarStore{}
	svc := newHistoryService(primary, secondary, store, newFakeRedis())

	sig, err := svc.GetSignals(context.Background(), "SPYM")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sig.Source != "yahoo" {
		t.Fatalf("expected yahoo source, got %s", sig.Source)
	}
	if secondary.calls != 0 {
		t.Fatal("secondary should not be called when primary serves")
	}
	if store.upserts != 1 {
		t.Fatalf("expected one write-through upsert, got %d", store.upserts)
	}
}

func TestHistoryServiceRetriesThenFallsBack(t *testing.T) {
	primary := &fakeSource{name: "yahoo", err: errors.New("connection reset")}
	secondary := &fakeSource{name: "stooq", series: validSeries("SCHD", 220)}
	svc := newHistoryService(primary, secondary, &fakeBarStore{}, newFakeRedis())

	sig, err := svc.GetSignals(context.Background(), "SCHD")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if primary.calls != 2 {
		t.Fatalf("expected 2 primary attempts, got %d", primary.calls)
	}
	if sig.Source != "stooq" {
		t.Fatalf("expected fallback source, got %s", sig.Source)
	}
}

func TestHistoryServiceShortPrimarySkipsRetry(t *testing.T) {
	primary := &fakeSource{name: "yahoo", series: validSeries("VEA", 50)}
	secondary := &fakeSource{name: "stooq", series: validSeries("VEA", 220)}
	svc := newHistoryService(primary, secondary, &fakeBarStore{}, newFakeRedis())

	sig, err := svc.GetSignals(context.Background(), "VEA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if primary.calls != 1 {
		t.Fatalf("short series is not transient, expected 1 primary call, got %d", primary.calls)
	}
	if sig.Source != "stooq" {
		t.Fatalf("expected fallback source, got %s", sig.Source)
	}
}

func TestHistoryServiceBothSourcesFail(t *testing.T) {
	primary := &fakeSource{name: "yahoo", err: errors.New("down")}
	secondary := &fakeSource{name: "stooq", series: validSeries("VEA", 10)}
	svc := newHistoryService(primary, secondary, &fakeBarStore{}, newFakeRedis())

	_, err := svc.GetSignals(context.Background(), "VEA")
	if !errors.Is(err, domain.ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable, got %v", err)
	}
}

func TestHistoryServiceCacheHitSkipsFetch(t *testing.T) {
	r := newFakeRedis()
	cached := domain.AssetSignals{Ticker: "SPYM", Price: 99, Source: "yahoo"}
	data, _ := json.Marshal(cached)
	_ = r.Set(context.Background(), "signals:SPYM", data, 0)

	primary := &fakeSource{name: "yahoo", err: errors.New("should not be called")}
	svc := newHistoryService(primary, &fakeSource{name: "stooq"}, &fakeBarStore{}, r)

	sig, err := svc.GetSignals(context.Background(), "SPYM")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sig.Price != 99 {
		t.Fatalf("expected cached signals, got %+v", sig)
	}
	if primary.calls != 0 {
		t.Fatal("cache hit must not fetch")
	}
}

func TestHistoryServiceCachesAfterFetch(t *testing.T) {
	r := newFakeRedis()
	primary := &fakeSource{name: "yahoo", series: validSeries("SPYM", 250)}
	svc := newHistoryService(primary, &fakeSource{name: "stooq"}, &fakeBarStore{}, r)

	if _, err := svc.GetSignals(context.Background(), "SPYM"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := r.data["signals:SPYM"]; !ok {
		t.Fatal("signals not cached")
	}

	if _, err := svc.GetSignals(context.Background(), "SPYM"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if primary.calls != 1 {
		t.Fatalf("second call should hit cache, got %d fetches", primary.calls)
	}
}

func TestHistoryServiceStoreErrorIsNonFatal(t *testing.T) {
	primary := &fakeSource{name: "yahoo", series: validSeries("SPYM", 250)}
	store := &fakeBarStore{err: errors.New("pg down")}
	svc := newHistoryService(primary, &fakeSource{name: "stooq"}, store, newFakeRedis())

	if _, err := svc.GetSignals(context.Background(), "SPYM"); err != nil {
		t.Fatalf("store failure must not fail the request: %v", err)
	}
}
