package repository

import (
	"context"
	"time"

	"steady-drip/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/trace"
)

const createDailyBarsTable = `
CREATE TABLE IF NOT EXISTS daily_bars (
    ticker   TEXT        NOT NULL,
    day      DATE        NOT NULL,
    close    NUMERIC     NOT NULL,
    high     NUMERIC     NOT NULL,
    PRIMARY KEY (ticker, day)
);

CREATE INDEX IF NOT EXISTS idx_daily_bars_ticker_day
    ON daily_bars (ticker, day DESC);
`

type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// BarRepository stores fetched daily bars in Postgres. It is an audit
// trail and the backing for the history endpoint, never a price source.
type BarRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewBarRepository(pool PgxPool, tracer trace.Tracer) *BarRepository {
	return &BarRepository{pool: pool, tracer: tracer}
}

func (r *BarRepository) RunMigrations(ctx context.Context) error {
	_, span := r.tracer.Start(ctx, "bar-repo.run-migrations")
	defer span.End()

	_, err := r.pool.Exec(ctx, createDailyBarsTable)
	return err
}

func (r *BarRepository) UpsertBars(ctx context.Context, bars domain.Series) error {
	if len(bars) == 0 {
		return nil
	}

	_, span := r.tracer.Start(ctx, "bar-repo.upsert-bars")
	defer span.End()

	batch := &pgx.Batch{}
	for _, b := range bars {
		batch.Queue(
			`INSERT INTO daily_bars (ticker, day, close, high)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (ticker, day) DO UPDATE SET
			     close = EXCLUDED.close,
			     high = EXCLUDED.high`,
			b.Ticker, b.Day, b.Close, b.High,
		)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range bars {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// GetBars returns up to limit most recent bars for a ticker, ascending.
func (r *BarRepository) GetBars(ctx context.Context, ticker string, limit int) (domain.Series, error) {
	_, span := r.tracer.Start(ctx, "bar-repo.get-bars")
	defer span.End()

	if limit <= 0 {
		limit = domain.MinHistory
	}

	rows, err := r.pool.Query(ctx,
		`SELECT ticker, day, close, high
		 FROM (
		     SELECT ticker, day, close, high
		     FROM daily_bars
		     WHERE ticker = $1
		     ORDER BY day DESC
		     LIMIT $2
		 ) recent
		 ORDER BY day ASC`,
		ticker, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bars domain.Series
	for rows.Next() {
		var b domain.Bar
		var day time.Time
		if err := rows.Scan(&b.Ticker, &day, &b.Close, &b.High); err != nil {
			return nil, err
		}
		b.Day = day.UTC()
		bars = append(bars, b)
	}
	return bars, rows.Err()
}
