package job

import (
	"context"
	"log"
	"time"

	"steady-drip/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

// SignalRefresher periodically re-warms the signal cache for the
// configured basket so interactive requests rarely pay for a fetch.
type SignalRefresher struct {
	tracer   trace.Tracer
	history  HistoryRefresher
	basket   domain.Basket
	interval time.Duration
}

type HistoryRefresher interface {
	Refresh(ctx context.Context, ticker string) error
}

func NewSignalRefresher(tracer trace.Tracer, history HistoryRefresher, basket domain.Basket, intervalSecs int) *SignalRefresher {
	return &SignalRefresher{
		tracer:   tracer,
		history:  history,
		basket:   basket,
		interval: time.Duration(intervalSecs) * time.Second,
	}
}

// Start blocks until ctx is cancelled, refreshing the whole basket once
// per interval. Tickers are spaced out to stay friendly to the providers.
func (r *SignalRefresher) Start(ctx context.Context) {
	log.Println("Signal refresher starting...")

	r.refreshBasket(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Signal refresher stopped")
			return
		case <-ticker.C:
			r.refreshBasket(ctx)
		}
	}
}

func (r *SignalRefresher) refreshBasket(ctx context.Context) {
	_, span := r.tracer.Start(ctx, "signal-refresher.refresh-basket")
	defer span.End()

	for i, spec := range r.basket {
		if i > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(2 * time.Second):
			}
		}
		if err := r.history.Refresh(ctx, spec.Ticker); err != nil {
			log.Printf("signal refresh error for %s: %v", spec.Ticker, err)
		}
	}
}
