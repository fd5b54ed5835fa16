package service

import (
	"context"
	"fmt"
	"time"

	"steady-drip/internal/allocation"
	"steady-drip/internal/domain"
	"steady-drip/internal/tilt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// SignalSource provides per-ticker signals for the configured basket.
type SignalSource interface {
	GetSignals(ctx context.Context, ticker string) (domain.AssetSignals, error)
}

// PlanService runs the full allocation pipeline: parse input, gather
// signals, tilt, translate.
type PlanService struct {
	tracer trace.Tracer
	source SignalSource
	basket domain.Basket
}

func NewPlanService(tracer trace.Tracer, source SignalSource, basket domain.Basket) *PlanService {
	return &PlanService{tracer: tracer, source: source, basket: basket}
}

// Basket exposes the configured basket for the outer surfaces.
func (s *PlanService) Basket() domain.Basket { return s.basket }

// BuildPlan computes this period's allocation from free-text cash and a
// regime selection. Per-ticker fetch errors are collected so the caller
// can report exactly which tickers failed; any missing ticker aborts the
// whole plan (fail-closed).
func (s *PlanService) BuildPlan(ctx context.Context, cashText, regimeText string) (*domain.AllocationPlan, error) {
	ctx, span := s.tracer.Start(ctx, "plan-service.build-plan")
	defer span.End()

	regime, err := domain.ParseRegime(regimeText)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("regime", string(regime)))

	cash, err := allocation.ParseCash(cashText)
	if err != nil {
		return nil, err
	}
	if cash <= 0 {
		return nil, fmt.Errorf("cash must be positive: %w", domain.ErrInvalidCash)
	}
	span.SetAttributes(attribute.Float64("cash", cash))

	sigs := make(map[string]domain.AssetSignals, len(s.basket))
	missing := make([]string, 0)
	reasons := make(map[string]error)
	for _, spec := range s.basket {
		sig, err := s.source.GetSignals(ctx, spec.Ticker)
		if err != nil {
			missing = append(missing, spec.Ticker)
			reasons[spec.Ticker] = err
			continue
		}
		sigs[spec.Ticker] = sig
	}
	if len(missing) > 0 {
		err := &domain.IncompleteBasketError{Missing: missing, Reasons: reasons}
		span.RecordError(err)
		return nil, err
	}

	weights, err := tilt.Compute(s.basket, sigs, regime.Adjustments())
	if err != nil {
		return nil, err
	}

	return allocation.BuildPlan(s.basket, weights, sigs, cash, regime, time.Now()), nil
}

// BasketSignals returns signals for every configured ticker, collecting
// per-ticker errors instead of stopping at the first failure.
func (s *PlanService) BasketSignals(ctx context.Context) ([]domain.AssetSignals, map[string]error) {
	ctx, span := s.tracer.Start(ctx, "plan-service.basket-signals")
	defer span.End()

	out := make([]domain.AssetSignals, 0, len(s.basket))
	failures := make(map[string]error)
	for _, spec := range s.basket {
		sig, err := s.source.GetSignals(ctx, spec.Ticker)
		if err != nil {
			failures[spec.Ticker] = err
			continue
		}
		out = append(out, sig)
	}
	return out, failures
}
