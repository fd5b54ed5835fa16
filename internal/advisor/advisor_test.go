package advisor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"steady-drip/internal/domain"

	"github.com/openai/openai-go"
	"go.opentelemetry.io/otel/trace"
)

var testTracer = trace.NewNoopTracerProvider().Tracer("advisor-test")

type stubLLM struct {
	reply string
	err   error
}

func (s stubLLM) CreateChatCompletion(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &openai.ChatCompletion{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: s.reply}},
		},
	}, nil
}

func samplePlan() *domain.AllocationPlan {
	return &domain.AllocationPlan{
		Cash:   500,
		Regime: domain.RegimeBalanced,
		Lines: []domain.PlanLine{
			{Ticker: "SPYM", FinalWeight: 0.72, TargetWeight: 0.60, DollarAmount: 360, Status: domain.StatusOpportunity},
			{Ticker: "SCHD", FinalWeight: 0.18, TargetWeight: 0.25, DollarAmount: 90, Status: domain.StatusTrimmed},
			{Ticker: "VEA", FinalWeight: 0.10, TargetWeight: 0.15, DollarAmount: 50, Status: domain.StatusBalanced},
		},
	}
}

func TestExplainPlanUsesLLM(t *testing.T) {
	svc := NewAdvisorService(testTracer, stubLLM{reply: "SPYM is on sale."}, "gpt-4o-mini")
	got := svc.ExplainPlan(context.Background(), samplePlan())
	if got != "SPYM is on sale." {
		t.Fatalf("expected LLM reply, got %q", got)
	}
}

func TestExplainPlanFallsBackOnError(t *testing.T) {
	svc := NewAdvisorService(testTracer, stubLLM{err: errors.New("boom")}, "gpt-4o-mini")
	got := svc.ExplainPlan(context.Background(), samplePlan())
	if !strings.Contains(got, "Overweighting SPYM") || !strings.Contains(got, "Trimming SCHD") {
		t.Fatalf("expected template fallback, got %q", got)
	}
}

func TestExplainPlanWithoutLLM(t *testing.T) {
	svc := NewAdvisorService(testTracer, nil, "")
	got := svc.ExplainPlan(context.Background(), samplePlan())
	if !strings.Contains(got, "$500.00") {
		t.Fatalf("expected template commentary, got %q", got)
	}
}

func TestTemplateCommentaryNeutral(t *testing.T) {
	plan := samplePlan()
	for i := range plan.Lines {
		plan.Lines[i].Status = domain.StatusBalanced
	}
	got := TemplateCommentary(plan)
	if !strings.Contains(got, "near their target weights") {
		t.Fatalf("expected neutral wording, got %q", got)
	}
}

func TestFormatPlanContextMentionsEveryTicker(t *testing.T) {
	got := FormatPlanContext(samplePlan())
	for _, ticker := range []string{"SPYM", "SCHD", "VEA"} {
		if !strings.Contains(got, ticker) {
			t.Fatalf("context missing %s: %q", ticker, got)
		}
	}
}
