package advisor

import (
	"fmt"
	"strings"

	"steady-drip/internal/domain"
)

const systemPrompt = `You are a calm, plain-spoken assistant for a personal ` +
	`dollar-cost-averaging tool. Given this month's allocation table, explain in ` +
	`at most four sentences why the weights drifted from their targets, citing the ` +
	`signals shown. Do not give investment advice beyond describing the table. ` +
	`Do not invent numbers.`

// FormatPlanContext renders the plan as the LLM's user message.
func FormatPlanContext(plan *domain.AllocationPlan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Cash: $%.2f, regime: %s\n", plan.Cash, plan.Regime)
	for _, line := range plan.Lines {
		fmt.Fprintf(&b,
			"%s: price $%.2f, drawdown %.1f%%, sma distance %.1f%%, z-score %.2f, volatility %.1f%%, target %.0f%%, final %.1f%%, invest $%.2f (%.3f units), status %s, source %s\n",
			line.Ticker, line.Price, line.Drawdown*100, line.SMADistance*100,
			line.ZScore, line.Volatility*100, line.TargetWeight*100,
			line.FinalWeight*100, line.DollarAmount, line.Units, line.Status, line.Source)
	}
	return b.String()
}

// TemplateCommentary is the deterministic fallback.
func TemplateCommentary(plan *domain.AllocationPlan) string {
	var over, under []string
	for _, line := range plan.Lines {
		switch line.Status {
		case domain.StatusOpportunity:
			over = append(over, line.Ticker)
		case domain.StatusTrimmed:
			under = append(under, line.Ticker)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Allocating $%.2f under the %s regime.", plan.Cash, plan.Regime)
	if len(over) > 0 {
		fmt.Fprintf(&b, " Overweighting %s on discount signals.", strings.Join(over, ", "))
	}
	if len(under) > 0 {
		fmt.Fprintf(&b, " Trimming %s on rich or volatile readings.", strings.Join(under, ", "))
	}
	if len(over) == 0 && len(under) == 0 {
		b.WriteString(" All assets stay near their target weights.")
	}
	return b.String()
}
