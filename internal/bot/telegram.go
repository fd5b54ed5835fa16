package bot

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"steady-drip/internal/domain"
	"steady-drip/internal/service"

	tele "gopkg.in/telebot.v3"
)

func StartTelegramBot(planService *service.PlanService, historyService *service.HistoryService) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		log.Println("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return
	}
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		log.Fatalf("failed to create Telegram bot: %v", err)
	}

	basket := planService.Basket()

	b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})

	b.Handle("/regimes", func(c tele.Context) error {
		return c.Send("Regimes: " + regimeList())
	})

	b.Handle("/signals", func(c tele.Context) error {
		args := c.Args()
		if len(args) == 0 {
			return c.Send(fmt.Sprintf("Usage: /signals SPYM\nBasket: %s", strings.Join(basket.Tickers(), ", ")))
		}
		ticker := strings.ToUpper(args[0])
		if !basket.Contains(ticker) {
			return c.Send(fmt.Sprintf("Unknown ticker: %s\nBasket: %s", ticker, strings.Join(basket.Tickers(), ", ")))
		}
		sig, err := historyService.GetSignals(context.Background(), ticker)
		if err != nil {
			return c.Send(fmt.Sprintf("Error fetching signals for %s: %v", ticker, err))
		}
		return c.Send(FormatSignals(sig))
	})

	b.Handle("/plan", func(c tele.Context) error {
		args := c.Args()
		if len(args) == 0 {
			return c.Send("Usage: /plan 500 [regime]\nRegimes: " + regimeList())
		}
		regime := ""
		if len(args) > 1 {
			regime = args[1]
		}
		plan, err := planService.BuildPlan(context.Background(), args[0], regime)
		if err != nil {
			return c.Send(fmt.Sprintf("Cannot build plan: %v", err))
		}
		return c.Send(FormatPlan(plan))
	})

	log.Println("Telegram bot started")
	go b.Start()
}

func regimeList() string {
	names := make([]string, len(domain.SupportedRegimes))
	for i, r := range domain.SupportedRegimes {
		names[i] = string(r)
	}
	return strings.Join(names, ", ")
}

// FormatSignals renders one ticker's readouts as a chat message.
func FormatSignals(sig domain.AssetSignals) string {
	return fmt.Sprintf(
		"%s\nPrice: $%.2f\nDrawdown: %.1f%%\nSMA distance: %.1f%%\nZ-score: %.2f\nVolatility: %.1f%%\nSource: %s",
		sig.Ticker, sig.Price, sig.Drawdown*100, sig.SMADistance*100,
		sig.ZScore, sig.Volatility*100, sig.Source,
	)
}

// FormatPlan renders an allocation plan as a chat message.
func FormatPlan(plan *domain.AllocationPlan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Allocation for $%.2f (%s)\n", plan.Cash, plan.Regime)
	for _, line := range plan.Lines {
		fmt.Fprintf(&b, "\n%s — %.1f%% → $%.2f (%.3f units) [%s]",
			line.Ticker, line.FinalWeight*100, line.DollarAmount, line.Units, line.Status)
	}
	return b.String()
}
