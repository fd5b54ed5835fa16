package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"steady-drip/internal/domain"
)

type Config struct {
	TelegramBotToken string
	DatabaseURL      string
	RedisURL         string
	APIKey           string

	HTTPPort       int
	SSHPort        int
	SSHHostKeyPath string

	Basket domain.Basket

	LookbackDays           int
	SignalCacheTTLSecs     int
	SignalRefreshSecs      int
	ProviderRetries        int
	ProviderRetryDelaySecs int

	OpenAIAPIKey string
	OpenAIModel  string
}

func Load() *Config {
	cfg := &Config{
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisURL:         os.Getenv("REDIS_URL"),
		APIKey:           strings.TrimSpace(os.Getenv("API_KEY")),
	}

	if cfg.TelegramBotToken == "" {
		log.Println("Warning: TELEGRAM_BOT_TOKEN not set")
	}
	if cfg.DatabaseURL == "" {
		log.Println("Warning: DATABASE_URL not set")
	}
	if cfg.RedisURL == "" {
		log.Println("Warning: REDIS_URL not set, defaulting to localhost:6379")
		cfg.RedisURL = "localhost:6379"
	}

	cfg.HTTPPort = 8080
	if v := strings.TrimSpace(os.Getenv("HTTP_PORT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.HTTPPort = n
		}
	}

	cfg.SSHPort = 23234
	if v := strings.TrimSpace(os.Getenv("SSH_PORT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SSHPort = n
		}
	}

	cfg.SSHHostKeyPath = strings.TrimSpace(os.Getenv("SSH_HOST_KEY_PATH"))
	if cfg.SSHHostKeyPath == "" {
		cfg.SSHHostKeyPath = ".ssh/steady_drip_ed25519"
	}

	basket, err := ParseBasket(os.Getenv("BASKET"))
	if err != nil {
		log.Printf("Warning: invalid BASKET (%v), using default basket", err)
		basket = domain.DefaultBasket
	}
	cfg.Basket = basket

	cfg.LookbackDays = 365
	if v := strings.TrimSpace(os.Getenv("LOOKBACK_DAYS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.LookbackDays = n
		}
	}

	cfg.SignalCacheTTLSecs = 3600
	if v := strings.TrimSpace(os.Getenv("SIGNAL_CACHE_TTL_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SignalCacheTTLSecs = n
		}
	}

	cfg.SignalRefreshSecs = 3600
	if v := strings.TrimSpace(os.Getenv("SIGNAL_REFRESH_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SignalRefreshSecs = n
		}
	}

	cfg.ProviderRetries = 2
	if v := strings.TrimSpace(os.Getenv("PROVIDER_RETRIES")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ProviderRetries = n
		}
	}

	cfg.ProviderRetryDelaySecs = 1
	if v := strings.TrimSpace(os.Getenv("PROVIDER_RETRY_DELAY_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ProviderRetryDelaySecs = n
		}
	}

	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	if cfg.OpenAIAPIKey == "" {
		log.Println("Warning: OPENAI_API_KEY not set, advisor will be disabled")
	}

	cfg.OpenAIModel = strings.TrimSpace(os.Getenv("OPENAI_MODEL"))
	if cfg.OpenAIModel == "" {
		cfg.OpenAIModel = "gpt-4o-mini"
	}

	return cfg
}

// ParseBasket parses a "TICKER:WEIGHT,TICKER:WEIGHT,..." string into a
// validated basket. An empty string yields the default basket.
func ParseBasket(raw string) (domain.Basket, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domain.DefaultBasket, nil
	}

	var basket domain.Basket
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		ticker, weightText, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("malformed basket entry %q", part)
		}
		weight, err := strconv.ParseFloat(strings.TrimSpace(weightText), 64)
		if err != nil {
			return nil, fmt.Errorf("malformed weight in %q: %w", part, err)
		}
		basket = append(basket, domain.AssetSpec{
			Ticker:       strings.ToUpper(strings.TrimSpace(ticker)),
			TargetWeight: weight,
		})
	}
	if err := basket.Validate(); err != nil {
		return nil, err
	}
	return basket, nil
}
