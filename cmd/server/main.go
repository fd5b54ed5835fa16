package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"steady-drip/internal/advisor"
	"steady-drip/internal/bot"
	"steady-drip/internal/cache"
	"steady-drip/internal/config"
	"steady-drip/internal/db"
	"steady-drip/internal/handler"
	"steady-drip/internal/job"
	"steady-drip/internal/provider"
	"steady-drip/internal/repository"
	"steady-drip/internal/service"
	"steady-drip/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	_ "steady-drip/docs"
)

var (
	loadEnvFunc      = godotenv.Load
	loadConfigFunc   = config.Load
	initPostgresFunc = db.InitPostgres
	initRedisFunc    = cache.InitRedis
	initTracerFunc   = tracing.InitTracer
	newBarRepoFunc   = repository.NewBarRepository
	newYahooFunc     = func(tracer trace.Tracer) service.HistorySource {
		return provider.NewYahooProvider(tracer)
	}
	newStooqFunc = func(tracer trace.Tracer) service.HistorySource {
		return provider.NewStooqProvider(tracer)
	}
	newHistoryServiceFunc  = service.NewHistoryService
	newPlanServiceFunc     = service.NewPlanService
	newSignalRefresherFunc = job.NewSignalRefresher
	startRefresherFunc     = func(r *job.SignalRefresher, ctx context.Context) { go r.Start(ctx) }
	startTelegramBotFunc   = bot.StartTelegramBot
	newOpenAIClientFunc    = advisor.NewOpenAIClient
	newAdvisorServiceFunc  = advisor.NewAdvisorService
	newHandlerFunc         = handler.New
	newRouterFunc          = gin.Default
	setupSignalNotify      = signal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// @title           Steady Drip API
// @version         1.0
// @description     Periodic-investment allocation service with tactical weight tilts.

// @host      localhost:8080
// @BasePath  /
func main() {
	loadEnvFunc()

	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init Postgres and Redis
	os.Setenv("DATABASE_URL", cfg.DatabaseURL)
	os.Setenv("REDIS_URL", cfg.RedisURL)
	initPostgresFunc(ctx)
	initRedisFunc(ctx)

	// Init tracing
	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	// Create repository and run migrations
	var barStore service.BarStore
	if db.Pool != nil {
		barRepo := newBarRepoFunc(db.Pool, tracer)
		if err := barRepo.RunMigrations(ctx); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
		barStore = barRepo
	}

	// Providers and services
	yahoo := newYahooFunc(tracer)
	stooq := newStooqFunc(tracer)
	historyService := newHistoryServiceFunc(
		tracer, yahoo, stooq, barStore, cache.Client,
		cfg.LookbackDays,
		time.Duration(cfg.SignalCacheTTLSecs)*time.Second,
		cfg.ProviderRetries,
		time.Duration(cfg.ProviderRetryDelaySecs)*time.Second,
	)
	planService := newPlanServiceFunc(tracer, historyService, cfg.Basket)

	// Start signal refresher (background goroutine, stopped by ctx cancel)
	refresher := newSignalRefresherFunc(tracer, historyService, cfg.Basket, cfg.SignalRefreshSecs)
	startRefresherFunc(refresher, ctx)

	// Start Telegram bot
	os.Setenv("TELEGRAM_BOT_TOKEN", cfg.TelegramBotToken)
	startTelegramBotFunc(planService, historyService)

	// Create handlers and routes
	h := newHandlerFunc(tracer, planService, historyService)
	if cfg.OpenAIAPIKey != "" {
		llmClient := newOpenAIClientFunc(cfg.OpenAIAPIKey)
		h.SetAdvisor(newAdvisorServiceFunc(tracer, llmClient, cfg.OpenAIModel))
		log.Println("Plan advisor enabled")
	}

	r := newRouterFunc()
	r.Use(otelgin.Middleware("steady-drip"))
	if cfg.APIKey != "" {
		r.Use(handler.APIKeyAuth(cfg.APIKey))
	}

	h.RegisterRoutes(r)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    ":" + strconv.Itoa(cfg.HTTPPort),
		Handler: r,
	}

	go func() {
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
