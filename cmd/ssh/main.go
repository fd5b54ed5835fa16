package main

import (
	"context"
	"fmt"
	"log"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"steady-drip/internal/cache"
	"steady-drip/internal/config"
	"steady-drip/internal/db"
	"steady-drip/internal/provider"
	"steady-drip/internal/repository"
	"steady-drip/internal/service"
	"steady-drip/internal/tui"
	"steady-drip/pkg/tracing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel/trace"
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
	newHistoryServiceFunc = service.NewHistoryService
	newPlanServiceFunc    = service.NewPlanService
	newWishServerFunc     = wish.NewServer
	setupSignalNotify     = ossignal.Notify
	waitForSignalFunc     = func(quit <-chan os.Signal) { <-quit }
)

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

	// Services
	var barStore service.BarStore
	if db.Pool != nil {
		barStore = newBarRepoFunc(db.Pool, tracer)
	}

	historyService := newHistoryServiceFunc(
		tracer, newYahooFunc(tracer), newStooqFunc(tracer), barStore, cache.Client,
		cfg.LookbackDays,
		time.Duration(cfg.SignalCacheTTLSecs)*time.Second,
		cfg.ProviderRetries,
		time.Duration(cfg.ProviderRetryDelaySecs)*time.Second,
	)
	planService := newPlanServiceFunc(tracer, historyService, cfg.Basket)

	// Build Wish SSH server
	addr := fmt.Sprintf("0.0.0.0:%d", cfg.SSHPort)

	srv, err := newWishServerFunc(
		wish.WithAddress(addr),
		wish.WithHostKeyPath(cfg.SSHHostKeyPath),
		wish.WithMiddleware(
			bubbletea.Middleware(func(s ssh.Session) (tea.Model, []tea.ProgramOption) {
				model := tui.NewAppModel(planService)
				pty, _, _ := s.Pty()
				model.SetSize(pty.Window.Width, pty.Window.Height)

				return model, []tea.ProgramOption{tea.WithAltScreen()}
			}),
			logging.Middleware(),
		),
	)
	if err != nil {
		log.Fatalf("failed to create SSH server: %v", err)
	}

	if srv != nil {
		go func() {
			log.Printf("SSH server listening on %s", addr)
			if err := srv.ListenAndServe(); err != nil {
				log.Printf("SSH server stopped: %v", err)
			}
		}()
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down SSH server...")

	cancel()

	if srv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("SSH server shutdown error: %v", err)
		}
	}

	log.Println("SSH server exited")
}
