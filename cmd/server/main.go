package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/bankledger/internal/adapter/http"
	"github.com/iho/bankledger/internal/adapter/http/handler"
	"github.com/iho/bankledger/internal/adapter/http/middleware"
	"github.com/iho/bankledger/internal/app"
	"github.com/iho/bankledger/internal/infrastructure/auth"
	"github.com/iho/bankledger/internal/infrastructure/config"
	"github.com/iho/bankledger/internal/infrastructure/logger"
	"github.com/iho/bankledger/internal/infrastructure/metrics"
	"github.com/iho/bankledger/internal/infrastructure/notifier"
)

func main() {
	if _, err := config.LoadEnvFiles(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	infra, err := openInfrastructure(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer infra.Close()

	publishers, closePublishers, err := buildPublishers(cfg, infra, log)
	if err != nil {
		return err
	}
	defer closePublishers()

	dispatcher := notifier.NewDispatcher(notifier.Config{
		Workers:   cfg.NotifyWorkers,
		QueueSize: cfg.NotifyQueueSize,
		Timeout:   cfg.NotifyTimeout,
		Retrier:   notifier.NewRetrier(cfg.NotifyMaxRetries, log),
		Metrics:   m,
		Logger:    log,
	}, publishers...)

	// Workers outlive ctx so queued notifications drain on shutdown.
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	dispatcher.Start(workerCtx)

	a := app.New(app.Deps{
		Repos:    infra.Repos,
		Cache:    infra.Cache,
		Notifier: dispatcher,
		Metrics:  m,
		Logger:   log,
	}, cfg)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m)
	go rateLimiter.RunCleanup(ctx, 10*time.Minute)

	routerCfg := newRouterConfig(cfg, a, infra, m, log)
	routerCfg.Gatherer = registry
	routerCfg.RateLimiter = rateLimiter

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      httpAdapter.NewRouter(routerCfg),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Str("store", cfg.StoreDriver).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	if err := dispatcher.Close(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("notifications still queued at shutdown")
	}

	log.Info().Msg("server stopped")
	return nil
}

func newRouterConfig(cfg *config.Config, a *app.App, infra *infrastructure, m *metrics.Metrics, log zerolog.Logger) httpAdapter.RouterConfig {
	routerCfg := httpAdapter.RouterConfig{
		TransactionHandler: handler.NewTransactionHandler(a.Transactions),
		AccountHandler:     handler.NewAccountHandler(a.Accounts),
		CustomerHandler:    handler.NewCustomerHandler(a.Customers, a.Accounts),
		EntryHandler:       handler.NewEntryHandler(a.Entries),
		LedgerHandler:      handler.NewLedgerHandler(a.Ledger),
		HealthHandler:      handler.NewHealthHandler(infra.Pingers),
		IdempotencyTTL:     cfg.IdempotencyTTL,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		Metrics:            m,
		Logger:             log,
	}

	if infra.Idempotency != nil {
		routerCfg.IdempotencyStore = infra.Idempotency
	}

	if cfg.AuthEnabled {
		jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
		routerCfg.TokenVerifier = jwtManager
		routerCfg.TokenHandler = handler.NewTokenHandler(jwtManager, cfg.JWTExpiration)
	}

	return routerCfg
}
