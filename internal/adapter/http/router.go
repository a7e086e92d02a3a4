package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/bankledger/internal/adapter/http/handler"
	"github.com/iho/bankledger/internal/adapter/http/middleware"
	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/infrastructure/metrics"
	"github.com/iho/bankledger/internal/usecase"
)

// RouterConfig holds dependencies for the router. Optional fields may be
// left nil.
type RouterConfig struct {
	TransactionHandler *handler.TransactionHandler
	AccountHandler     *handler.AccountHandler
	CustomerHandler    *handler.CustomerHandler
	EntryHandler       *handler.EntryHandler
	LedgerHandler      *handler.LedgerHandler
	HealthHandler      *handler.HealthHandler
	TokenHandler       *handler.TokenHandler

	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter

	// TokenVerifier enables bearer authentication and role checks when set.
	TokenVerifier middleware.TokenVerifier

	CORSAllowedOrigins []string

	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Logger   zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery(cfg.Logger))

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", middleware.IdempotencyKeyHeader},
			ExposedHeaders: []string{"X-Request-Id", middleware.IdempotencyReplayHeader},
			MaxAge:         300,
		}))
	}

	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}

	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)

	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	role := func(required domain.Role) func(http.Handler) http.Handler {
		if cfg.TokenVerifier == nil {
			return func(next http.Handler) http.Handler { return next }
		}
		return middleware.RequireRole(required)
	}

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.TokenVerifier != nil {
			r.Use(middleware.AuthMiddleware(cfg.TokenVerifier))
		}

		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Logger).Wrap)
		}

		r.Route("/transactions", func(r chi.Router) {
			r.With(role(domain.RoleTeller)).Post("/deposit", cfg.TransactionHandler.Deposit)
			r.With(role(domain.RoleTeller)).Post("/withdraw", cfg.TransactionHandler.Withdraw)
			r.With(role(domain.RoleTeller)).Post("/transfer", cfg.TransactionHandler.Transfer)
			r.With(role(domain.RoleAuditor)).Get("/{utr}", cfg.EntryHandler.GetByUTR)
		})

		r.Route("/accounts", func(r chi.Router) {
			r.With(role(domain.RoleAdmin)).Post("/", cfg.AccountHandler.Create)
			r.With(role(domain.RoleAuditor)).Get("/", cfg.AccountHandler.List)
			r.With(role(domain.RoleAuditor)).Get("/{number}", cfg.AccountHandler.Get)
			r.With(role(domain.RoleAdmin)).Put("/{number}/status", cfg.AccountHandler.UpdateStatus)
			r.With(role(domain.RoleAdmin)).Delete("/{number}", cfg.AccountHandler.Delete)
			r.With(role(domain.RoleAuditor)).Get("/{number}/transactions", cfg.EntryHandler.History)
			r.With(role(domain.RoleAuditor)).Get("/{number}/statement.xlsx", cfg.EntryHandler.Statement)
		})

		r.Route("/customers", func(r chi.Router) {
			r.With(role(domain.RoleAdmin)).Post("/", cfg.CustomerHandler.Create)
			r.With(role(domain.RoleAuditor)).Get("/", cfg.CustomerHandler.List)
			r.With(role(domain.RoleAuditor)).Get("/{id}", cfg.CustomerHandler.Get)
			r.With(role(domain.RoleAdmin)).Put("/{id}", cfg.CustomerHandler.Update)
			r.With(role(domain.RoleAdmin)).Delete("/{id}", cfg.CustomerHandler.Delete)
			r.With(role(domain.RoleAuditor)).Get("/{id}/accounts", cfg.CustomerHandler.ListAccounts)
		})

		r.With(role(domain.RoleAuditor)).Get("/ledger/consistency", cfg.LedgerHandler.CheckConsistency)

		if cfg.TokenHandler != nil {
			r.With(role(domain.RoleAdmin)).Post("/auth/token", cfg.TokenHandler.Issue)
		}
	})

	return r
}
