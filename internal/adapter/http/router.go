package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/corebank/ledger/internal/adapter/http/handler"
	"github.com/corebank/ledger/internal/adapter/http/middleware"
	"github.com/corebank/ledger/internal/infrastructure/metrics"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler  *handler.AccountHandler
	TransferHandler *handler.TransferHandler
	FundsHandler    *handler.FundsHandler
	QueryHandler    *handler.QueryHandler
	AuditHandler    *handler.AuditHandler
	HealthHandler   *handler.HealthHandler

	Logger   zerolog.Logger
	Metrics  *metrics.Metrics
	Registry *prometheus.Registry

	// OperationTimeout caps how long any single request may run.
	OperationTimeout time.Duration
}

// NewRouter creates the HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.NewMetricsMiddleware(cfg.Metrics).Wrap)
	r.Use(middleware.NewRecoveryMiddleware(cfg.Logger).Wrap)

	// Health and observability endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{}))

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.OperationTimeout > 0 {
			r.Use(chimiddleware.Timeout(cfg.OperationTimeout))
		}

		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", cfg.AccountHandler.Open)
			r.Delete("/{id}", cfg.AccountHandler.Close)
			r.Get("/{id}/balance", cfg.QueryHandler.Balance)
			r.Get("/{id}/entries", cfg.QueryHandler.History)
			r.Get("/{id}/entries/search", cfg.QueryHandler.Search)
			r.Get("/{id}/statistics", cfg.QueryHandler.Statistics)
			r.Get("/{id}/audit", cfg.AuditHandler.Account)
		})

		r.Post("/transfers", cfg.TransferHandler.Create)
		r.Post("/deposits", cfg.FundsHandler.Deposit)
		r.Post("/withdrawals", cfg.FundsHandler.Withdraw)

		r.Get("/entries/{id}", cfg.QueryHandler.Entry)
		r.Get("/audit", cfg.AuditHandler.Ledger)
	})

	return r
}
