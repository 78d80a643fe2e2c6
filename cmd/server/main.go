package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	httpAdapter "github.com/corebank/ledger/internal/adapter/http"
	"github.com/corebank/ledger/internal/adapter/http/handler"
	postgresRepo "github.com/corebank/ledger/internal/adapter/repository/postgres"
	redisRepo "github.com/corebank/ledger/internal/adapter/repository/redis"
	"github.com/corebank/ledger/internal/infrastructure/config"
	"github.com/corebank/ledger/internal/infrastructure/logger"
	"github.com/corebank/ledger/internal/infrastructure/metrics"
	"github.com/corebank/ledger/internal/infrastructure/postgres"
	"github.com/corebank/ledger/internal/infrastructure/redis"
	"github.com/corebank/ledger/internal/ledger"
)

const migrationsPath = "migrations"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	limits, err := cfg.Limits()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid operation limits")
	}

	ctx := context.Background()

	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL: cfg.DatabaseURL,
		MaxConns:    cfg.DatabaseMaxConns,
		MinConns:    cfg.DatabaseMinConns,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if err := postgres.RunMigrations(cfg.DatabaseURL, migrationsPath, log); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	// Repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	entryRepo := postgresRepo.NewEntryRepository(pool)
	retrier := postgresRepo.NewRetrier(log)
	balanceCache := redisRepo.NewBalanceCache(redisClient, cfg.BalanceCacheTTL)

	// Services
	transferEngine := ledger.NewTransferEngine(txManager, accountRepo, entryRepo, retrier, balanceCache, limits, log)
	fundsEngine := ledger.NewFundsEngine(txManager, accountRepo, entryRepo, retrier, balanceCache, limits, log)
	queryService := ledger.NewQueryService(accountRepo, entryRepo, balanceCache, log)
	accountService := ledger.NewAccountService(txManager, accountRepo, balanceCache, log)
	auditService := ledger.NewAuditService(accountRepo, entryRepo)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:   handler.NewAccountHandler(accountService, m),
		TransferHandler:  handler.NewTransferHandler(transferEngine, m),
		FundsHandler:     handler.NewFundsHandler(fundsEngine, m),
		QueryHandler:     handler.NewQueryHandler(queryService),
		AuditHandler:     handler.NewAuditHandler(auditService, m),
		HealthHandler:    handler.NewHealthHandler(pool, redisClient),
		Logger:           log,
		Metrics:          m,
		Registry:         registry,
		OperationTimeout: cfg.OperationTimeout,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
