package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	redislib "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/ledgerbook/internal/adapter/http"
	"github.com/iho/ledgerbook/internal/adapter/http/handler"
	"github.com/iho/ledgerbook/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/ledgerbook/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/ledgerbook/internal/adapter/repository/redis"
	"github.com/iho/ledgerbook/internal/infrastructure/config"
	"github.com/iho/ledgerbook/internal/infrastructure/logger"
	"github.com/iho/ledgerbook/internal/infrastructure/metrics"
	"github.com/iho/ledgerbook/internal/infrastructure/postgres"
	"github.com/iho/ledgerbook/internal/infrastructure/redis"
	"github.com/iho/ledgerbook/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	logger.SetGlobal(appLogger)

	ctx := context.Background()

	var (
		accountRepo usecase.AccountRepository
		txRepo      usecase.TransactionRepository
		pool        *pgxpool.Pool
	)

	if cfg.DatabaseURL != "" {
		pool, err = postgres.NewPool(ctx, postgres.PoolConfig{
			DatabaseURL: cfg.DatabaseURL,
			MaxConns:    cfg.DatabaseMaxConns,
			MinConns:    cfg.DatabaseMinConns,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to postgres")
		}
		defer pool.Close()

		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}

		accountRepo = postgresRepo.NewAccountRepository(pool)
		txRepo = postgresRepo.NewTransactionRepository(pool)
		log.Info().Msg("ledger store: postgres")
	} else {
		ledger := memory.NewLedger()
		accountRepo = ledger.Accounts()
		txRepo = ledger.Transactions()
		log.Info().Msg("ledger store: in-memory")
	}

	var (
		cache       usecase.IdempotencyCache
		redisClient *redislib.Client
	)

	if cfg.RedisURL != "" {
		redisClient, err = redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()

		cache = redisRepo.NewIdempotencyStore(redisClient, cfg.IdempotencyTTL)
		log.Info().Msg("idempotency cache: redis")
	} else {
		memCache := memory.NewIdempotencyCache(cfg.IdempotencyTTL, nil)
		go memCache.RunSweeper(ctx, cfg.IdempotencySweepInterval)

		cache = memCache
		log.Info().Msg("idempotency cache: in-memory")
	}

	idGen := postgresRepo.NewUUIDGenerator()

	accountUC := usecase.NewAccountUseCase(accountRepo, txRepo, idGen)
	txUC := usecase.NewTransactionUseCase(txRepo, accountRepo, cache, idGen)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	m := metrics.New(registry)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:     handler.NewAccountHandler(accountUC, m),
		TransactionHandler: handler.NewTransactionHandler(txUC, m),
		HealthHandler:      handler.NewHealthHandler(pool, redisClient),
		Logger:             appLogger,
		Metrics:            m,
		MetricsRegistry:    registry,
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
