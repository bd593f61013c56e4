package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/iho/stockledger/internal/adapter/directory"
	httpAdapter "github.com/iho/stockledger/internal/adapter/http"
	"github.com/iho/stockledger/internal/adapter/http/handler"
	"github.com/iho/stockledger/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/stockledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/stockledger/internal/adapter/repository/redis"
	"github.com/iho/stockledger/internal/infrastructure/config"
	"github.com/iho/stockledger/internal/infrastructure/eventpublisher"
	"github.com/iho/stockledger/internal/infrastructure/logger"
	"github.com/iho/stockledger/internal/infrastructure/metrics"
	"github.com/iho/stockledger/internal/infrastructure/postgres"
	"github.com/iho/stockledger/internal/infrastructure/redis"
	"github.com/iho/stockledger/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	log.Logger = logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	zerolog.DefaultContextLogger = &log.Logger

	ctx := context.Background()

	if cfg.MigrationsPath != "" {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
	}

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns, cfg.DatabaseTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	appMetrics := metrics.New()

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	movementRepo := postgresRepo.NewMovementRepository(pool)
	balanceRepo := postgresRepo.NewBalanceRepository(pool)
	transferRepo := postgresRepo.NewTransferRepository(pool)
	retrier := postgresRepo.NewRetrier()

	// A zero poll interval disables event publishing entirely; journal
	// commits then skip the outbox write.
	var outboxRepo usecase.OutboxRepository
	if cfg.OutboxPollInterval > 0 {
		outboxRepo = postgresRepo.NewOutboxRepository(pool)
	} else {
		outboxRepo = postgresRepo.NewNullOutboxRepository()
	}
	idGen := postgresRepo.NewULIDGenerator()

	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)

	// Directory lookups go through Redis; misses fall through to postgres.
	dir := directory.NewCachedDirectory(directory.NewPostgresDirectory(pool), cache, log.Logger)

	// Initialize use cases
	validator := usecase.NewValidator(dir)
	ledgerUC := usecase.NewLedgerUseCase(txManager, movementRepo, balanceRepo, outboxRepo, validator, retrier, idGen)
	receivingUC := usecase.NewReceivingUseCase(ledgerUC, dir)
	adjustmentUC := usecase.NewAdjustmentUseCase(ledgerUC, idGen)
	transferUC := usecase.NewTransferUseCase(txManager, transferRepo, movementRepo, outboxRepo, dir, ledgerUC, retrier, idGen)
	projectorUC := usecase.NewProjectorUseCase(txManager, movementRepo, balanceRepo, dir)
	reconciliationUC := usecase.NewReconciliationUseCase(movementRepo, balanceRepo, projectorUC)

	// Initialize handlers
	receiptHandler := handler.NewReceiptHandler(receivingUC)
	adjustmentHandler := handler.NewAdjustmentHandler(adjustmentUC)
	transferHandler := handler.NewTransferHandler(transferUC, ledgerUC)
	balanceHandler := handler.NewBalanceHandler(projectorUC, ledgerUC)
	reconciliationHandler := handler.NewReconciliationHandler(reconciliationUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	var rateLimiter *middleware.RateLimiter
	if cfg.RateLimitRPS > 0 {
		rateLimiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	workerCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()

	if rateLimiter != nil {
		go func() {
			ticker := time.NewTicker(time.Hour)
			defer ticker.Stop()
			for {
				select {
				case <-workerCtx.Done():
					return
				case <-ticker.C:
					rateLimiter.CleanupLimiters()
				}
			}
		}()
	}

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		ReceiptHandler:        receiptHandler,
		AdjustmentHandler:     adjustmentHandler,
		TransferHandler:       transferHandler,
		BalanceHandler:        balanceHandler,
		ReconciliationHandler: reconciliationHandler,
		HealthHandler:         healthHandler,
		IdempotencyStore:      idempotencyStore,
		IdempotencyTTL:        cfg.IdempotencyTTL,
		RateLimiter:           rateLimiter,
		Logger:                log.Logger,
	})

	// Outbox publisher drains events recorded alongside journal commits.
	if cfg.OutboxPollInterval > 0 {
		publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
			OutboxRepo: outboxRepo,
			Publisher:  eventpublisher.NewLogPublisher(nil),
			Metrics:    appMetrics,
			BatchSize:  cfg.OutboxBatchSize,
			Interval:   cfg.OutboxPollInterval,
			Retention:  cfg.OutboxRetention,
		})
		go func() {
			if err := publisher.Start(workerCtx); err != nil && workerCtx.Err() == nil {
				log.Error().Err(err).Msg("event publisher stopped")
			}
		}()
	}

	// Optional background reconciliation sweep.
	if cfg.ReconcileInterval > 0 {
		go runReconcileLoop(workerCtx, reconciliationUC, appMetrics, cfg.ReconcileInterval)
	}

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")
	stopWorkers()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// runReconcileLoop sweeps the cached balances on a fixed interval and
// exports the findings as gauges.
func runReconcileLoop(ctx context.Context, uc *usecase.ReconciliationUseCase, m *metrics.Metrics, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			report, err := uc.CheckConsistency(ctx)
			if report == nil {
				log.Error().Err(err).Msg("reconciliation sweep failed")
				continue
			}

			m.ReconciliationRuns.Inc()
			m.DivergedKeys.Set(float64(len(report.Diverged)))
			m.UnpairedTransferIns.Set(float64(report.UnpairedTransferIns))

			if err != nil {
				log.Error().Err(err).
					Int("diverged", len(report.Diverged)).
					Int64("unpaired_transfer_ins", report.UnpairedTransferIns).
					Msg("reconciliation found inconsistencies")
			}
		}
	}
}
