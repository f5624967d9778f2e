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

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	httpAdapter "github.com/fexhq/fex/internal/adapter/http"
	"github.com/fexhq/fex/internal/adapter/http/handler"
	"github.com/fexhq/fex/internal/adapter/http/middleware"
	postgresRepo "github.com/fexhq/fex/internal/adapter/repository/postgres"
	redisRepo "github.com/fexhq/fex/internal/adapter/repository/redis"
	"github.com/fexhq/fex/internal/infrastructure/auth"
	"github.com/fexhq/fex/internal/infrastructure/cardcipher"
	"github.com/fexhq/fex/internal/infrastructure/config"
	"github.com/fexhq/fex/internal/infrastructure/eventpublisher"
	"github.com/fexhq/fex/internal/infrastructure/logger"
	"github.com/fexhq/fex/internal/infrastructure/metrics"
	"github.com/fexhq/fex/internal/infrastructure/postgres"
	"github.com/fexhq/fex/internal/infrastructure/redis"
	"github.com/fexhq/fex/internal/usecase"
)

const rateLimiterCleanupInterval = time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = appLogger

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	appLogger.Info().Msg("connected to postgres")

	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	appLogger.Info().Msg("connected to redis")

	if cfg.JWTSecret == "" {
		appLogger.Fatal().Msg("JWT_SECRET must be set")
	}

	cipher, err := cardcipher.New(cfg.CardEncryptionKey)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to initialize card cipher")
	}

	tradingCfg, err := tradingConfig(cfg)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("invalid trading configuration")
	}

	m := metrics.New()

	// Repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	holdingRepo := postgresRepo.NewHoldingRepository(pool)
	rateRepo := postgresRepo.NewRateRepository(pool)
	txnRepo := postgresRepo.NewTransactionRepository(pool)
	submissionRepo := postgresRepo.NewSubmissionRepository(pool)
	userRepo := postgresRepo.NewUserRepository(pool)
	auditRepo := postgresRepo.NewAuditRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier(appLogger)

	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)

	// Use cases
	tradingUC := usecase.NewTradingUseCase(tradingCfg, txManager, accountRepo, holdingRepo, rateRepo, txnRepo, outboxRepo, auditRepo, idGen, retrier, m)
	giftCardUC := usecase.NewGiftCardUseCase(txManager, accountRepo, rateRepo, submissionRepo, txnRepo, outboxRepo, auditRepo, idGen, cipher, m)
	rateUC := usecase.NewRateUseCase(txManager, rateRepo, auditRepo, outboxRepo, idGen, cache, appLogger)
	accountUC := usecase.NewAccountUseCase(accountRepo, holdingRepo, rateRepo, txnRepo)
	userUC := usecase.NewUserUseCase(txManager, userRepo, accountRepo, auditRepo, idGen)
	reportUC := usecase.NewReportUseCase(userRepo, txnRepo, submissionRepo, ledgerRepo, appLogger)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)

	// Outbox publisher
	publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  eventpublisher.NewLogPublisher(appLogger),
		Logger:     appLogger,
		Metrics:    m,
		BatchSize:  cfg.PublishBatchSize,
		Interval:   cfg.PublishInterval,
	})

	workerCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()
	go func() {
		if err := publisher.Start(workerCtx); err != nil && !errors.Is(err, context.Canceled) {
			appLogger.Error().Err(err).Msg("event publisher stopped")
		}
	}()

	// Reset per-IP limiters on an interval so the map does not grow
	// unbounded across many distinct client IPs.
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m)
	go func() {
		ticker := time.NewTicker(rateLimiterCleanupInterval)
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

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AuthHandler:      handler.NewAuthHandler(userUC, jwtManager, m),
		AccountHandler:   handler.NewAccountHandler(accountUC),
		TradingHandler:   handler.NewTradingHandler(tradingUC, accountUC),
		GiftCardHandler:  handler.NewGiftCardHandler(giftCardUC, accountUC),
		RateHandler:      handler.NewRateHandler(rateUC),
		AdminHandler:     handler.NewAdminHandler(giftCardUC, rateUC, userUC, reportUC),
		HealthHandler:    handler.NewHealthHandler(pool, redisClient),
		JWTManager:       jwtManager,
		IdempotencyStore: idempotencyStore,
		RateLimiter:      rateLimiter,
		Metrics:          m,
		Logger:           appLogger,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		appLogger.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info().Msg("shutting down server...")

	stopWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	appLogger.Info().Msg("server stopped")
}

// tradingConfig parses the trading limits from their env representation.
func tradingConfig(cfg *config.Config) (usecase.TradingConfig, error) {
	feeRate, err := decimal.NewFromString(cfg.FeeRate)
	if err != nil {
		return usecase.TradingConfig{}, fmt.Errorf("invalid FEE_RATE: %w", err)
	}
	minTrade, err := decimal.NewFromString(cfg.MinTradeAmount)
	if err != nil {
		return usecase.TradingConfig{}, fmt.Errorf("invalid MIN_TRADE_AMOUNT: %w", err)
	}
	maxTrade, err := decimal.NewFromString(cfg.MaxTradeAmount)
	if err != nil {
		return usecase.TradingConfig{}, fmt.Errorf("invalid MAX_TRADE_AMOUNT: %w", err)
	}

	return usecase.TradingConfig{
		FeeRate:        feeRate,
		MinTradeAmount: minTrade,
		MaxTradeAmount: maxTrade,
	}, nil
}
