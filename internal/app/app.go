package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/openpaygo/antifraud/internal/api"
	"github.com/openpaygo/antifraud/internal/api/middleware"
	"github.com/openpaygo/antifraud/internal/cache"
	"github.com/openpaygo/antifraud/internal/config"
	"github.com/openpaygo/antifraud/internal/db"
	"github.com/openpaygo/antifraud/internal/notification"
	"github.com/openpaygo/antifraud/internal/observability"
	"github.com/openpaygo/antifraud/internal/repository"
	"github.com/openpaygo/antifraud/internal/service"
	"github.com/openpaygo/antifraud/internal/worker"
)

// Run bootstraps the HTTP server and review monitor, blocking until shutdown.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)
	observability.Init()
	middleware.SetJWTSecret(cfg.JWTSecret)
	middleware.SetJWTValidation(cfg.JWTIssuer, cfg.JWTAudience)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	redisClient, err := newRedisClient(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer redisClient.Close()

	notifier, closeNotifier, err := newNotifier(cfg, logger)
	if err != nil {
		return fmt.Errorf("init notifier: %w", err)
	}
	defer closeNotifier()

	store := repository.NewStore(pool)
	transactionRepo := repository.NewTransactionRepository(store)
	blockedCardRepo := repository.NewBlockedCardRepository(store)
	auditRepo := repository.NewAuditRepository(store)

	blocklistCache := cache.NewBlocklistCache(redisClient, blockedCardRepo, cfg.BlocklistCacheTTL)
	riskAnalyzer := service.NewRiskAnalyzer(blocklistCache, transactionRepo, cfg.Risk)

	transactionSvc := service.NewTransactionService(transactionRepo, auditRepo, riskAnalyzer, store, notifier)
	querySvc := service.NewTransactionQueryService(transactionRepo)
	blocklistSvc := service.NewBlocklistService(blockedCardRepo, store).WithCache(blocklistCache)

	reviewMonitor := worker.NewReviewMonitor(transactionRepo).WithInterval(cfg.ReviewMonitorInterval)
	stopMonitor := reviewMonitor.Run(ctx)
	logger.Info("review monitor started", zap.Duration("interval", cfg.ReviewMonitorInterval))

	router := api.NewRouter(cfg, logger, pool, redisClient, transactionSvc, querySvc, blocklistSvc)

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("http server starting", zap.String("port", cfg.HTTPPort))
		serverErr <- server.ListenAndServe()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
	}

	logger.Info("stopping review monitor")
	stopMonitor()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", zap.Error(err))
	}

	logger.Info("shutdown complete")
	return nil
}

func newNotifier(cfg *config.Config, logger *zap.Logger) (notification.Notifier, func(), error) {
	if cfg.KafkaBrokers == "" {
		return notification.NewLogNotifier(logger), func() {}, nil
	}
	kn, err := notification.NewKafkaNotifier(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
	if err != nil {
		return nil, nil, err
	}
	return kn, kn.Close, nil
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	switch strings.ToLower(level) {
	case "debug":
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info", "":
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return cfg.Build()
}

func newRedisClient(url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}
