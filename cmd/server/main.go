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

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	payoutapp "github.com/royaltyops/backend/internal/application/payout"
	royaltyapp "github.com/royaltyops/backend/internal/application/royalty"
	"github.com/royaltyops/backend/internal/domain/royalty"
	"github.com/royaltyops/backend/internal/domain/shared"
	"github.com/royaltyops/backend/internal/infrastructure/cache"
	"github.com/royaltyops/backend/internal/infrastructure/config"
	"github.com/royaltyops/backend/internal/infrastructure/event"
	"github.com/royaltyops/backend/internal/infrastructure/logger"
	"github.com/royaltyops/backend/internal/infrastructure/persistence"
	"github.com/royaltyops/backend/internal/infrastructure/resilience"
	"github.com/royaltyops/backend/internal/interfaces/http/handler"
	"github.com/royaltyops/backend/internal/interfaces/http/router"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: logger.DefaultConfig().TimeFormat,
	})
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	log.Info("database ready",
		zap.String("host", cfg.Database.Host),
		zap.String("dbname", cfg.Database.DBName),
	)

	var idempotency shared.IdempotencyStore
	if cfg.Redis.Enabled {
		idempotency, err = cache.NewRedisIdempotencyStore(cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		log.Info("redis idempotency store connected", zap.String("host", cfg.Redis.Host))
	} else {
		idempotency = cache.NewInMemoryIdempotencyStore()
	}
	defer idempotency.Close()

	bus := event.NewInMemoryEventBus(log)
	ctx := context.Background()
	if err := bus.Start(ctx); err != nil {
		return fmt.Errorf("start event bus: %w", err)
	}

	// Repositories
	workRepo := persistence.NewGormWorkRepository(db.DB)
	payeeRepo := persistence.NewGormPayeeRepository(db.DB)
	agreementRepo := persistence.NewGormAgreementRepository(db.DB)
	expenseRepo := persistence.NewGormExpenseRepository(db.DB)
	allocationRepo := persistence.NewGormAllocationRepository(db.DB)
	payoutRepo := persistence.NewGormPayoutRepository(db.DB)
	auditRepo := persistence.NewGormWorkflowAuditRepository(db.DB)
	reportRepo := persistence.NewGormQuarterlyReportRepository(db.DB)
	batchRepo := persistence.NewGormBatchOperationRepository(db.DB)

	// Domain services
	ledger := royalty.NewOwnershipLedger(payeeRepo, agreementRepo)
	calculator := royalty.NewStatementCalculator(allocationRepo, expenseRepo, ledger, log)
	prorator := royalty.NewFeeProrationService()

	// Application services
	feeService := royaltyapp.NewFeeService(workRepo, prorator, bus, log)
	statementService := royaltyapp.NewStatementService(calculator, ledger, bus, log)
	payoutService := payoutapp.NewPayoutService(payoutRepo, auditRepo, batchRepo, ledger, calculator, bus, log)
	reportService := payoutapp.NewReportService(reportRepo, log)

	executor := resilience.NewExecutor(resilience.Config{
		MaxRetries:     cfg.Retry.MaxRetries,
		BaseDelay:      cfg.Retry.BaseDelay,
		MaxDelay:       cfg.Retry.MaxDelay,
		AttemptTimeout: cfg.Retry.AttemptTimeout,
	}, log)

	paidHandler := payoutapp.NewPayoutPaidHandler(payoutRepo, reportRepo, idempotency, bus, log,
		payoutapp.WithIdempotencyTTL(cfg.Event.IdempotencyTTL))
	bus.Subscribe(event.NewRetryingHandler(paidHandler, executor))

	engine := router.NewRouter(log).
		Register(handler.NewRoyaltyHandler(feeService, statementService)).
		Register(handler.NewPayoutHandler(payoutService, reportService)).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.App.Env),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	if err := bus.Stop(shutdownCtx); err != nil {
		log.Warn("event bus stop", zap.Error(err))
	}
	log.Info("server stopped")
	return nil
}
