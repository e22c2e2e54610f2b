package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	approvalapp "github.com/awqaf/backend/internal/application/approval"
	distributionapp "github.com/awqaf/backend/internal/application/distribution"
	fiscalapp "github.com/awqaf/backend/internal/application/fiscal"
	"github.com/awqaf/backend/internal/domain/fiscal"
	"github.com/awqaf/backend/internal/domain/shared"
	"github.com/awqaf/backend/internal/infrastructure/cache"
	"github.com/awqaf/backend/internal/infrastructure/config"
	"github.com/awqaf/backend/internal/infrastructure/event"
	"github.com/awqaf/backend/internal/infrastructure/logger"
	"github.com/awqaf/backend/internal/infrastructure/persistence"
	"github.com/awqaf/backend/internal/infrastructure/scheduler"
	"github.com/awqaf/backend/internal/infrastructure/telemetry"
	"github.com/awqaf/backend/internal/interfaces/http/handler"
	"github.com/awqaf/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting awqaf backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database connection
	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize telemetry
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Distributed mutex for the escalation sweep. Redis in normal
	// deployments, in-memory when Redis is unreachable (single node).
	var mutexStore shared.MutexStore
	redisStore, err := cache.NewRedisMutexStore(&cfg.Redis)
	if err != nil {
		log.Warn("Redis unavailable, using in-process mutex store", zap.Error(err))
		mutexStore = cache.NewInMemoryMutexStore()
	} else {
		mutexStore = redisStore
		log.Info("Redis connected successfully")
	}

	// Initialize repositories
	periodRepo := persistence.NewGormFiscalPeriodRepository(db.DB)
	ledgerRepo := persistence.NewGormLedgerEntryRepository(db.DB)
	closingRepo := persistence.NewGormClosingRecordRepository(db.DB)
	beneficiaryRepo := persistence.NewGormBeneficiaryRepository(db.DB)
	batchRepo := persistence.NewGormDistributionBatchRepository(db.DB)
	requestRepo := persistence.NewGormApprovalRequestRepository(db.DB)
	levelConfigRepo := persistence.NewGormLevelConfigRepository(db.DB)

	// Initialize event bus
	eventBus := event.NewInMemoryEventBus(log)
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Initialize application services
	approvalService := approvalapp.NewApprovalService(requestRepo, levelConfigRepo, eventBus, log)
	periodService := fiscalapp.NewPeriodService(periodRepo, eventBus, log)
	closingService := fiscalapp.NewClosingService(
		periodRepo,
		closingRepo,
		batchRepo,
		beneficiaryRepo,
		requestRepo,
		fiscal.NewLedgerAggregator(ledgerRepo),
		persistence.NewClosingTxWriter(db),
		eventBus,
		log,
	)
	distributionService := distributionapp.NewDistributionService(
		batchRepo, beneficiaryRepo, periodRepo, approvalService, eventBus, log,
	)

	// Terminal approval outcomes are projected onto distribution batches
	outcomeHandler := distributionapp.NewApprovalOutcomeHandler(batchRepo, eventBus, log)
	eventBus.Subscribe(outcomeHandler, outcomeHandler.EventTypes()...)
	log.Info("Event handlers registered",
		zap.Strings("approval_outcome_events", outcomeHandler.EventTypes()),
	)

	// Start the SLA escalation sweep
	escalationScheduler := scheduler.NewEscalationScheduler(scheduler.Config{
		Enabled:       cfg.Escalation.Enabled,
		SweepInterval: cfg.Escalation.SweepInterval,
		SweepLockTTL:  cfg.Escalation.SweepLockTTL,
	}, approvalService, mutexStore, log)
	escalationScheduler.Start(context.Background())
	defer escalationScheduler.Stop()
	if cfg.Escalation.Enabled {
		log.Info("Escalation scheduler started",
			zap.Duration("sweep_interval", cfg.Escalation.SweepInterval),
		)
	}

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Assemble the HTTP engine
	engine := router.New(router.Config{
		CORSOrigins: cfg.HTTP.CORSAllowOrigins,
		Logger:      log,
	}).
		Register(handler.NewPeriodHandler(periodService, closingService)).
		Register(handler.NewDistributionHandler(distributionService)).
		Register(handler.NewApprovalHandler(approvalService)).
		Setup()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("Shutting down", zap.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Forced server shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}
