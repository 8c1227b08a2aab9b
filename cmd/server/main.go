package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/goldbook/backend/internal/application/catalog"
	karigarapp "github.com/goldbook/backend/internal/application/karigar"
	ledgerapp "github.com/goldbook/backend/internal/application/ledger"
	partnerapp "github.com/goldbook/backend/internal/application/partner"
	rainiapp "github.com/goldbook/backend/internal/application/raini"
	"github.com/goldbook/backend/internal/application/reconciliation"
	reportapp "github.com/goldbook/backend/internal/application/report"
	"github.com/goldbook/backend/internal/domain/ledger"
	"github.com/goldbook/backend/internal/infrastructure/backup"
	"github.com/goldbook/backend/internal/infrastructure/config"
	"github.com/goldbook/backend/internal/infrastructure/export"
	"github.com/goldbook/backend/internal/infrastructure/logger"
	"github.com/goldbook/backend/internal/infrastructure/migration"
	"github.com/goldbook/backend/internal/infrastructure/persistence"
	"github.com/goldbook/backend/internal/infrastructure/scheduler"
	"github.com/goldbook/backend/internal/infrastructure/storage"
	"github.com/goldbook/backend/internal/infrastructure/telemetry"
	"github.com/goldbook/backend/internal/interfaces/http/handler"
	"github.com/goldbook/backend/internal/interfaces/http/middleware"
	"github.com/goldbook/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync(log)

	// Initialize OpenTelemetry
	telCfg := telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.Endpoint,
		Insecure:          cfg.Telemetry.Insecure,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.App.Name,
		ServiceVersion:    version,
		MetricsInterval:   cfg.Telemetry.MetricsInterval,
		LogsEnabled:       cfg.Telemetry.LogsEnabled,
	}
	initCtx := context.Background()
	tp, err := telemetry.NewTracerProvider(initCtx, telCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	mp, err := telemetry.NewMeterProvider(initCtx, telCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	lp, err := telemetry.NewLoggerProvider(initCtx, telCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	defer shutdownTelemetry(log, tp, mp, lp)

	if lp.IsEnabled() {
		level, err := zapcore.ParseLevel(cfg.Log.Level)
		if err != nil {
			level = zapcore.InfoLevel
		}
		log = lp.Bridge(log, cfg.App.Name, level)
	}

	log.Info("Starting goldbook",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
		zap.String("database", cfg.Database.Path),
	)

	db, err := persistence.NewDatabase(&cfg.Database, cfg.Log.Level, log)
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	if cfg.Database.AutoMigrate {
		if err := migrate(db, log); err != nil {
			log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:         tp.IsEnabled() && cfg.Telemetry.DBTracing,
		SlowQueryThresh: cfg.Telemetry.SlowQuery,
	}, log); err != nil {
		log.Fatal("Failed to enable database tracing", zap.Error(err))
	}

	metrics, err := telemetry.NewLedgerMetrics(mp.Meter(telemetry.TracerName))
	if err != nil {
		log.Fatal("Failed to register metrics", zap.Error(err))
	}

	scope := persistence.NewGormTransactionScope(db.DB)
	repos := persistence.NewGormRepositories(db.DB)

	backupOpts := []backup.Option{backup.WithRecorder(metrics)}
	if cfg.Storage.Enabled {
		s3, err := storage.NewS3BackupStorage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to configure backup storage", zap.Error(err))
		}
		ensureCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		if err := s3.EnsureBucket(ensureCtx); err != nil {
			// Backups still land on disk; uploads report their own errors
			log.Warn("Backup bucket not reachable", zap.String("bucket", s3.GetBucket()), zap.Error(err))
		}
		cancel()
		backupOpts = append(backupOpts, backup.WithUploader(s3))
	}
	backups := backup.NewService(db.DB, cfg.Backup.Dir, log, backupOpts...)

	ledgerSvc := ledgerapp.NewService(scope, repos, ledger.NewRefIDGenerator(), log)
	ledgerSvc.SetRecorder(metrics)

	handlers := router.Handlers{
		Items:          handler.NewItemHandler(catalogapp.NewItemService(scope, repos, log)),
		Suppliers:      handler.NewSupplierHandler(partnerapp.NewSupplierService(scope, repos, log)),
		Karigars:       handler.NewKarigarHandler(partnerapp.NewKarigarService(scope, repos, log)),
		Ledger:         handler.NewLedgerHandler(ledgerSvc),
		Reconciliation: handler.NewReconciliationHandler(reconciliation.NewService(scope, log)),
		KarigarOrders:  handler.NewKarigarOrderHandler(karigarapp.NewOrderService(scope, repos, ledger.NewRefIDGenerator(), log)),
		Raini:          handler.NewRainiHandler(rainiapp.NewOrderService(scope, repos, log)),
		Reports:        handler.NewReportHandler(reportapp.NewReportService(persistence.NewGormReportRepository(db.DB), log)),
		Backups:        handler.NewBackupHandler(backups),
		Exports:        handler.NewExportHandler(export.NewExporter(db.DB, repos, cfg.Backup.ExportDir, log)),
		System:         handler.NewSystemHandler(cfg.App.Name, version, db),
	}

	engine := router.NewEngine(router.EngineConfig{
		MaxBodySize: cfg.HTTP.MaxBodySize,
		CORSOrigins: cfg.HTTP.CORSOrigins,
		Tracing: middleware.TracingConfig{
			ServiceName: cfg.App.Name,
			Enabled:     tp.IsEnabled(),
		},
	}, log, handlers)

	var trigger *scheduler.BackupTrigger
	if cfg.Backup.DailyEnabled {
		trigger, err = scheduler.NewBackupTrigger(scheduler.BackupTriggerConfig{
			DailyAt: cfg.Backup.DailyAt,
		}, backups, log)
		if err != nil {
			log.Fatal("Failed to configure daily backup", zap.Error(err))
		}
		if err := trigger.Start(context.Background()); err != nil {
			log.Fatal("Failed to start daily backup", zap.Error(err))
		}
		log.Info("Daily backup enabled", zap.String("at", cfg.Backup.DailyAt))
	}

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if trigger != nil {
		if err := trigger.Stop(ctx); err != nil {
			log.Error("Daily backup did not stop cleanly", zap.Error(err))
		}
	}
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

func shutdownTelemetry(log *zap.Logger, tp *telemetry.TracerProvider, mp *telemetry.MeterProvider, lp *telemetry.LoggerProvider) {
	ctx := context.Background()
	if err := lp.Shutdown(ctx); err != nil {
		log.Error("Failed to shutdown logger provider", zap.Error(err))
	}
	if err := mp.Shutdown(ctx); err != nil {
		log.Error("Failed to shutdown meter provider", zap.Error(err))
	}
	if err := tp.Shutdown(ctx); err != nil {
		log.Error("Failed to shutdown tracer provider", zap.Error(err))
	}
}

func migrate(db *persistence.Database, log *zap.Logger) error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	m, err := migration.New(sqlDB, log)
	if err != nil {
		return err
	}
	return m.Up()
}
