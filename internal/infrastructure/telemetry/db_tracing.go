package telemetry

import (
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing.
type DBTracingConfig struct {
	Enabled         bool
	LogFullSQL      bool // keep query variables in spans
	SlowQueryThresh time.Duration
	// TracerProvider overrides the global provider, mostly for tests
	TracerProvider trace.TracerProvider
}

// DefaultDBTracingConfig returns default configuration for database tracing.
func DefaultDBTracingConfig() DBTracingConfig {
	return DBTracingConfig{
		SlowQueryThresh: 200 * time.Millisecond,
	}
}

const startedAtKey = "telemetry:started_at"

// RegisterDBTracing installs otelgorm on db and marks slow statements on
// their spans. It does nothing when tracing is disabled.
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SlowQueryThresh <= 0 {
		cfg.SlowQueryThresh = DefaultDBTracingConfig().SlowQueryThresh
	}

	opts := []otelgorm.Option{
		otelgorm.WithDBName("sqlite"),
		otelgorm.WithoutMetrics(),
	}
	if !cfg.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if cfg.TracerProvider != nil {
		opts = append(opts, otelgorm.WithTracerProvider(cfg.TracerProvider))
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	before := func(tx *gorm.DB) {
		tx.InstanceSet(startedAtKey, time.Now())
	}
	after := func(tx *gorm.DB) {
		v, ok := tx.InstanceGet(startedAtKey)
		if !ok {
			return
		}
		elapsed := time.Since(v.(time.Time))
		if elapsed < cfg.SlowQueryThresh {
			return
		}
		span := trace.SpanFromContext(tx.Statement.Context)
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.duration_ms", elapsed.Milliseconds()),
		)
		logger.Warn("Slow query",
			zap.String("table", tx.Statement.Table),
			zap.Duration("elapsed", elapsed))
	}

	cb := db.Callback()
	for _, reg := range []struct {
		name string
		err  error
	}{
		{"create:before", cb.Create().Before("gorm:create").Register("telemetry:before_create", before)},
		{"create:after", cb.Create().After("gorm:create").Register("telemetry:after_create", after)},
		{"query:before", cb.Query().Before("gorm:query").Register("telemetry:before_query", before)},
		{"query:after", cb.Query().After("gorm:query").Register("telemetry:after_query", after)},
		{"update:before", cb.Update().Before("gorm:update").Register("telemetry:before_update", before)},
		{"update:after", cb.Update().After("gorm:update").Register("telemetry:after_update", after)},
		{"delete:before", cb.Delete().Before("gorm:delete").Register("telemetry:before_delete", before)},
		{"delete:after", cb.Delete().After("gorm:delete").Register("telemetry:after_delete", after)},
		{"raw:before", cb.Raw().Before("gorm:raw").Register("telemetry:before_raw", before)},
		{"raw:after", cb.Raw().After("gorm:raw").Register("telemetry:after_raw", after)},
	} {
		if reg.err != nil {
			return reg.err
		}
	}

	logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", cfg.LogFullSQL),
		zap.Duration("slow_query_threshold", cfg.SlowQueryThresh))
	return nil
}
