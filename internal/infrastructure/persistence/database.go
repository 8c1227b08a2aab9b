package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/goldbook/backend/internal/infrastructure/config"
	"github.com/goldbook/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// slowStatementThreshold is when a statement is logged as slow
const slowStatementThreshold = 200 * time.Millisecond

// Database holds the store connection and provides the record store
// operations used by the rest of the application.
type Database struct {
	DB     *gorm.DB
	logger *zap.Logger
}

// NewDatabase opens the SQLite store at cfg.Path. logLevel is the
// application log level and controls statement tracing.
func NewDatabase(cfg *config.DatabaseConfig, logLevel string, log *zap.Logger) (*Database, error) {
	return open(sqlite.Open(cfg.DSN()), logLevel, log)
}

// NewDatabaseWithDialector opens the store through a prepared dialector
func NewDatabaseWithDialector(dialector gorm.Dialector, log *zap.Logger) (*Database, error) {
	return open(dialector, "silent", log)
}

func open(dialector gorm.Dialector, logLevel string, log *zap.Logger) (*Database, error) {
	if log == nil {
		log = zap.NewNop()
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 logger.NewGormLogger(log, logger.MapGormLogLevel(logLevel), slowStatementThreshold),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// SQLite allows a single writer; one connection serialises every
	// statement and keeps ATTACH and PRAGMA state on the same handle.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Database{DB: db, logger: log.Named("store")}, nil
}

// ExecuteQuery runs a read statement and returns the rows as column maps
func (d *Database) ExecuteQuery(ctx context.Context, query string, args ...any) ([]map[string]any, error) {
	rows := make([]map[string]any, 0)
	if err := d.DB.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		d.logger.Error("query failed", zap.String("query", query), zap.Error(err))
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	return rows, nil
}

// ExecuteUpdate runs a write statement in its own transaction and returns
// the number of affected rows. Nothing is kept when the statement fails.
func (d *Database) ExecuteUpdate(ctx context.Context, query string, args ...any) (int64, error) {
	var affected int64
	err := d.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Exec(query, args...)
		if result.Error != nil {
			return result.Error
		}
		affected = result.RowsAffected
		return nil
	})
	if err != nil {
		d.logger.Error("update failed, rolled back", zap.String("query", query), zap.Error(err))
		return 0, fmt.Errorf("failed to execute update: %w", err)
	}
	return affected, nil
}

// Transaction executes a function within a database transaction
func (d *Database) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return d.DB.WithContext(ctx).Transaction(fn)
}

// Close closes the database connection
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// Ping checks if the database connection is alive
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Ping()
}

// Stats returns database connection pool statistics
func (d *Database) Stats() (ConnectionStats, error) {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return ConnectionStats{}, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	stats := sqlDB.Stats()
	return ConnectionStats{
		MaxOpenConnections: stats.MaxOpenConnections,
		OpenConnections:    stats.OpenConnections,
		InUse:              stats.InUse,
		Idle:               stats.Idle,
		WaitCount:          stats.WaitCount,
		WaitDuration:       stats.WaitDuration,
	}, nil
}

// ConnectionStats holds database connection pool statistics
type ConnectionStats struct {
	MaxOpenConnections int
	OpenConnections    int
	InUse              int
	Idle               int
	WaitCount          int64
	WaitDuration       time.Duration
}
