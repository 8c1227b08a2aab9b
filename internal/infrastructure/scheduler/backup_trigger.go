// Package scheduler runs the session-scoped daily backup.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/goldbook/backend/internal/infrastructure/backup"
	"go.uber.org/zap"
)

// BackupCreator writes one backup
type BackupCreator interface {
	Create(ctx context.Context) (*backup.Info, error)
}

// BackupTriggerConfig holds configuration for the daily backup trigger
type BackupTriggerConfig struct {
	// DailyAt is the local time of day to back up, "HH:MM"
	DailyAt string

	// CheckInterval is how often to check if it's time to run
	CheckInterval time.Duration
}

// DefaultBackupTriggerConfig returns default trigger configuration
func DefaultBackupTriggerConfig() BackupTriggerConfig {
	return BackupTriggerConfig{
		DailyAt:       "23:00",
		CheckInterval: 30 * time.Second,
	}
}

// BackupTrigger backs the store up once a day at a fixed local time
type BackupTrigger struct {
	hour          int
	minute        int
	checkInterval time.Duration
	creator       BackupCreator
	now           func() time.Time
	logger        *zap.Logger

	cancel      context.CancelFunc
	wg          sync.WaitGroup
	mu          sync.Mutex
	isRunning   bool
	lastRunDate string
}

// NewBackupTrigger creates a new daily backup trigger
func NewBackupTrigger(config BackupTriggerConfig, creator BackupCreator, logger *zap.Logger) (*BackupTrigger, error) {
	at, err := time.Parse("15:04", config.DailyAt)
	if err != nil {
		return nil, fmt.Errorf("invalid daily backup time %q: %w", config.DailyAt, err)
	}
	if config.CheckInterval <= 0 {
		config.CheckInterval = DefaultBackupTriggerConfig().CheckInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BackupTrigger{
		hour:          at.Hour(),
		minute:        at.Minute(),
		checkInterval: config.CheckInterval,
		creator:       creator,
		now:           time.Now,
		logger:        logger.Named("backup_trigger"),
	}, nil
}

// Start starts the trigger loop
func (c *BackupTrigger) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.isRunning = true
	c.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	c.wg.Add(1)
	go c.runLoop(ctx)

	c.logger.Info("Daily backup trigger started",
		zap.Int("hour", c.hour),
		zap.Int("minute", c.minute),
		zap.Duration("check_interval", c.checkInterval),
	)
	return nil
}

// Stop stops the trigger and waits for a running backup to finish
func (c *BackupTrigger) Stop(ctx context.Context) error {
	c.mu.Lock()
	if !c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.isRunning = false
	c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		c.logger.Info("Daily backup trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsRunning reports whether the loop is active
func (c *BackupTrigger) IsRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isRunning
}

func (c *BackupTrigger) runLoop(ctx context.Context) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.checkAndTrigger(ctx)
		}
	}
}

// checkAndTrigger runs the backup once the configured minute has been
// reached on a day it has not yet run
func (c *BackupTrigger) checkAndTrigger(ctx context.Context) {
	now := c.now()
	currentDate := now.Format("2006-01-02")

	c.mu.Lock()
	if c.lastRunDate == currentDate {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	if now.Hour()*60+now.Minute() < c.hour*60+c.minute {
		return
	}

	c.mu.Lock()
	c.lastRunDate = currentDate
	c.mu.Unlock()

	c.logger.Info("Triggering daily backup")
	info, err := c.creator.Create(ctx)
	if err != nil {
		c.logger.Error("Daily backup failed", zap.Error(err))
		return
	}
	c.logger.Info("Daily backup written", zap.String("name", info.Name))
}
