package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/goldbook/backend/internal/infrastructure/backup"
	"github.com/goldbook/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type countingCreator struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (c *countingCreator) Create(context.Context) (*backup.Info, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return &backup.Info{Name: "gold_jewelry_backup_20240115_230000.db"}, nil
}

func (c *countingCreator) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// clock is a settable time source
type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

func at(day, hour, minute int) time.Time {
	return time.Date(2024, time.January, day, hour, minute, 0, 0, time.Local)
}

func TestNewBackupTrigger_InvalidTime(t *testing.T) {
	_, err := NewBackupTrigger(BackupTriggerConfig{DailyAt: "25:99"}, &countingCreator{}, nil)
	require.Error(t, err)
}

func TestBackupTrigger_CheckAndTrigger(t *testing.T) {
	ctx := context.Background()
	creator := &countingCreator{}
	trigger, err := NewBackupTrigger(BackupTriggerConfig{DailyAt: "23:00"}, creator, nil)
	require.NoError(t, err)
	clk := &clock{}
	trigger.now = clk.now

	clk.set(at(15, 22, 59))
	trigger.checkAndTrigger(ctx)
	assert.Equal(t, 0, creator.count(), "too early")

	clk.set(at(15, 23, 0))
	trigger.checkAndTrigger(ctx)
	assert.Equal(t, 1, creator.count())

	clk.set(at(15, 23, 30))
	trigger.checkAndTrigger(ctx)
	assert.Equal(t, 1, creator.count(), "once per day")

	clk.set(at(16, 8, 0))
	trigger.checkAndTrigger(ctx)
	assert.Equal(t, 1, creator.count(), "re-armed for the next day")

	clk.set(at(16, 23, 1))
	trigger.checkAndTrigger(ctx)
	assert.Equal(t, 2, creator.count())
}

func TestBackupTrigger_LogsFailure(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	creator := &countingCreator{err: errors.New("disk full")}
	trigger, err := NewBackupTrigger(BackupTriggerConfig{DailyAt: "00:00"}, creator, zap.New(core))
	require.NoError(t, err)

	trigger.checkAndTrigger(context.Background())
	assert.Equal(t, 1, creator.count())
	assert.Equal(t, 1, logs.FilterMessage("Daily backup failed").Len())
}

func TestBackupTrigger_StartStop(t *testing.T) {
	creator := &countingCreator{}
	trigger, err := NewBackupTrigger(BackupTriggerConfig{DailyAt: "00:00", CheckInterval: 5 * time.Millisecond}, creator, nil)
	require.NoError(t, err)

	require.NoError(t, trigger.Start(context.Background()))
	require.NoError(t, trigger.Start(context.Background()), "second start is a no-op")
	assert.True(t, trigger.IsRunning())

	testutil.AssertEventually(t, func() bool { return creator.count() == 1 }, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, trigger.Stop(ctx))
	assert.False(t, trigger.IsRunning())
	assert.Equal(t, 1, creator.count())
}
