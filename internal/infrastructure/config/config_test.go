package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	keys := []string{
		"GOLDBOOK_APP_NAME",
		"GOLDBOOK_APP_ENV",
		"GOLDBOOK_HTTP_HOST",
		"GOLDBOOK_HTTP_PORT",
		"GOLDBOOK_DATABASE_PATH",
		"GOLDBOOK_DATABASE_AUTO_MIGRATE",
		"GOLDBOOK_BACKUP_DIR",
		"GOLDBOOK_BACKUP_DAILY_ENABLED",
		"GOLDBOOK_BACKUP_DAILY_AT",
		"GOLDBOOK_STORAGE_ENABLED",
		"GOLDBOOK_STORAGE_BUCKET",
		"GOLDBOOK_STORAGE_ACCESS_KEY",
		"GOLDBOOK_STORAGE_SECRET_KEY",
		"GOLDBOOK_TELEMETRY_ENABLED",
		"GOLDBOOK_TELEMETRY_ENDPOINT",
		"GOLDBOOK_TELEMETRY_SAMPLING_RATIO",
	}
	clearEnv := func(t *testing.T) {
		for _, k := range keys {
			t.Setenv(k, "")
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "goldbook", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "127.0.0.1:8765", cfg.HTTP.Addr())
		assert.Equal(t, "gold_jewelry.db", cfg.Database.Path)
		assert.Equal(t, 5*time.Second, cfg.Database.BusyTimeout)
		assert.True(t, cfg.Database.AutoMigrate)
		assert.Equal(t, "backups", cfg.Backup.Dir)
		assert.Equal(t, "23:00", cfg.Backup.DailyAt)
		assert.False(t, cfg.Backup.DailyEnabled)
		assert.False(t, cfg.Storage.Enabled)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.False(t, cfg.Telemetry.Enabled)
		assert.Equal(t, "localhost:4317", cfg.Telemetry.Endpoint)
		assert.Equal(t, 1.0, cfg.Telemetry.SamplingRatio)
		assert.True(t, cfg.Telemetry.DBTracing)
		assert.Equal(t, 200*time.Millisecond, cfg.Telemetry.SlowQuery)
	})

	t.Run("loads values from environment variables with GOLDBOOK prefix", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GOLDBOOK_APP_NAME", "shop")
		t.Setenv("GOLDBOOK_HTTP_PORT", "9000")
		t.Setenv("GOLDBOOK_DATABASE_PATH", "/tmp/shop.db")
		t.Setenv("GOLDBOOK_DATABASE_AUTO_MIGRATE", "false")
		t.Setenv("GOLDBOOK_BACKUP_DAILY_ENABLED", "true")
		t.Setenv("GOLDBOOK_BACKUP_DAILY_AT", "06:30")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "shop", cfg.App.Name)
		assert.Equal(t, "9000", cfg.HTTP.Port)
		assert.Equal(t, "/tmp/shop.db", cfg.Database.Path)
		assert.False(t, cfg.Database.AutoMigrate)
		assert.True(t, cfg.Backup.DailyEnabled)
		assert.Equal(t, "06:30", cfg.Backup.DailyAt)
	})

	t.Run("rejects malformed daily backup time", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GOLDBOOK_BACKUP_DAILY_AT", "25:99")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "backup.daily_at")
	})

	t.Run("requires bucket and keys when storage is enabled", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GOLDBOOK_STORAGE_ENABLED", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage.bucket")

		t.Setenv("GOLDBOOK_STORAGE_BUCKET", "gold")
		_, err = Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage.access_key")
	})

	t.Run("loads telemetry settings", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GOLDBOOK_TELEMETRY_ENABLED", "true")
		t.Setenv("GOLDBOOK_TELEMETRY_ENDPOINT", "collector:4317")
		t.Setenv("GOLDBOOK_TELEMETRY_SAMPLING_RATIO", "0.25")

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.Telemetry.Enabled)
		assert.Equal(t, "collector:4317", cfg.Telemetry.Endpoint)
		assert.Equal(t, 0.25, cfg.Telemetry.SamplingRatio)

		t.Setenv("GOLDBOOK_TELEMETRY_SAMPLING_RATIO", "1.5")
		_, err = Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "telemetry.sampling_ratio")
	})

	t.Run("refuses non-loopback host in production", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GOLDBOOK_APP_ENV", "production")
		t.Setenv("GOLDBOOK_HTTP_HOST", "0.0.0.0")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "loopback")
	})
}

func TestDatabaseConfigDSN(t *testing.T) {
	cfg := DatabaseConfig{Path: "data/gold.db", BusyTimeout: 2 * time.Second}
	assert.Equal(t, "file:data/gold.db?_foreign_keys=on&_busy_timeout=2000", cfg.DSN())
}
