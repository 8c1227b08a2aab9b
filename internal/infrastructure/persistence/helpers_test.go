package persistence

import (
	"testing"

	"github.com/goldbook/backend/internal/infrastructure/migration"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
)

// newTestDatabase opens a private in-memory store with every migration applied
func newTestDatabase(t *testing.T) *Database {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=on"
	db, err := NewDatabaseWithDialector(sqlite.Open(dsn), zaptest.NewLogger(t))
	require.NoError(t, err)

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	m, err := migration.New(sqlDB, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NoError(t, m.Up())

	t.Cleanup(func() { _ = db.Close() })
	return db
}
