// Package testutil provides common test utilities: a migrated in-memory
// store, fixtures and weight assertions.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/goldbook/backend/internal/domain/catalog"
	"github.com/goldbook/backend/internal/domain/partner"
	"github.com/goldbook/backend/internal/domain/shared"
	"github.com/goldbook/backend/internal/infrastructure/migration"
	"github.com/goldbook/backend/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
)

// TestDB is a private in-memory store with every migration applied
type TestDB struct {
	*persistence.Database
	Scope *persistence.GormTransactionScope
	Repos *persistence.GormRepositories
}

// NewTestDB opens a fresh store for one test and closes it on cleanup
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=on"
	db, err := persistence.NewDatabaseWithDialector(sqlite.Open(dsn), zaptest.NewLogger(t))
	require.NoError(t, err, "Failed to open test store")

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	m, err := migration.New(sqlDB, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NoError(t, m.Up(), "Failed to migrate test store")

	t.Cleanup(func() { _ = db.Close() })

	return &TestDB{
		Database: db,
		Scope:    persistence.NewGormTransactionScope(db.DB),
		Repos:    persistence.NewGormRepositories(db.DB),
	}
}

// MustItem creates an item with zero balances
func (db *TestDB) MustItem(t *testing.T, name string) *catalog.Item {
	t.Helper()
	item, err := catalog.NewItem(name, "", "", "")
	require.NoError(t, err)
	require.NoError(t, db.Repos.Items().Save(context.Background(), item))
	return item
}

// MustSupplier creates a supplier with a zero balance
func (db *TestDB) MustSupplier(t *testing.T, name string) *partner.Supplier {
	t.Helper()
	s, err := partner.NewSupplier(name, partner.SupplierContact{})
	require.NoError(t, err)
	require.NoError(t, db.Repos.Suppliers().Save(context.Background(), s))
	return s
}

// MustKarigar creates an active karigar
func (db *TestDB) MustKarigar(t *testing.T, name string) *partner.Karigar {
	t.Helper()
	k, err := partner.NewKarigar(name, partner.KarigarDetails{})
	require.NoError(t, err)
	require.NoError(t, db.Repos.Karigars().Save(context.Background(), k))
	return k
}

// Item reloads an item
func (db *TestDB) Item(t *testing.T, id catalog.ItemID) *catalog.Item {
	t.Helper()
	item, err := db.Repos.Items().FindByID(context.Background(), id)
	require.NoError(t, err)
	return item
}

// Supplier reloads a supplier by name
func (db *TestDB) Supplier(t *testing.T, name string) *partner.Supplier {
	t.Helper()
	s, err := db.Repos.Suppliers().FindByName(context.Background(), name)
	require.NoError(t, err)
	return s
}

// Dec parses a decimal literal
func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// NullDec parses a decimal literal into a set NullDecimal
func NullDec(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(Dec(s))
}

// Day returns local midnight of the given date
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.Local)
}

// AssertWeight compares weights at stored precision
func AssertWeight(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) bool {
	t.Helper()
	return assert.Equal(t, Dec(want).Round(shared.WeightPlaces).String(),
		got.Round(shared.WeightPlaces).String(), msgAndArgs...)
}

// AssertEventually retries condition until it passes or times out
func AssertEventually(t *testing.T, condition func() bool, timeout, interval time.Duration, msgAndArgs ...any) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(interval)
	}
	t.Fatalf("Condition not met within %v: %v", timeout, msgAndArgs)
}
