package persistence

import (
	"context"

	"github.com/goldbook/backend/internal/application/store"
	"github.com/goldbook/backend/internal/domain/catalog"
	"github.com/goldbook/backend/internal/domain/karigar"
	"github.com/goldbook/backend/internal/domain/ledger"
	"github.com/goldbook/backend/internal/domain/partner"
	"github.com/goldbook/backend/internal/domain/raini"
	"gorm.io/gorm"
)

// GormTransactionScope implements store.TransactionScope using GORM transactions
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn within a database transaction. If fn returns an error
// the transaction is rolled back, otherwise it is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos store.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGormRepositories(tx))
	})
}

// GormRepositories builds every repository on one handle, either the
// base connection or an open transaction
type GormRepositories struct {
	db *gorm.DB
}

// NewGormRepositories creates repositories bound to db
func NewGormRepositories(db *gorm.DB) *GormRepositories {
	return &GormRepositories{db: db}
}

// Items returns the item repository
func (r *GormRepositories) Items() catalog.ItemRepository {
	return NewGormItemRepository(r.db)
}

// ReferenceData returns the gold type and settings repository
func (r *GormRepositories) ReferenceData() catalog.ReferenceDataRepository {
	return NewGormReferenceDataRepository(r.db)
}

// Suppliers returns the supplier repository
func (r *GormRepositories) Suppliers() partner.SupplierRepository {
	return NewGormSupplierRepository(r.db)
}

// Karigars returns the karigar repository
func (r *GormRepositories) Karigars() partner.KarigarRepository {
	return NewGormKarigarRepository(r.db)
}

// Ledger returns the ledger repository
func (r *GormRepositories) Ledger() ledger.EntryRepository {
	return NewGormLedgerRepository(r.db)
}

// KarigarOrders returns the karigar order repository
func (r *GormRepositories) KarigarOrders() karigar.OrderRepository {
	return NewGormKarigarOrderRepository(r.db)
}

// RainiOrders returns the refining order repository
func (r *GormRepositories) RainiOrders() raini.OrderRepository {
	return NewGormRainiOrderRepository(r.db)
}

var (
	_ store.TransactionScope = (*GormTransactionScope)(nil)
	_ store.Repositories     = (*GormRepositories)(nil)
)
