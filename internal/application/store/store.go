// Package store defines the repository set application services work
// against and the transaction boundary that hands them out.
package store

import (
	"context"

	"github.com/goldbook/backend/internal/domain/catalog"
	"github.com/goldbook/backend/internal/domain/karigar"
	"github.com/goldbook/backend/internal/domain/ledger"
	"github.com/goldbook/backend/internal/domain/partner"
	"github.com/goldbook/backend/internal/domain/raini"
)

// TransactionScope runs a unit of work atomically
type TransactionScope interface {
	// Execute runs fn within a database transaction. If fn returns an
	// error every write made through repos is rolled back.
	Execute(ctx context.Context, fn func(repos Repositories) error) error
}

// Repositories gives access to every repository. Repositories handed to a
// TransactionScope callback share its transaction.
type Repositories interface {
	Items() catalog.ItemRepository
	ReferenceData() catalog.ReferenceDataRepository
	Suppliers() partner.SupplierRepository
	Karigars() partner.KarigarRepository
	Ledger() ledger.EntryRepository
	KarigarOrders() karigar.OrderRepository
	RainiOrders() raini.OrderRepository
}
