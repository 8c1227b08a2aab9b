package partner

import (
	"context"

	"github.com/goldbook/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SupplierRepository defines the interface for supplier persistence
type SupplierRepository interface {
	FindByID(ctx context.Context, id SupplierID) (*Supplier, error)
	FindByName(ctx context.Context, name string) (*Supplier, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Supplier, error)
	Save(ctx context.Context, supplier *Supplier) error
	Delete(ctx context.Context, id SupplierID) error

	// AdjustBalance adds delta to the balance of the supplier with the given
	// name. Ledger rows carry supplier names, not ids.
	AdjustBalance(ctx context.Context, name string, delta decimal.Decimal) error

	// RenameInLedger rewrites the denormalized supplier name on ledger rows
	RenameInLedger(ctx context.Context, oldName, newName string) error

	// CountLedgerEntries counts ledger rows recorded against the supplier name
	CountLedgerEntries(ctx context.Context, name string) (int64, error)
}

// KarigarRepository defines the interface for karigar persistence
type KarigarRepository interface {
	FindByID(ctx context.Context, id KarigarID) (*Karigar, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Karigar, error)
	Save(ctx context.Context, karigar *Karigar) error
	Delete(ctx context.Context, id KarigarID) error

	// CountOrders counts karigar orders of any status for the karigar
	CountOrders(ctx context.Context, id KarigarID) (int64, error)
}
