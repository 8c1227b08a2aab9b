package karigar

import (
	"context"

	"github.com/goldbook/backend/internal/domain/ledger"
	"github.com/goldbook/backend/internal/domain/partner"
)

// OrderFilter narrows an order listing. An empty status lists all orders.
type OrderFilter struct {
	Status    Status
	KarigarID partner.KarigarID
}

// OrderRepository defines the interface for karigar order persistence
type OrderRepository interface {
	ledger.SequenceSource

	Create(ctx context.Context, order *Order) error
	// SaveTotals persists status and totals of an existing order
	SaveTotals(ctx context.Context, order *Order) error
	AddItem(ctx context.Context, item *OrderItem) error
	FindByID(ctx context.Context, id OrderID) (*Order, error)
	List(ctx context.Context, filter OrderFilter) ([]Order, error)
	// SetStatus relabels the given orders in one statement
	SetStatus(ctx context.Context, ids []OrderID, status Status) (int64, error)
	// Delete removes the order and its lines
	Delete(ctx context.Context, id OrderID) error
}
