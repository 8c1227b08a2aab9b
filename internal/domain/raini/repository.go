package raini

import "context"

// OrderRepository defines the interface for refining order persistence
type OrderRepository interface {
	Create(ctx context.Context, order *Order) error
	Save(ctx context.Context, order *Order) error
	FindByID(ctx context.Context, id OrderID) (*Order, error)
	// List returns orders newest first; an empty status lists all
	List(ctx context.Context, status Status) ([]Order, error)
	Delete(ctx context.Context, id OrderID) error
	Totals(ctx context.Context) (Totals, error)
}
