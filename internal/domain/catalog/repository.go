package catalog

import (
	"context"

	"github.com/goldbook/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ItemRepository defines the interface for item persistence
type ItemRepository interface {
	FindByID(ctx context.Context, id ItemID) (*Item, error)
	FindByName(ctx context.Context, name string) (*Item, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Item, error)
	Save(ctx context.Context, item *Item) error
	Delete(ctx context.Context, id ItemID) error

	// AdjustBalance adds the signed deltas to the running balances in a
	// single statement. Returns shared.ErrNotFound when the item is missing.
	AdjustBalance(ctx context.Context, id ItemID, fineDelta, netDelta decimal.Decimal) error

	// CountReferences counts ledger rows and order lines that mention the item
	CountReferences(ctx context.Context, id ItemID) (int64, error)
}

// ReferenceDataRepository reads gold types and reads/writes settings
type ReferenceDataRepository interface {
	ListGoldTypes(ctx context.Context) ([]GoldType, error)
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
}
