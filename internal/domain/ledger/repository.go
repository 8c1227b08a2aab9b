package ledger

import (
	"context"
	"time"
)

// EntryFilter narrows a ledger listing. From is inclusive, To exclusive.
type EntryFilter struct {
	SupplierName string
	Type         TxType
	From         *time.Time
	To           *time.Time
	Limit        int
}

// EntryRepository defines the interface for ledger persistence
type EntryRepository interface {
	SequenceSource

	Create(ctx context.Context, entry *Entry) error
	Update(ctx context.Context, entry *Entry) error
	FindByID(ctx context.Context, id EntryID) (*Entry, error)
	FindByRefID(ctx context.Context, refID string) ([]Entry, error)
	DeleteByID(ctx context.Context, id EntryID) error
	DeleteByRefID(ctx context.Context, refID string) (int64, error)

	// List returns entries ordered by date descending, then reference id
	List(ctx context.Context, filter EntryFilter) ([]Entry, error)
}
