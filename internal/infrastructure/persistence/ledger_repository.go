package persistence

import (
	"context"
	"time"

	"github.com/goldbook/backend/internal/domain/ledger"
	"github.com/goldbook/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// maxSequence returns the highest "/NNN" suffix stored in table.ref_id for
// references of prefix on day, or 0
func maxSequence(ctx context.Context, db *gorm.DB, table, prefix string, day time.Time) (int, error) {
	dayPrefix := ledger.RefIDDayPrefix(prefix, day)
	var seq int
	err := db.WithContext(ctx).Table(table).
		Select("COALESCE(MAX(CAST(SUBSTR(ref_id, ?) AS INTEGER)), 0)", len(dayPrefix)+1).
		Where("ref_id LIKE ?", dayPrefix+"%").
		Scan(&seq).Error
	return seq, err
}

func refIDExists(ctx context.Context, db *gorm.DB, table, refID string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Table(table).Where("ref_id = ?", refID).Count(&count).Error
	return count > 0, err
}

// GormLedgerRepository implements ledger.EntryRepository using GORM
type GormLedgerRepository struct {
	db *gorm.DB
}

// NewGormLedgerRepository creates a new GormLedgerRepository
func NewGormLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

// MaxSequence returns the highest stored sequence for prefix on day
func (r *GormLedgerRepository) MaxSequence(ctx context.Context, prefix string, day time.Time) (int, error) {
	return maxSequence(ctx, r.db, "ledger_entries", prefix, day)
}

// RefIDExists reports whether any row carries refID
func (r *GormLedgerRepository) RefIDExists(ctx context.Context, refID string) (bool, error) {
	return refIDExists(ctx, r.db, "ledger_entries", refID)
}

// Create inserts a ledger row
func (r *GormLedgerRepository) Create(ctx context.Context, entry *ledger.Entry) error {
	return translateError(r.db.WithContext(ctx).Create(entry).Error, "ledger entry")
}

// Update rewrites every column of an existing ledger row
func (r *GormLedgerRepository) Update(ctx context.Context, entry *ledger.Entry) error {
	result := r.db.WithContext(ctx).Model(entry).Select("*").Omit("entry_id").Updates(entry)
	if result.Error != nil {
		return translateError(result.Error, "ledger entry")
	}
	if result.RowsAffected == 0 {
		return shared.NotFound("ledger entry not found")
	}
	return nil
}

// FindByID finds a single ledger row
func (r *GormLedgerRepository) FindByID(ctx context.Context, id ledger.EntryID) (*ledger.Entry, error) {
	var entry ledger.Entry
	if err := r.db.WithContext(ctx).First(&entry, "entry_id = ?", id).Error; err != nil {
		return nil, translateError(err, "ledger entry")
	}
	return &entry, nil
}

// FindByRefID returns every row of a transaction in insertion order
func (r *GormLedgerRepository) FindByRefID(ctx context.Context, refID string) ([]ledger.Entry, error) {
	var entries []ledger.Entry
	if err := r.db.WithContext(ctx).
		Where("ref_id = ?", refID).
		Order("entry_id").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// DeleteByID deletes a single ledger row
func (r *GormLedgerRepository) DeleteByID(ctx context.Context, id ledger.EntryID) error {
	result := r.db.WithContext(ctx).Delete(&ledger.Entry{}, "entry_id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NotFound("ledger entry not found")
	}
	return nil
}

// DeleteByRefID deletes every row of a transaction
func (r *GormLedgerRepository) DeleteByRefID(ctx context.Context, refID string) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&ledger.Entry{}, "ref_id = ?", refID)
	return result.RowsAffected, result.Error
}

// List returns entries ordered by date descending, then reference id
func (r *GormLedgerRepository) List(ctx context.Context, filter ledger.EntryFilter) ([]ledger.Entry, error) {
	query := r.db.WithContext(ctx).Model(&ledger.Entry{})
	if filter.SupplierName != "" {
		query = query.Where("supplier_name = ?", filter.SupplierName)
	}
	if filter.Type.IsValid() {
		query = query.Where("ref_id LIKE ?", filter.Type.Prefix()+"%")
	}
	if filter.From != nil {
		query = query.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("date < ?", *filter.To)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var entries []ledger.Entry
	if err := query.Order("date DESC").Order("ref_id").Order("entry_id").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

var _ ledger.EntryRepository = (*GormLedgerRepository)(nil)
