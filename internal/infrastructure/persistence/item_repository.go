package persistence

import (
	"context"
	"strings"

	"github.com/goldbook/backend/internal/domain/catalog"
	"github.com/goldbook/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormItemRepository implements catalog.ItemRepository using GORM
type GormItemRepository struct {
	db *gorm.DB
}

// NewGormItemRepository creates a new GormItemRepository
func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

// FindByID finds an item by its ID
func (r *GormItemRepository) FindByID(ctx context.Context, id catalog.ItemID) (*catalog.Item, error) {
	var item catalog.Item
	if err := r.db.WithContext(ctx).First(&item, "item_id = ?", id).Error; err != nil {
		return nil, translateError(err, "item")
	}
	return &item, nil
}

// FindByName finds an item by its unique name
func (r *GormItemRepository) FindByName(ctx context.Context, name string) (*catalog.Item, error) {
	var item catalog.Item
	if err := r.db.WithContext(ctx).First(&item, "item_name = ?", strings.TrimSpace(name)).Error; err != nil {
		return nil, translateError(err, "item")
	}
	return &item, nil
}

// FindAll lists items ordered by name
func (r *GormItemRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Item, error) {
	var items []catalog.Item
	query := r.db.WithContext(ctx).Model(&catalog.Item{})
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("item_name LIKE ? OR item_code LIKE ? OR category LIKE ?", like, like, like)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := applyPaging(query, filter).Order("item_name").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Save creates a new item or updates the descriptive fields of an
// existing one. Balances are only written on create.
func (r *GormItemRepository) Save(ctx context.Context, item *catalog.Item) error {
	db := r.db.WithContext(ctx)
	if item.ID == 0 {
		return translateError(db.Create(item).Error, "item")
	}
	result := db.Model(item).Updates(map[string]any{
		"item_name":   item.Name,
		"item_code":   item.Code,
		"description": item.Description,
		"category":    item.Category,
		"is_active":   item.IsActive,
	})
	if result.Error != nil {
		return translateError(result.Error, "item")
	}
	if result.RowsAffected == 0 {
		return shared.NotFound("item not found")
	}
	return nil
}

// Delete deletes an item
func (r *GormItemRepository) Delete(ctx context.Context, id catalog.ItemID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Item{}, "item_id = ?", id)
	if result.Error != nil {
		return translateError(result.Error, "item")
	}
	if result.RowsAffected == 0 {
		return shared.NotFound("item not found")
	}
	return nil
}

// AdjustBalance adds the signed deltas to the running balances, rounded to
// shared.WeightPlaces so repeated REAL additions do not drift
func (r *GormItemRepository) AdjustBalance(ctx context.Context, id catalog.ItemID, fineDelta, netDelta decimal.Decimal) error {
	result := r.db.WithContext(ctx).Model(&catalog.Item{}).
		Where("item_id = ?", id).
		Updates(map[string]any{
			"fine_weight": gorm.Expr("ROUND(fine_weight + ?, ?)", fineDelta.InexactFloat64(), shared.WeightPlaces),
			"net_weight":  gorm.Expr("ROUND(net_weight + ?, ?)", netDelta.InexactFloat64(), shared.WeightPlaces),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NotFound("item not found")
	}
	return nil
}

// CountReferences counts ledger rows, karigar order lines and refining
// orders that point at the item
func (r *GormItemRepository) CountReferences(ctx context.Context, id catalog.ItemID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(`SELECT
		(SELECT COUNT(*) FROM ledger_entries WHERE item_id = ?) +
		(SELECT COUNT(*) FROM karigar_order_items WHERE item_id = ?) +
		(SELECT COUNT(*) FROM raini_orders WHERE output_item_id = ?)`, id, id, id).
		Scan(&count).Error
	return count, err
}

// GormReferenceDataRepository implements catalog.ReferenceDataRepository
type GormReferenceDataRepository struct {
	db *gorm.DB
}

// NewGormReferenceDataRepository creates a new GormReferenceDataRepository
func NewGormReferenceDataRepository(db *gorm.DB) *GormReferenceDataRepository {
	return &GormReferenceDataRepository{db: db}
}

// ListGoldTypes lists the known purities, purest first
func (r *GormReferenceDataRepository) ListGoldTypes(ctx context.Context) ([]catalog.GoldType, error) {
	var types []catalog.GoldType
	if err := r.db.WithContext(ctx).Order("purity_percentage DESC").Find(&types).Error; err != nil {
		return nil, err
	}
	return types, nil
}

// GetSetting reads a setting value
func (r *GormReferenceDataRepository) GetSetting(ctx context.Context, key string) (string, error) {
	var setting catalog.Setting
	if err := r.db.WithContext(ctx).First(&setting, "setting_key = ?", key).Error; err != nil {
		return "", translateError(err, "setting "+key)
	}
	return setting.Value, nil
}

// SetSetting creates or replaces a setting value
func (r *GormReferenceDataRepository) SetSetting(ctx context.Context, key, value string) error {
	return r.db.WithContext(ctx).Save(&catalog.Setting{Key: key, Value: value}).Error
}

var (
	_ catalog.ItemRepository          = (*GormItemRepository)(nil)
	_ catalog.ReferenceDataRepository = (*GormReferenceDataRepository)(nil)
)
