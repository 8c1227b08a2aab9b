package persistence

import (
	"context"
	"time"

	"github.com/goldbook/backend/internal/domain/karigar"
	"github.com/goldbook/backend/internal/domain/raini"
	"github.com/goldbook/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormKarigarOrderRepository implements karigar.OrderRepository using GORM
type GormKarigarOrderRepository struct {
	db *gorm.DB
}

// NewGormKarigarOrderRepository creates a new GormKarigarOrderRepository
func NewGormKarigarOrderRepository(db *gorm.DB) *GormKarigarOrderRepository {
	return &GormKarigarOrderRepository{db: db}
}

// MaxSequence returns the highest stored sequence for prefix on day
func (r *GormKarigarOrderRepository) MaxSequence(ctx context.Context, prefix string, day time.Time) (int, error) {
	return maxSequence(ctx, r.db, "karigar_orders", prefix, day)
}

// RefIDExists reports whether an order carries refID
func (r *GormKarigarOrderRepository) RefIDExists(ctx context.Context, refID string) (bool, error) {
	return refIDExists(ctx, r.db, "karigar_orders", refID)
}

// Create inserts the order together with its lines
func (r *GormKarigarOrderRepository) Create(ctx context.Context, order *karigar.Order) error {
	return translateError(r.db.WithContext(ctx).Create(order).Error, "karigar order")
}

// SaveTotals persists status and totals of an existing order
func (r *GormKarigarOrderRepository) SaveTotals(ctx context.Context, order *karigar.Order) error {
	result := r.db.WithContext(ctx).Model(&karigar.Order{}).
		Where("order_id = ?", order.ID).
		Updates(map[string]any{
			"issued_total":   order.IssuedTotal,
			"received_total": order.ReceivedTotal,
			"balance_total":  order.BalanceTotal,
			"status":         order.Status,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NotFound("karigar order not found")
	}
	return nil
}

// AddItem appends a line to an existing order
func (r *GormKarigarOrderRepository) AddItem(ctx context.Context, item *karigar.OrderItem) error {
	return translateError(r.db.WithContext(ctx).Create(item).Error, "karigar order line")
}

// FindByID loads an order with its lines
func (r *GormKarigarOrderRepository) FindByID(ctx context.Context, id karigar.OrderID) (*karigar.Order, error) {
	var order karigar.Order
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_item_id") }).
		First(&order, "order_id = ?", id).Error; err != nil {
		return nil, translateError(err, "karigar order")
	}
	return &order, nil
}

// List returns orders newest first without their lines
func (r *GormKarigarOrderRepository) List(ctx context.Context, filter karigar.OrderFilter) ([]karigar.Order, error) {
	query := r.db.WithContext(ctx).Model(&karigar.Order{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.KarigarID != 0 {
		query = query.Where("karigar_id = ?", filter.KarigarID)
	}

	var orders []karigar.Order
	if err := query.Order("created_at DESC").Order("order_id DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// SetStatus relabels the given orders in one statement
func (r *GormKarigarOrderRepository) SetStatus(ctx context.Context, ids []karigar.OrderID, status karigar.Status) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Model(&karigar.Order{}).
		Where("order_id IN ?", ids).
		Update("status", status)
	return result.RowsAffected, result.Error
}

// Delete removes the order and its lines
func (r *GormKarigarOrderRepository) Delete(ctx context.Context, id karigar.OrderID) error {
	db := r.db.WithContext(ctx)
	if err := db.Delete(&karigar.OrderItem{}, "order_id = ?", id).Error; err != nil {
		return err
	}
	result := db.Delete(&karigar.Order{}, "order_id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NotFound("karigar order not found")
	}
	return nil
}

// GormRainiOrderRepository implements raini.OrderRepository using GORM
type GormRainiOrderRepository struct {
	db *gorm.DB
}

// NewGormRainiOrderRepository creates a new GormRainiOrderRepository
func NewGormRainiOrderRepository(db *gorm.DB) *GormRainiOrderRepository {
	return &GormRainiOrderRepository{db: db}
}

// Create inserts a refining order
func (r *GormRainiOrderRepository) Create(ctx context.Context, order *raini.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// Save rewrites an existing refining order
func (r *GormRainiOrderRepository) Save(ctx context.Context, order *raini.Order) error {
	result := r.db.WithContext(ctx).Model(order).Select("*").Omit("raini_id").Updates(order)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NotFound("raini order not found")
	}
	return nil
}

// FindByID finds a refining order
func (r *GormRainiOrderRepository) FindByID(ctx context.Context, id raini.OrderID) (*raini.Order, error) {
	var order raini.Order
	if err := r.db.WithContext(ctx).First(&order, "raini_id = ?", id).Error; err != nil {
		return nil, translateError(err, "raini order")
	}
	return &order, nil
}

// List returns orders newest first; an empty status lists all
func (r *GormRainiOrderRepository) List(ctx context.Context, status raini.Status) ([]raini.Order, error) {
	query := r.db.WithContext(ctx).Model(&raini.Order{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var orders []raini.Order
	if err := query.Order("created_at DESC").Order("raini_id DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Delete removes a refining order
func (r *GormRainiOrderRepository) Delete(ctx context.Context, id raini.OrderID) error {
	result := r.db.WithContext(ctx).Delete(&raini.Order{}, "raini_id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NotFound("raini order not found")
	}
	return nil
}

// Totals sums completed output and counts pending orders
func (r *GormRainiOrderRepository) Totals(ctx context.Context) (raini.Totals, error) {
	var row struct {
		CompletedActual float64
		PendingCount    int64
		PendingTotal    float64
	}
	err := r.db.WithContext(ctx).Model(&raini.Order{}).
		Select(`COALESCE(SUM(CASE WHEN status = ? THEN actual_weight END), 0) AS completed_actual,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS pending_count,
			COALESCE(SUM(CASE WHEN status = ? THEN total_weight END), 0) AS pending_total`,
			raini.StatusCompleted, raini.StatusPending, raini.StatusPending).
		Scan(&row).Error
	if err != nil {
		return raini.Totals{}, err
	}
	return raini.Totals{
		CompletedActualWeight: decimal.NewFromFloat(row.CompletedActual),
		PendingCount:          row.PendingCount,
		PendingTotalWeight:    decimal.NewFromFloat(row.PendingTotal),
	}, nil
}

var (
	_ karigar.OrderRepository = (*GormKarigarOrderRepository)(nil)
	_ raini.OrderRepository   = (*GormRainiOrderRepository)(nil)
)
