package persistence

import (
	"context"

	"github.com/goldbook/backend/internal/domain/report"
	"gorm.io/gorm"
)

// GormReportRepository implements report.Repository using GORM
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// ItemBalances returns every item's running balances ordered by name
func (r *GormReportRepository) ItemBalances(ctx context.Context, activeOnly bool) ([]report.ItemBalance, error) {
	var rows []report.ItemBalance
	query := r.db.WithContext(ctx).Table("items").
		Select("item_id, item_name, category, fine_weight, net_weight")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Order("item_name ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// WorkOrders returns karigar orders, newest first, optionally of one status
func (r *GormReportRepository) WorkOrders(ctx context.Context, status string) ([]report.WorkOrderRow, error) {
	var rows []report.WorkOrderRow
	query := r.db.WithContext(ctx).Table("karigar_orders").
		Select("order_id, ref_id, karigar_name, issued_total, received_total, balance_total, status, created_at")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Order("created_at DESC, order_id DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// WorkOrderLines returns the lines of karigar orders, optionally of one
// order status, in entry order
func (r *GormReportRepository) WorkOrderLines(ctx context.Context, status string) ([]report.WorkOrderLine, error) {
	var rows []report.WorkOrderLine
	query := r.db.WithContext(ctx).Table("karigar_order_items i").
		Select("i.order_id, i.item_name, i.direction, i.weight, i.created_at").
		Joins("JOIN karigar_orders o ON o.order_id = i.order_id")
	if status != "" {
		query = query.Where("o.status = ?", status)
	}
	if err := query.Order("i.order_item_id ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FreelancerSummaries sums order totals per karigar. Karigars without orders
// are included with zero sums.
func (r *GormReportRepository) FreelancerSummaries(ctx context.Context) ([]report.FreelancerSummary, error) {
	var rows []report.FreelancerSummary
	err := r.db.WithContext(ctx).Table("freelancers f").
		Select(`
			f.freelancer_id AS karigar_id,
			f.full_name,
			COUNT(o.order_id) AS orders,
			COALESCE(SUM(o.issued_total), 0) AS issued,
			COALESCE(SUM(o.received_total), 0) AS received,
			COALESCE(SUM(o.balance_total), 0) AS balance
		`).
		Joins("LEFT JOIN karigar_orders o ON o.karigar_id = f.freelancer_id").
		Group("f.freelancer_id, f.full_name").
		Order("f.full_name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// SupplierWastage sums net * wastage / 100 per supplier over the period
func (r *GormReportRepository) SupplierWastage(ctx context.Context, period report.Period) ([]report.SupplierWastage, error) {
	var rows []report.SupplierWastage
	query := r.db.WithContext(ctx).Table("ledger_entries").
		Select(`
			supplier_name,
			COUNT(*) AS entries,
			COALESCE(SUM(net_weight), 0) AS net_weight,
			COALESCE(SUM(net_weight * wastage_percentage / 100), 0) AS wastage
		`)
	query = withinPeriod(query, period).
		Group("supplier_name").
		Order("supplier_name ASC")
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// MonthlySummaries groups ledger rows by month and transaction type
func (r *GormReportRepository) MonthlySummaries(ctx context.Context, period report.Period) ([]report.MonthlySummary, error) {
	var rows []report.MonthlySummary
	query := r.db.WithContext(ctx).Table("ledger_entries").
		Select(`
			SUBSTR(date, 1, 7) AS month,
			COALESCE(SUM(CASE WHEN ref_id LIKE 'S%' THEN fine_gold ELSE 0 END), 0) AS sale_fine,
			COALESCE(SUM(CASE WHEN ref_id LIKE 'S%' THEN net_weight ELSE 0 END), 0) AS sale_net,
			COALESCE(SUM(CASE WHEN ref_id LIKE 'P%' THEN fine_gold ELSE 0 END), 0) AS purchase_fine,
			COALESCE(SUM(CASE WHEN ref_id LIKE 'P%' THEN net_weight ELSE 0 END), 0) AS purchase_net
		`)
	query = withinPeriod(query, period).
		Group("SUBSTR(date, 1, 7)").
		Order("month ASC")
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func withinPeriod(query *gorm.DB, period report.Period) *gorm.DB {
	if period.From != nil {
		query = query.Where("date >= ?", *period.From)
	}
	if period.To != nil {
		query = query.Where("date < ?", *period.To)
	}
	return query
}
