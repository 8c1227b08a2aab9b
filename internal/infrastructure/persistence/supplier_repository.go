package persistence

import (
	"context"
	"strings"

	"github.com/goldbook/backend/internal/domain/ledger"
	"github.com/goldbook/backend/internal/domain/partner"
	"github.com/goldbook/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormSupplierRepository implements partner.SupplierRepository using GORM
type GormSupplierRepository struct {
	db *gorm.DB
}

// NewGormSupplierRepository creates a new GormSupplierRepository
func NewGormSupplierRepository(db *gorm.DB) *GormSupplierRepository {
	return &GormSupplierRepository{db: db}
}

// FindByID finds a supplier by its ID
func (r *GormSupplierRepository) FindByID(ctx context.Context, id partner.SupplierID) (*partner.Supplier, error) {
	var supplier partner.Supplier
	if err := r.db.WithContext(ctx).First(&supplier, "supplier_id = ?", id).Error; err != nil {
		return nil, translateError(err, "supplier")
	}
	return &supplier, nil
}

// FindByName finds a supplier by its unique name
func (r *GormSupplierRepository) FindByName(ctx context.Context, name string) (*partner.Supplier, error) {
	var supplier partner.Supplier
	if err := r.db.WithContext(ctx).First(&supplier, "supplier_name = ?", strings.TrimSpace(name)).Error; err != nil {
		return nil, translateError(err, "supplier")
	}
	return &supplier, nil
}

// FindAll lists suppliers ordered by name
func (r *GormSupplierRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Supplier, error) {
	var suppliers []partner.Supplier
	query := r.db.WithContext(ctx).Model(&partner.Supplier{})
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("supplier_name LIKE ? OR contact_person LIKE ? OR phone LIKE ?", like, like, like)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := applyPaging(query, filter).Order("supplier_name").Find(&suppliers).Error; err != nil {
		return nil, err
	}
	return suppliers, nil
}

// Save creates a supplier or updates the contact fields of an existing one.
// The balance is only written on create.
func (r *GormSupplierRepository) Save(ctx context.Context, supplier *partner.Supplier) error {
	db := r.db.WithContext(ctx)
	if supplier.ID == 0 {
		return translateError(db.Create(supplier).Error, "supplier")
	}
	result := db.Model(supplier).Updates(map[string]any{
		"supplier_name":  supplier.Name,
		"contact_person": supplier.ContactPerson,
		"phone":          supplier.Phone,
		"email":          supplier.Email,
		"address":        supplier.Address,
		"gst_number":     supplier.GSTNumber,
		"is_active":      supplier.IsActive,
	})
	if result.Error != nil {
		return translateError(result.Error, "supplier")
	}
	if result.RowsAffected == 0 {
		return shared.NotFound("supplier not found")
	}
	return nil
}

// Delete deletes a supplier
func (r *GormSupplierRepository) Delete(ctx context.Context, id partner.SupplierID) error {
	result := r.db.WithContext(ctx).Delete(&partner.Supplier{}, "supplier_id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NotFound("supplier not found")
	}
	return nil
}

// AdjustBalance adds delta to the balance of the named supplier, rounded to
// shared.WeightPlaces
func (r *GormSupplierRepository) AdjustBalance(ctx context.Context, name string, delta decimal.Decimal) error {
	result := r.db.WithContext(ctx).Model(&partner.Supplier{}).
		Where("supplier_name = ?", name).
		Update("balance", gorm.Expr("ROUND(balance + ?, ?)", delta.InexactFloat64(), shared.WeightPlaces))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NotFound("supplier " + name + " not found")
	}
	return nil
}

// RenameInLedger rewrites the supplier name stored on ledger rows
func (r *GormSupplierRepository) RenameInLedger(ctx context.Context, oldName, newName string) error {
	return r.db.WithContext(ctx).Model(&ledger.Entry{}).
		Where("supplier_name = ?", oldName).
		Update("supplier_name", newName).Error
}

// CountLedgerEntries counts ledger rows recorded against the supplier name
func (r *GormSupplierRepository) CountLedgerEntries(ctx context.Context, name string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&ledger.Entry{}).
		Where("supplier_name = ?", name).
		Count(&count).Error
	return count, err
}

// GormKarigarRepository implements partner.KarigarRepository using GORM
type GormKarigarRepository struct {
	db *gorm.DB
}

// NewGormKarigarRepository creates a new GormKarigarRepository
func NewGormKarigarRepository(db *gorm.DB) *GormKarigarRepository {
	return &GormKarigarRepository{db: db}
}

// FindByID finds a karigar by its ID
func (r *GormKarigarRepository) FindByID(ctx context.Context, id partner.KarigarID) (*partner.Karigar, error) {
	var k partner.Karigar
	if err := r.db.WithContext(ctx).First(&k, "freelancer_id = ?", id).Error; err != nil {
		return nil, translateError(err, "karigar")
	}
	return &k, nil
}

// FindAll lists karigars ordered by name
func (r *GormKarigarRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Karigar, error) {
	var karigars []partner.Karigar
	query := r.db.WithContext(ctx).Model(&partner.Karigar{})
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("full_name LIKE ? OR specialization LIKE ?", like, like)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := applyPaging(query, filter).Order("full_name").Find(&karigars).Error; err != nil {
		return nil, err
	}
	return karigars, nil
}

// Save creates or updates a karigar
func (r *GormKarigarRepository) Save(ctx context.Context, k *partner.Karigar) error {
	return translateError(r.db.WithContext(ctx).Save(k).Error, "karigar")
}

// Delete deletes a karigar
func (r *GormKarigarRepository) Delete(ctx context.Context, id partner.KarigarID) error {
	result := r.db.WithContext(ctx).Delete(&partner.Karigar{}, "freelancer_id = ?", id)
	if result.Error != nil {
		return translateError(result.Error, "karigar")
	}
	if result.RowsAffected == 0 {
		return shared.NotFound("karigar not found")
	}
	return nil
}

// CountOrders counts karigar orders of any status
func (r *GormKarigarRepository) CountOrders(ctx context.Context, id partner.KarigarID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Table("karigar_orders").
		Where("karigar_id = ?", id).
		Count(&count).Error
	return count, err
}

var (
	_ partner.SupplierRepository = (*GormSupplierRepository)(nil)
	_ partner.KarigarRepository  = (*GormKarigarRepository)(nil)
)
