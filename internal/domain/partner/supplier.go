package partner

import (
	"strings"
	"time"

	"github.com/goldbook/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SupplierID identifies a supplier
type SupplierID int64

// Supplier is a trading counterparty. Balance is the running fine-gold
// position in grams: a sale raises it and a purchase lowers it.
type Supplier struct {
	ID            SupplierID      `gorm:"column:supplier_id;primaryKey;autoIncrement"`
	Name          string          `gorm:"column:supplier_name;type:varchar(200);not null;uniqueIndex"`
	ContactPerson string          `gorm:"type:varchar(100)"`
	Phone         string          `gorm:"type:varchar(50)"`
	Email         string          `gorm:"type:varchar(200)"`
	Address       string          `gorm:"type:text"`
	GSTNumber     string          `gorm:"column:gst_number;type:varchar(50)"`
	IsActive      bool            `gorm:"not null;default:true"`
	Balance       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CreatedAt     time.Time       `gorm:"column:created_date;not null"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// SupplierContact groups the optional contact fields
type SupplierContact struct {
	ContactPerson string
	Phone         string
	Email         string
	Address       string
	GSTNumber     string
}

// NewSupplier creates an active supplier with a zero balance
func NewSupplier(name string, contact SupplierContact) (*Supplier, error) {
	s := &Supplier{
		IsActive:  true,
		Balance:   decimal.Zero,
		CreatedAt: time.Now(),
	}
	if err := s.apply(name, contact); err != nil {
		return nil, err
	}
	return s, nil
}

// Update replaces name and contact fields. The balance is left untouched.
func (s *Supplier) Update(name string, contact SupplierContact, active bool) error {
	if err := s.apply(name, contact); err != nil {
		return err
	}
	s.IsActive = active
	return nil
}

func (s *Supplier) apply(name string, contact SupplierContact) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.InvalidInput("Supplier name is required")
	}
	if len(name) > 200 {
		return shared.InvalidInput("Supplier name cannot exceed 200 characters")
	}
	email := strings.TrimSpace(contact.Email)
	if email != "" && !strings.Contains(email, "@") {
		return shared.InvalidInput("Please enter a valid email address")
	}

	s.Name = name
	s.ContactPerson = strings.TrimSpace(contact.ContactPerson)
	s.Phone = strings.TrimSpace(contact.Phone)
	s.Email = email
	s.Address = contact.Address
	s.GSTNumber = strings.ToUpper(strings.TrimSpace(contact.GSTNumber))
	return nil
}
