package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/goldbook/backend/internal/domain/catalog"
	"github.com/goldbook/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TxType is the kind of a ledger transaction
type TxType string

const (
	TypeSale     TxType = "sale"
	TypePurchase TxType = "purchase"
)

// Prefix returns the reference id prefix of the type
func (t TxType) Prefix() string {
	if t == TypePurchase {
		return "P"
	}
	return "S"
}

// IsValid reports whether the type is known
func (t TxType) IsValid() bool {
	return t == TypeSale || t == TypePurchase
}

// ItemDirection is how a line of this type moves item inventory:
// a sale takes gold out, a purchase brings it in.
func (t TxType) ItemDirection() shared.Direction {
	if t == TypePurchase {
		return shared.DirectionAdd
	}
	return shared.DirectionSubtract
}

// SupplierDirection is how a line of this type moves the supplier balance,
// always opposite to the item movement.
func (t TxType) SupplierDirection() shared.Direction {
	return t.ItemDirection().Inverse()
}

// ParseTxType converts user input into a TxType
func ParseTxType(s string) (TxType, error) {
	t := TxType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", shared.InvalidInput(fmt.Sprintf("transaction type must be %q or %q", TypeSale, TypePurchase))
	}
	return t, nil
}

// TypeOfRefID derives the transaction type from a reference id prefix
func TypeOfRefID(refID string) (TxType, error) {
	switch {
	case strings.HasPrefix(refID, "S"):
		return TypeSale, nil
	case strings.HasPrefix(refID, "P"):
		return TypePurchase, nil
	default:
		return "", shared.InvalidInput(fmt.Sprintf("reference id %q is neither a sale nor a purchase", refID))
	}
}

// EntryID identifies a single ledger row
type EntryID int64

// Entry is one line of a sale or purchase. Rows sharing a RefID form one
// transaction. NetWeight and FineGold are always derived from the raw
// weights and percentages.
type Entry struct {
	ID                EntryID         `gorm:"column:entry_id;primaryKey;autoIncrement"`
	RefID             string          `gorm:"column:ref_id;type:varchar(20);not null;index"`
	SupplierName      string          `gorm:"column:supplier_name;type:varchar(200);not null;index"`
	ItemID            catalog.ItemID  `gorm:"column:item_id;not null;index"`
	ItemName          string          `gorm:"column:item_name;type:varchar(200)"`
	GrossWeight       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	LessWeight        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	NetWeight         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TunchPercentage   decimal.Decimal `gorm:"type:decimal(8,4);not null"`
	WastagePercentage decimal.Decimal `gorm:"type:decimal(8,4);not null"`
	FineGold          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Date              time.Time       `gorm:"column:date;not null;index"`
	Notes             string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Entry) TableName() string {
	return "ledger_entries"
}

// Type derives the transaction type from the reference id
func (e *Entry) Type() TxType {
	t, _ := TypeOfRefID(e.RefID)
	return t
}

// Measure holds the raw weights of a line
type Measure struct {
	Gross   decimal.Decimal
	Less    decimal.Decimal
	Tunch   decimal.Decimal
	Wastage decimal.Decimal
}

// Derive computes net = gross - less and
// fine = net/100*tunch + net/100*wastage.
func (m Measure) Derive() (net, fine decimal.Decimal) {
	net = m.Gross.Sub(m.Less)
	fine = shared.PercentOf(net, m.Tunch).Add(shared.PercentOf(net, m.Wastage))
	return net, fine
}

// Validate checks ranges of a measure that is going to be saved
func (m Measure) Validate() error {
	if !m.Gross.IsPositive() {
		return shared.InvalidInput("Gross weight must be greater than zero")
	}
	if m.Less.IsNegative() {
		return shared.InvalidInput("Less weight cannot be negative")
	}
	if m.Less.GreaterThan(m.Gross) {
		return shared.InvalidInput("Less weight cannot exceed gross weight")
	}
	if !shared.IsPercentage(m.Tunch) {
		return shared.InvalidInput("Tunch must be between 0 and 100")
	}
	if !shared.IsPercentage(m.Wastage) {
		return shared.InvalidInput("Wastage must be between 0 and 100")
	}
	return nil
}

// NewEntry builds a ledger row with derived net weight and fine gold
func NewEntry(refID, supplierName string, item *catalog.Item, m Measure, date time.Time, notes string) (*Entry, error) {
	if _, err := TypeOfRefID(refID); err != nil {
		return nil, err
	}
	e := &Entry{RefID: refID, Date: date, Notes: notes}
	if err := e.Revise(supplierName, item, m); err != nil {
		return nil, err
	}
	return e, nil
}

// Revise replaces supplier, item and raw weights and re-derives the
// computed fields. Used by the single-row update path.
func (e *Entry) Revise(supplierName string, item *catalog.Item, m Measure) error {
	supplierName = strings.TrimSpace(supplierName)
	if supplierName == "" {
		return shared.InvalidInput("Supplier is required")
	}
	if item == nil {
		return shared.InvalidInput("Item is required")
	}
	if err := m.Validate(); err != nil {
		return err
	}

	net, fine := m.Derive()
	e.SupplierName = supplierName
	e.ItemID = item.ID
	e.ItemName = item.Name
	e.GrossWeight = m.Gross
	e.LessWeight = m.Less
	e.NetWeight = net
	e.TunchPercentage = m.Tunch
	e.WastagePercentage = m.Wastage
	e.FineGold = fine
	return nil
}

// Measure returns the raw weights of the row
func (e *Entry) Measure() Measure {
	return Measure{
		Gross:   e.GrossWeight,
		Less:    e.LessWeight,
		Tunch:   e.TunchPercentage,
		Wastage: e.WastagePercentage,
	}
}

// Effect is the balance movement a ledger row causes
type Effect struct {
	ItemID       catalog.ItemID
	SupplierName string
	Fine         decimal.Decimal
	Net          decimal.Decimal
	IsPurchase   bool
}

// Effect returns the balance movement of the row
func (e *Entry) Effect() Effect {
	return Effect{
		ItemID:       e.ItemID,
		SupplierName: e.SupplierName,
		Fine:         e.FineGold,
		Net:          e.NetWeight,
		IsPurchase:   e.Type() == TypePurchase,
	}
}

// TxType returns the type the effect belongs to
func (ef Effect) TxType() TxType {
	if ef.IsPurchase {
		return TypePurchase
	}
	return TypeSale
}
