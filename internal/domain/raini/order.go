package raini

import (
	"fmt"
	"time"

	"github.com/goldbook/backend/internal/domain/catalog"
	"github.com/goldbook/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Status is the state of a refining order
type Status string

const (
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
)

// OutputCategory is the item category refining output is filed under
const OutputCategory = "Raini"

// OrderID identifies a refining order
type OrderID int64

// Order is a refining job: the planned composition plus, once completed,
// the weight actually produced and the item it was credited to.
type Order struct {
	ID               OrderID             `gorm:"column:raini_id;primaryKey;autoIncrement"`
	PurityPercentage decimal.Decimal     `gorm:"type:decimal(8,4);not null"`
	PureGoldWeight   decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	ImpuritiesWeight decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	CopperPercentage decimal.Decimal     `gorm:"type:decimal(8,4);not null"`
	CopperWeight     decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	SilverPercentage decimal.Decimal     `gorm:"type:decimal(8,4);not null"`
	SilverWeight     decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	TotalWeight      decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	ActualWeight     decimal.NullDecimal `gorm:"type:decimal(18,4)"`
	OutputItemID     *catalog.ItemID     `gorm:"column:output_item_id"`
	Status           Status              `gorm:"type:varchar(20);not null;default:'Pending'"`
	CreatedAt        time.Time           `gorm:"not null"`
	CompletedAt      *time.Time
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "raini_orders"
}

// NewOrder creates a pending order from a computed composition
func NewOrder(c Composition) *Order {
	return &Order{
		PurityPercentage: c.Purity,
		PureGoldWeight:   c.PureGoldWeight,
		ImpuritiesWeight: c.ImpuritiesWeight,
		CopperPercentage: c.CopperPercentage,
		CopperWeight:     c.CopperWeight,
		SilverPercentage: c.SilverPercentage,
		SilverWeight:     c.SilverWeight,
		TotalWeight:      c.TotalWeight,
		Status:           StatusPending,
		CreatedAt:        time.Now(),
	}
}

// PurityLabel renders the purity with at most two decimals and no trailing
// zeros: 75 -> "75", 91.60 -> "91.6".
func PurityLabel(purity decimal.Decimal) string {
	return purity.Round(2).String()
}

// OutputItemName is the inventory item refining output of a purity goes to
func OutputItemName(purity decimal.Decimal) string {
	return fmt.Sprintf("Raini (%s)", PurityLabel(purity))
}

// OutputItemDescription describes an item created for refining output
func OutputItemDescription(purity decimal.Decimal) string {
	return fmt.Sprintf("Raini output %s%%", PurityLabel(purity))
}

// Credit returns the fine and net weight an actual output adds to stock
func Credit(actual, purity decimal.Decimal) (fine, net decimal.Decimal) {
	return shared.PercentOf(actual, purity), actual
}

// Complete records the produced weight against the output item
func (o *Order) Complete(actual decimal.Decimal, item *catalog.Item) error {
	if o.Status != StatusPending {
		return shared.NewDomainError(shared.CodeInvalidState, "Raini order is already completed")
	}
	if !actual.IsPositive() {
		return shared.InvalidInput("Actual weight must be greater than zero")
	}
	if item == nil {
		return shared.InvalidInput("Output item is required")
	}
	now := time.Now()
	o.ActualWeight = decimal.NewNullDecimal(actual)
	o.OutputItemID = &item.ID
	o.Status = StatusCompleted
	o.CompletedAt = &now
	return nil
}

// IsCompleted reports whether the output has been credited
func (o *Order) IsCompleted() bool {
	return o.Status == StatusCompleted
}

// Totals summarises refining orders
type Totals struct {
	CompletedActualWeight decimal.Decimal `json:"completed_actual_weight"`
	PendingCount          int64           `json:"pending_count"`
	PendingTotalWeight    decimal.Decimal `json:"pending_total_weight"`
}
