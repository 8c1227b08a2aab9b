package karigar

import (
	"fmt"
	"time"

	"github.com/goldbook/backend/internal/domain/catalog"
	"github.com/goldbook/backend/internal/domain/partner"
	"github.com/goldbook/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// RefPrefix is the reference id prefix of karigar orders
const RefPrefix = "KO"

// Status is the lifecycle state of a karigar order
type Status string

const (
	StatusInProgress Status = "in progress"
	StatusCompleted  Status = "completed"
)

// IsValid reports whether the status is known
func (s Status) IsValid() bool {
	return s == StatusInProgress || s == StatusCompleted
}

// ParseStatus converts user input into a Status
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", shared.InvalidInput(fmt.Sprintf("status must be %q or %q", StatusInProgress, StatusCompleted))
	}
	return st, nil
}

// Direction tells whether gold went to the karigar or came back
type Direction string

const (
	DirectionIssued   Direction = "issued"
	DirectionReceived Direction = "received"
)

// InventoryDirection is how an order line moves item inventory: issued
// gold leaves stock, received goods enter it.
func (d Direction) InventoryDirection() shared.Direction {
	if d == DirectionReceived {
		return shared.DirectionAdd
	}
	return shared.DirectionSubtract
}

// OrderID identifies a karigar order
type OrderID int64

// Order tracks gold issued to and received back from a karigar. The totals
// are maintained sums of the line weights.
type Order struct {
	ID            OrderID           `gorm:"column:order_id;primaryKey;autoIncrement"`
	RefID         string            `gorm:"column:ref_id;type:varchar(20);not null;uniqueIndex"`
	KarigarID     partner.KarigarID `gorm:"column:karigar_id;not null;index"`
	KarigarName   string            `gorm:"type:varchar(200)"`
	IssuedTotal   decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	ReceivedTotal decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	BalanceTotal  decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	Status        Status            `gorm:"type:varchar(20);not null;default:'in progress'"`
	CreatedAt     time.Time         `gorm:"not null"`
	Items         []OrderItem       `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "karigar_orders"
}

// OrderItem is an append-only record of one issued or received weight
type OrderItem struct {
	ID        int64           `gorm:"column:order_item_id;primaryKey;autoIncrement"`
	OrderID   OrderID         `gorm:"column:order_id;not null;index"`
	ItemID    catalog.ItemID  `gorm:"column:item_id;not null"`
	ItemName  string          `gorm:"type:varchar(200)"`
	Direction Direction       `gorm:"type:varchar(10);not null"`
	Weight    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "karigar_order_items"
}

// LineInput is one issued or received row entered for an order
type LineInput struct {
	ItemID catalog.ItemID
	Weight decimal.Decimal
}

// NewOrder creates an in-progress order for the karigar
func NewOrder(refID string, k *partner.Karigar) (*Order, error) {
	if k == nil {
		return nil, shared.InvalidInput("Please select a karigar")
	}
	if refID == "" {
		return nil, shared.InvalidInput("Order reference is required")
	}
	return &Order{
		RefID:         refID,
		KarigarID:     k.ID,
		KarigarName:   k.FullName,
		IssuedTotal:   decimal.Zero,
		ReceivedTotal: decimal.Zero,
		BalanceTotal:  decimal.Zero,
		Status:        StatusInProgress,
		CreatedAt:     time.Now(),
	}, nil
}

// AddLine records a new issued or received weight and moves the totals by
// exactly that weight. Earlier lines are never touched.
func (o *Order) AddLine(item *catalog.Item, dir Direction, weight decimal.Decimal) (*OrderItem, error) {
	if o.Status != StatusInProgress {
		return nil, shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("order %s is %s and cannot be changed", o.RefID, o.Status))
	}
	if item == nil {
		return nil, shared.InvalidInput("Item is required")
	}
	if !weight.IsPositive() {
		return nil, shared.InvalidInput("Weight must be greater than zero")
	}

	switch dir {
	case DirectionIssued:
		o.IssuedTotal = o.IssuedTotal.Add(weight)
	case DirectionReceived:
		o.ReceivedTotal = o.ReceivedTotal.Add(weight)
	default:
		return nil, shared.InvalidInput("Direction must be issued or received")
	}
	o.BalanceTotal = o.IssuedTotal.Sub(o.ReceivedTotal)

	line := OrderItem{
		OrderID:   o.ID,
		ItemID:    item.ID,
		ItemName:  item.Name,
		Direction: dir,
		Weight:    weight,
		CreatedAt: time.Now(),
	}
	o.Items = append(o.Items, line)
	return &line, nil
}

// SetStatus relabels the order. No inventory moves.
func (o *Order) SetStatus(s Status) error {
	if !s.IsValid() {
		return shared.InvalidInput("Unknown order status")
	}
	o.Status = s
	return nil
}

// RecomputedTotals sums the lines; it should always equal the stored totals
func (o *Order) RecomputedTotals() (issued, received decimal.Decimal) {
	issued, received = decimal.Zero, decimal.Zero
	for _, it := range o.Items {
		if it.Direction == DirectionIssued {
			issued = issued.Add(it.Weight)
		} else {
			received = received.Add(it.Weight)
		}
	}
	return issued, received
}
