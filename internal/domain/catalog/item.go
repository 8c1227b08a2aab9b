package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/goldbook/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ItemID identifies an item
type ItemID int64

// Item is a stocked gold article. FineWeight and NetWeight are running
// balances in grams; they only move through balance adjustments and are
// never recomputed from history.
type Item struct {
	ID          ItemID          `gorm:"column:item_id;primaryKey;autoIncrement"`
	Name        string          `gorm:"column:item_name;type:varchar(200);not null;uniqueIndex"`
	Code        string          `gorm:"column:item_code;type:varchar(50)"`
	Description string          `gorm:"type:text"`
	Category    string          `gorm:"type:varchar(100)"`
	IsActive    bool            `gorm:"not null;default:true"`
	FineWeight  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	NetWeight   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CreatedAt   time.Time       `gorm:"column:created_date;not null"`
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "items"
}

// NewItem creates an active item with zero balances
func NewItem(name, code, description, category string) (*Item, error) {
	name = strings.TrimSpace(name)
	if err := validateItemName(name); err != nil {
		return nil, err
	}
	return &Item{
		Name:        name,
		Code:        strings.TrimSpace(code),
		Description: description,
		Category:    strings.TrimSpace(category),
		IsActive:    true,
		FineWeight:  decimal.Zero,
		NetWeight:   decimal.Zero,
		CreatedAt:   time.Now(),
	}, nil
}

// Update replaces the descriptive fields. Balances are left untouched.
func (i *Item) Update(name, code, description, category string, active bool) error {
	name = strings.TrimSpace(name)
	if err := validateItemName(name); err != nil {
		return err
	}
	i.Name = name
	i.Code = strings.TrimSpace(code)
	i.Description = description
	i.Category = strings.TrimSpace(category)
	i.IsActive = active
	return nil
}

// Label is the display text used in pickers: "<id> - <name>"
func (i *Item) Label() string {
	return fmt.Sprintf("%d - %s", i.ID, i.Name)
}

func validateItemName(name string) error {
	if name == "" {
		return shared.InvalidInput("Item name is required")
	}
	if len(name) > 200 {
		return shared.InvalidInput("Item name cannot exceed 200 characters")
	}
	return nil
}
