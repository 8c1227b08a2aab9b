package catalog

import "github.com/shopspring/decimal"

// GoldType is a purity grade offered in pickers (24K, 22K, ...)
type GoldType struct {
	ID     int64           `gorm:"column:gold_type_id;primaryKey;autoIncrement"`
	Name   string          `gorm:"column:type_name;type:varchar(20);not null;uniqueIndex"`
	Purity decimal.Decimal `gorm:"column:purity_percentage;type:decimal(6,2);not null"`
}

// TableName returns the table name for GORM
func (GoldType) TableName() string {
	return "gold_types"
}

// Setting is a key/value application setting
type Setting struct {
	Key   string `gorm:"column:setting_key;primaryKey"`
	Value string `gorm:"column:setting_value;not null"`
}

// TableName returns the table name for GORM
func (Setting) TableName() string {
	return "settings"
}

// SettingGoldPricePerGram is informational only; no balance uses it.
const SettingGoldPricePerGram = "gold_price_per_gram"
