package catalog

import (
	"time"

	"github.com/goldbook/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CreateItemRequest represents a request to create a new item
type CreateItemRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=200"`
	Code        string `json:"code" binding:"max=50"`
	Description string `json:"description" binding:"max=2000"`
	Category    string `json:"category" binding:"max=100"`
}

// UpdateItemRequest represents a request to update an item. Balances are
// not editable here; nil fields keep their current value.
type UpdateItemRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=200"`
	Code        *string `json:"code" binding:"omitempty,max=50"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Category    *string `json:"category" binding:"omitempty,max=100"`
	IsActive    *bool   `json:"is_active"`
}

// BulkDeleteRequest names items to delete together
type BulkDeleteRequest struct {
	IDs []int64 `json:"ids" binding:"required,min=1"`
}

// ItemListFilter narrows an item listing
type ItemListFilter struct {
	Search     string `form:"search"`
	ActiveOnly bool   `form:"active_only"`
	Limit      int    `form:"limit" binding:"omitempty,min=1,max=1000"`
	Offset     int    `form:"offset" binding:"omitempty,min=0"`
}

// SetSettingRequest writes one setting
type SetSettingRequest struct {
	Value string `json:"value" binding:"required,max=200"`
}

// ItemResponse represents an item in API responses
type ItemResponse struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Label       string          `json:"label"`
	Code        string          `json:"code"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	IsActive    bool            `json:"is_active"`
	FineWeight  decimal.Decimal `json:"fine_weight"`
	NetWeight   decimal.Decimal `json:"net_weight"`
	CreatedAt   time.Time       `json:"created_at"`
}

// GoldTypeResponse represents a gold type in API responses
type GoldTypeResponse struct {
	ID               int64           `json:"id"`
	Name             string          `json:"name"`
	PurityPercentage decimal.Decimal `json:"purity_percentage"`
}

// SettingResponse represents one setting
type SettingResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ToItemResponse converts an item to a response
func ToItemResponse(i *catalog.Item) ItemResponse {
	return ItemResponse{
		ID:          int64(i.ID),
		Name:        i.Name,
		Label:       i.Label(),
		Code:        i.Code,
		Description: i.Description,
		Category:    i.Category,
		IsActive:    i.IsActive,
		FineWeight:  i.FineWeight,
		NetWeight:   i.NetWeight,
		CreatedAt:   i.CreatedAt,
	}
}

// ToItemResponses converts items to responses
func ToItemResponses(items []catalog.Item) []ItemResponse {
	out := make([]ItemResponse, len(items))
	for i := range items {
		out[i] = ToItemResponse(&items[i])
	}
	return out
}
