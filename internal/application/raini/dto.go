package raini

import (
	"time"

	"github.com/goldbook/backend/internal/domain/raini"
	"github.com/shopspring/decimal"
)

// CompositionRequest carries the inputs of a refining calculation.
// LastEdited names the percentage the user typed last, copper or silver;
// the other one is balanced against it once if the pair does not sum to 100.
type CompositionRequest struct {
	PureGoldWeight   decimal.Decimal `json:"pure_gold_weight"`
	PurityPercentage decimal.Decimal `json:"purity_percentage"`
	CopperPercentage decimal.Decimal `json:"copper_percentage"`
	SilverPercentage decimal.Decimal `json:"silver_percentage"`
	LastEdited       string          `json:"last_edited" binding:"omitempty,oneof=copper silver"`
}

// CompleteRequest records the weight a refining job produced
type CompleteRequest struct {
	ActualWeight decimal.Decimal `json:"actual_weight"`
}

// ListOrdersFilter narrows the order listing; an empty status lists all
type ListOrdersFilter struct {
	Status string `form:"status" binding:"omitempty,oneof=Pending Completed"`
}

// CompositionResponse is a computed refining plan
type CompositionResponse struct {
	PureGoldWeight   decimal.Decimal `json:"pure_gold_weight"`
	PurityPercentage decimal.Decimal `json:"purity_percentage"`
	CopperPercentage decimal.Decimal `json:"copper_percentage"`
	SilverPercentage decimal.Decimal `json:"silver_percentage"`
	TotalWeight      decimal.Decimal `json:"total_weight"`
	ImpuritiesWeight decimal.Decimal `json:"impurities_weight"`
	CopperWeight     decimal.Decimal `json:"copper_weight"`
	SilverWeight     decimal.Decimal `json:"silver_weight"`
	OutputItemName   string          `json:"output_item_name"`
}

// OrderResponse represents a refining order in API responses
type OrderResponse struct {
	ID               int64            `json:"id"`
	PurityPercentage decimal.Decimal  `json:"purity_percentage"`
	PureGoldWeight   decimal.Decimal  `json:"pure_gold_weight"`
	ImpuritiesWeight decimal.Decimal  `json:"impurities_weight"`
	CopperPercentage decimal.Decimal  `json:"copper_percentage"`
	CopperWeight     decimal.Decimal  `json:"copper_weight"`
	SilverPercentage decimal.Decimal  `json:"silver_percentage"`
	SilverWeight     decimal.Decimal  `json:"silver_weight"`
	TotalWeight      decimal.Decimal  `json:"total_weight"`
	ActualWeight     *decimal.Decimal `json:"actual_weight"`
	OutputItemID     *int64           `json:"output_item_id"`
	Status           string           `json:"status"`
	CreatedAt        time.Time        `json:"created_at"`
	CompletedAt      *time.Time       `json:"completed_at"`
}

// ToCompositionResponse converts a composition to a response
func ToCompositionResponse(c raini.Composition) *CompositionResponse {
	return &CompositionResponse{
		PureGoldWeight:   c.PureGoldWeight,
		PurityPercentage: c.Purity,
		CopperPercentage: c.CopperPercentage,
		SilverPercentage: c.SilverPercentage,
		TotalWeight:      c.TotalWeight,
		ImpuritiesWeight: c.ImpuritiesWeight,
		CopperWeight:     c.CopperWeight,
		SilverWeight:     c.SilverWeight,
		OutputItemName:   raini.OutputItemName(c.Purity),
	}
}

// ToOrderResponse converts a refining order to a response
func ToOrderResponse(o *raini.Order) *OrderResponse {
	resp := &OrderResponse{
		ID:               int64(o.ID),
		PurityPercentage: o.PurityPercentage,
		PureGoldWeight:   o.PureGoldWeight,
		ImpuritiesWeight: o.ImpuritiesWeight,
		CopperPercentage: o.CopperPercentage,
		CopperWeight:     o.CopperWeight,
		SilverPercentage: o.SilverPercentage,
		SilverWeight:     o.SilverWeight,
		TotalWeight:      o.TotalWeight,
		Status:           string(o.Status),
		CreatedAt:        o.CreatedAt,
		CompletedAt:      o.CompletedAt,
	}
	if o.ActualWeight.Valid {
		actual := o.ActualWeight.Decimal
		resp.ActualWeight = &actual
	}
	if o.OutputItemID != nil {
		id := int64(*o.OutputItemID)
		resp.OutputItemID = &id
	}
	return resp
}

// ToOrderResponses converts refining orders to responses
func ToOrderResponses(orders []raini.Order) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i := range orders {
		out[i] = *ToOrderResponse(&orders[i])
	}
	return out
}
