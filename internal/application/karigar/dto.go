package karigar

import (
	"time"

	"github.com/goldbook/backend/internal/domain/karigar"
	"github.com/shopspring/decimal"
)

// LineRequest is one issued or received row of an order form
type LineRequest struct {
	ItemID int64           `json:"item_id" binding:"required,min=1"`
	Weight decimal.Decimal `json:"weight"`
}

// CreateOrderRequest represents a request to issue work to a karigar
type CreateOrderRequest struct {
	KarigarID int64         `json:"karigar_id" binding:"required,min=1"`
	Issued    []LineRequest `json:"issued" binding:"dive"`
	Received  []LineRequest `json:"received" binding:"dive"`
}

// TopUpRequest adds lines to an order still in progress
type TopUpRequest struct {
	Issued   []LineRequest `json:"issued" binding:"dive"`
	Received []LineRequest `json:"received" binding:"dive"`
}

// MarkStatusRequest relabels several orders at once
type MarkStatusRequest struct {
	IDs    []int64 `json:"ids" binding:"required,min=1"`
	Status string  `json:"status" binding:"required,oneof='in progress' completed"`
}

// ListOrdersFilter narrows the order listing. Status defaults to in
// progress; "all" lists every order.
type ListOrdersFilter struct {
	Status    string `form:"status"`
	KarigarID int64  `form:"karigar_id"`
}

// OrderItemResponse represents an order line in API responses
type OrderItemResponse struct {
	ID        int64           `json:"id"`
	ItemID    int64           `json:"item_id"`
	ItemName  string          `json:"item_name"`
	Direction string          `json:"direction"`
	Weight    decimal.Decimal `json:"weight"`
	CreatedAt time.Time       `json:"created_at"`
}

// OrderResponse represents a karigar order in API responses
type OrderResponse struct {
	ID            int64               `json:"id"`
	RefID         string              `json:"ref_id"`
	KarigarID     int64               `json:"karigar_id"`
	KarigarName   string              `json:"karigar_name"`
	IssuedTotal   decimal.Decimal     `json:"issued_total"`
	ReceivedTotal decimal.Decimal     `json:"received_total"`
	BalanceTotal  decimal.Decimal     `json:"balance_total"`
	Status        string              `json:"status"`
	CreatedAt     time.Time           `json:"created_at"`
	Items         []OrderItemResponse `json:"items,omitempty"`
}

// ToOrderResponse converts an order to a response
func ToOrderResponse(o *karigar.Order) *OrderResponse {
	resp := &OrderResponse{
		ID:            int64(o.ID),
		RefID:         o.RefID,
		KarigarID:     int64(o.KarigarID),
		KarigarName:   o.KarigarName,
		IssuedTotal:   o.IssuedTotal,
		ReceivedTotal: o.ReceivedTotal,
		BalanceTotal:  o.BalanceTotal,
		Status:        string(o.Status),
		CreatedAt:     o.CreatedAt,
	}
	for _, it := range o.Items {
		resp.Items = append(resp.Items, OrderItemResponse{
			ID:        it.ID,
			ItemID:    int64(it.ItemID),
			ItemName:  it.ItemName,
			Direction: string(it.Direction),
			Weight:    it.Weight,
			CreatedAt: it.CreatedAt,
		})
	}
	return resp
}

// ToOrderResponses converts orders to responses
func ToOrderResponses(orders []karigar.Order) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i := range orders {
		out[i] = *ToOrderResponse(&orders[i])
	}
	return out
}
