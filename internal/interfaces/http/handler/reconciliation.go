package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/goldbook/backend/internal/application/reconciliation"
	"github.com/goldbook/backend/internal/domain/catalog"
	"github.com/goldbook/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AdjustItemRequest is a manual correction of an item's balances
type AdjustItemRequest struct {
	FineWeight decimal.Decimal `json:"fine_weight"`
	NetWeight  decimal.Decimal `json:"net_weight"`
	Direction  string          `json:"direction" binding:"required,oneof=add subtract"`
}

// AdjustSupplierRequest is a manual correction of a supplier's balance
type AdjustSupplierRequest struct {
	SupplierName string          `json:"supplier_name" binding:"required,max=200"`
	FineGold     decimal.Decimal `json:"fine_gold"`
	Direction    string          `json:"direction" binding:"required,oneof=add subtract"`
}

// ReconciliationHandler exposes direct balance deltas
type ReconciliationHandler struct {
	BaseHandler
	service *reconciliation.Service
}

// NewReconciliationHandler creates a new ReconciliationHandler
func NewReconciliationHandler(service *reconciliation.Service) *ReconciliationHandler {
	return &ReconciliationHandler{service: service}
}

// AdjustItem handles POST /reconciliation/items/:id
func (h *ReconciliationHandler) AdjustItem(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	var req AdjustItemRequest
	if !h.bindJSON(c, &req) {
		return
	}

	err := h.service.AdjustItem(c.Request.Context(), catalog.ItemID(id), req.FineWeight, req.NetWeight, shared.Direction(req.Direction))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// AdjustSupplier handles POST /reconciliation/suppliers
func (h *ReconciliationHandler) AdjustSupplier(c *gin.Context) {
	var req AdjustSupplierRequest
	if !h.bindJSON(c, &req) {
		return
	}

	err := h.service.AdjustSupplier(c.Request.Context(), req.SupplierName, req.FineGold, shared.Direction(req.Direction))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
