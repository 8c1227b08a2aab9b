package handler

import (
	"github.com/gin-gonic/gin"
	rainiapp "github.com/goldbook/backend/internal/application/raini"
	"github.com/goldbook/backend/internal/domain/raini"
)

// RainiHandler handles the refining calculator and its orders
type RainiHandler struct {
	BaseHandler
	orderService *rainiapp.OrderService
}

// NewRainiHandler creates a new RainiHandler
func NewRainiHandler(orderService *rainiapp.OrderService) *RainiHandler {
	return &RainiHandler{orderService: orderService}
}

// Calculate handles POST /raini/calculate. Nothing is stored.
func (h *RainiHandler) Calculate(c *gin.Context) {
	var req rainiapp.CompositionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	comp, err := h.orderService.Calculate(req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, comp)
}

// Create handles POST /raini/orders
func (h *RainiHandler) Create(c *gin.Context) {
	var req rainiapp.CompositionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	order, err := h.orderService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// List handles GET /raini/orders
func (h *RainiHandler) List(c *gin.Context) {
	var filter rainiapp.ListOrdersFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	orders, err := h.orderService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, orders)
}

// GetByID handles GET /raini/orders/:id
func (h *RainiHandler) GetByID(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	order, err := h.orderService.Get(c.Request.Context(), raini.OrderID(id))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Complete handles POST /raini/orders/:id/complete
func (h *RainiHandler) Complete(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	var req rainiapp.CompleteRequest
	if !h.bindJSON(c, &req) {
		return
	}

	order, err := h.orderService.Complete(c.Request.Context(), raini.OrderID(id), req.ActualWeight)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Delete handles DELETE /raini/orders/:id
func (h *RainiHandler) Delete(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	if err := h.orderService.Delete(c.Request.Context(), raini.OrderID(id)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Totals handles GET /raini/totals
func (h *RainiHandler) Totals(c *gin.Context) {
	totals, err := h.orderService.Totals(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, totals)
}
