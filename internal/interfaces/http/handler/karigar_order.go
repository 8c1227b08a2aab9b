package handler

import (
	"github.com/gin-gonic/gin"
	karigarapp "github.com/goldbook/backend/internal/application/karigar"
	"github.com/goldbook/backend/internal/domain/karigar"
	"github.com/goldbook/backend/internal/interfaces/http/dto"
)

// KarigarOrderHandler handles the karigar work-order workflow
type KarigarOrderHandler struct {
	BaseHandler
	orderService *karigarapp.OrderService
}

// NewKarigarOrderHandler creates a new KarigarOrderHandler
func NewKarigarOrderHandler(orderService *karigarapp.OrderService) *KarigarOrderHandler {
	return &KarigarOrderHandler{orderService: orderService}
}

// Create handles POST /karigar-orders
func (h *KarigarOrderHandler) Create(c *gin.Context) {
	var req karigarapp.CreateOrderRequest
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

// List handles GET /karigar-orders
func (h *KarigarOrderHandler) List(c *gin.Context) {
	var filter karigarapp.ListOrdersFilter
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

// GetByID handles GET /karigar-orders/:id
func (h *KarigarOrderHandler) GetByID(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	order, err := h.orderService.Get(c.Request.Context(), karigar.OrderID(id))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// TopUp handles POST /karigar-orders/:id/lines
func (h *KarigarOrderHandler) TopUp(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	var req karigarapp.TopUpRequest
	if !h.bindJSON(c, &req) {
		return
	}

	order, err := h.orderService.TopUp(c.Request.Context(), karigar.OrderID(id), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// MarkStatus handles POST /karigar-orders/status
func (h *KarigarOrderHandler) MarkStatus(c *gin.Context) {
	var req karigarapp.MarkStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}

	n, err := h.orderService.MarkStatus(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.CountResponse{Count: n})
}

// Delete handles DELETE /karigar-orders/:id. Every line is reversed
// against inventory before the order goes.
func (h *KarigarOrderHandler) Delete(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	if err := h.orderService.Delete(c.Request.Context(), karigar.OrderID(id)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
