package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/goldbook/backend/internal/application/catalog"
	"github.com/goldbook/backend/internal/domain/catalog"
	"github.com/goldbook/backend/internal/interfaces/http/dto"
)

// ItemHandler handles item, gold type and setting endpoints
type ItemHandler struct {
	BaseHandler
	itemService *catalogapp.ItemService
}

// NewItemHandler creates a new ItemHandler
func NewItemHandler(itemService *catalogapp.ItemService) *ItemHandler {
	return &ItemHandler{itemService: itemService}
}

// Create handles POST /items
func (h *ItemHandler) Create(c *gin.Context) {
	var req catalogapp.CreateItemRequest
	if !h.bindJSON(c, &req) {
		return
	}

	item, err := h.itemService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

// List handles GET /items
func (h *ItemHandler) List(c *gin.Context) {
	var filter catalogapp.ItemListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	items, err := h.itemService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// GetByID handles GET /items/:id
func (h *ItemHandler) GetByID(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	item, err := h.itemService.GetByID(c.Request.Context(), catalog.ItemID(id))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Update handles PUT /items/:id
func (h *ItemHandler) Update(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	var req catalogapp.UpdateItemRequest
	if !h.bindJSON(c, &req) {
		return
	}

	item, err := h.itemService.Update(c.Request.Context(), catalog.ItemID(id), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Delete handles DELETE /items/:id. Items still referenced by ledger
// rows or order lines are refused.
func (h *ItemHandler) Delete(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	if err := h.itemService.Delete(c.Request.Context(), catalog.ItemID(id)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// BulkDelete handles POST /items/bulk-delete
func (h *ItemHandler) BulkDelete(c *gin.Context) {
	var req catalogapp.BulkDeleteRequest
	if !h.bindJSON(c, &req) {
		return
	}

	n, err := h.itemService.BulkDelete(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.CountResponse{Count: int64(n)})
}

// ListGoldTypes handles GET /gold-types
func (h *ItemHandler) ListGoldTypes(c *gin.Context) {
	types, err := h.itemService.ListGoldTypes(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, types)
}

// GetSetting handles GET /settings/:key
func (h *ItemHandler) GetSetting(c *gin.Context) {
	setting, err := h.itemService.GetSetting(c.Request.Context(), c.Param("key"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, setting)
}

// SetSetting handles PUT /settings/:key
func (h *ItemHandler) SetSetting(c *gin.Context) {
	var req catalogapp.SetSettingRequest
	if !h.bindJSON(c, &req) {
		return
	}

	setting, err := h.itemService.SetSetting(c.Request.Context(), c.Param("key"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, setting)
}
