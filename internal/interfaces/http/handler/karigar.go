package handler

import (
	"github.com/gin-gonic/gin"
	partnerapp "github.com/goldbook/backend/internal/application/partner"
	"github.com/goldbook/backend/internal/domain/partner"
)

// KarigarHandler handles freelancer (karigar) endpoints
type KarigarHandler struct {
	BaseHandler
	karigarService *partnerapp.KarigarService
}

// NewKarigarHandler creates a new KarigarHandler
func NewKarigarHandler(karigarService *partnerapp.KarigarService) *KarigarHandler {
	return &KarigarHandler{karigarService: karigarService}
}

// Create handles POST /karigars
func (h *KarigarHandler) Create(c *gin.Context) {
	var req partnerapp.CreateKarigarRequest
	if !h.bindJSON(c, &req) {
		return
	}

	k, err := h.karigarService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, k)
}

// List handles GET /karigars
func (h *KarigarHandler) List(c *gin.Context) {
	var filter partnerapp.ListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	karigars, err := h.karigarService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, karigars)
}

// GetByID handles GET /karigars/:id
func (h *KarigarHandler) GetByID(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	k, err := h.karigarService.GetByID(c.Request.Context(), partner.KarigarID(id))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, k)
}

// Update handles PUT /karigars/:id
func (h *KarigarHandler) Update(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	var req partnerapp.UpdateKarigarRequest
	if !h.bindJSON(c, &req) {
		return
	}

	k, err := h.karigarService.Update(c.Request.Context(), partner.KarigarID(id), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, k)
}

// Delete handles DELETE /karigars/:id; refused while orders exist
func (h *KarigarHandler) Delete(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	if err := h.karigarService.Delete(c.Request.Context(), partner.KarigarID(id)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
