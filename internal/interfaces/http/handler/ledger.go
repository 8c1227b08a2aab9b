package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	ledgerapp "github.com/goldbook/backend/internal/application/ledger"
	"github.com/goldbook/backend/internal/domain/ledger"
	"github.com/goldbook/backend/internal/interfaces/http/dto"
)

// LedgerHandler handles sale and purchase transactions
type LedgerHandler struct {
	BaseHandler
	ledgerService *ledgerapp.Service
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(ledgerService *ledgerapp.Service) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

// refIDParam rebuilds a reference id such as S150124/001, which travels
// as two path segments
func refIDParam(c *gin.Context) string {
	return c.Param("ref") + "/" + c.Param("seq")
}

// NewDraft handles POST /ledger/drafts and allocates the next reference id
func (h *LedgerHandler) NewDraft(c *gin.Context) {
	var req ledgerapp.NewDraftRequest
	if !h.bindJSON(c, &req) {
		return
	}
	txType, err := ledger.ParseTxType(req.Type)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	day := time.Now()
	if req.Date != nil {
		day = *req.Date
	}

	d, err := h.ledgerService.NewDraft(c.Request.Context(), txType, day)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, ledgerapp.ToDraftResponse(d))
}

// Create handles POST /ledger/transactions
func (h *LedgerHandler) Create(c *gin.Context) {
	var req ledgerapp.CreateTransactionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	d, err := h.ledgerService.DraftFromRequest(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	tx, err := h.ledgerService.Create(c.Request.Context(), d)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, tx)
}

// Get handles GET /ledger/transactions/:ref/:seq
func (h *LedgerHandler) Get(c *gin.Context) {
	tx, err := h.ledgerService.Get(c.Request.Context(), refIDParam(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tx)
}

// Edit handles PUT /ledger/transactions/:ref/:seq, replacing every row
// of the transaction
func (h *LedgerHandler) Edit(c *gin.Context) {
	var req ledgerapp.EditTransactionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	d, err := ledgerapp.DraftForEdit(refIDParam(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	tx, err := h.ledgerService.Edit(c.Request.Context(), d)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tx)
}

// Delete handles DELETE /ledger/transactions/:ref/:seq
func (h *LedgerHandler) Delete(c *gin.Context) {
	n, err := h.ledgerService.Delete(c.Request.Context(), refIDParam(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.CountResponse{Count: int64(n)})
}

// ListEntries handles GET /ledger/entries
func (h *LedgerHandler) ListEntries(c *gin.Context) {
	var filter ledgerapp.ListEntriesFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	entries, err := h.ledgerService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entries)
}

// UpdateEntry handles PUT /ledger/entries/:id
func (h *LedgerHandler) UpdateEntry(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	var req ledgerapp.UpdateEntryRequest
	if !h.bindJSON(c, &req) {
		return
	}

	entry, err := h.ledgerService.UpdateEntry(c.Request.Context(), ledger.EntryID(id), req.SupplierName, req.Line.ToLine())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}
