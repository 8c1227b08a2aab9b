package handler

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goldbook/backend/internal/infrastructure/export"
)

// Exporter writes CSV dumps and renders supplier statements
type Exporter interface {
	ExportTable(ctx context.Context, table string) (string, error)
	ExportAll(ctx context.Context) ([]string, error)
	SupplierLedger(ctx context.Context, supplierName string) ([]export.LedgerLine, error)
	ExportSupplierLedger(ctx context.Context, supplierName string) (string, error)
	SupplierStatementPDF(ctx context.Context, supplierName string) ([]byte, error)
}

// ExportTableRequest names a table to dump; empty dumps every table
type ExportTableRequest struct {
	Table string `form:"table"`
}

// SupplierLedgerQuery narrows the supplier ledger; empty selects everyone
type SupplierLedgerQuery struct {
	SupplierName string `form:"supplier_name"`
}

// ExportResponse lists the files written
type ExportResponse struct {
	Files []string `json:"files"`
}

// ExportHandler handles CSV and PDF export endpoints
type ExportHandler struct {
	BaseHandler
	exporter Exporter
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(exporter Exporter) *ExportHandler {
	return &ExportHandler{exporter: exporter}
}

// ExportTables handles POST /exports/tables
func (h *ExportHandler) ExportTables(c *gin.Context) {
	var req ExportTableRequest
	if !h.bindQuery(c, &req) {
		return
	}

	if req.Table != "" {
		path, err := h.exporter.ExportTable(c.Request.Context(), req.Table)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Created(c, ExportResponse{Files: []string{path}})
		return
	}

	paths, err := h.exporter.ExportAll(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, ExportResponse{Files: paths})
}

// ExportSupplierLedger handles POST /exports/supplier-ledger and writes
// the derived ledger into the export directory
func (h *ExportHandler) ExportSupplierLedger(c *gin.Context) {
	var q SupplierLedgerQuery
	if !h.bindQuery(c, &q) {
		return
	}

	path, err := h.exporter.ExportSupplierLedger(c.Request.Context(), q.SupplierName)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, ExportResponse{Files: []string{path}})
}

// SupplierLedgerCSV handles GET /exports/supplier-ledger.csv as a download
func (h *ExportHandler) SupplierLedgerCSV(c *gin.Context) {
	var q SupplierLedgerQuery
	if !h.bindQuery(c, &q) {
		return
	}

	lines, err := h.exporter.SupplierLedger(c.Request.Context(), q.SupplierName)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	var buf bytes.Buffer
	if err := export.WriteSupplierLedgerCSV(&buf, lines); err != nil {
		h.HandleError(c, err)
		return
	}
	attachment(c, "supplier_ledger_"+time.Now().Format("20060102_150405")+".csv")
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// SupplierStatement handles GET /exports/supplier-statement?name=
func (h *ExportHandler) SupplierStatement(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		h.BadRequest(c, "name is required")
		return
	}

	pdf, err := h.exporter.SupplierStatementPDF(c.Request.Context(), name)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	attachment(c, "statement_"+name+".pdf")
	c.Data(http.StatusOK, "application/pdf", pdf)
}
