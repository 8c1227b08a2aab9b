package handler

import (
	"github.com/gin-gonic/gin"
	reportapp "github.com/goldbook/backend/internal/application/report"
)

// ReportHandler serves the read-only reports
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Inventory handles GET /reports/inventory
func (h *ReportHandler) Inventory(c *gin.Context) {
	var filter reportapp.InventoryFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	rep, err := h.reportService.Inventory(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rep)
}

// WorkOrders handles GET /reports/work-orders
func (h *ReportHandler) WorkOrders(c *gin.Context) {
	var filter reportapp.WorkOrderFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	rep, err := h.reportService.WorkOrders(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rep)
}

// WorkOrderDetails handles GET /reports/work-orders/detailed
func (h *ReportHandler) WorkOrderDetails(c *gin.Context) {
	var filter reportapp.WorkOrderFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	rep, err := h.reportService.WorkOrderDetails(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rep)
}

// Freelancers handles GET /reports/freelancers
func (h *ReportHandler) Freelancers(c *gin.Context) {
	rows, err := h.reportService.Freelancers(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}

// Wastage handles GET /reports/wastage?from=2024-01-01&to=2024-01-31
func (h *ReportHandler) Wastage(c *gin.Context) {
	var filter reportapp.PeriodFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	rep, err := h.reportService.Wastage(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rep)
}

// Monthly handles GET /reports/monthly
func (h *ReportHandler) Monthly(c *gin.Context) {
	var filter reportapp.PeriodFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	rows, err := h.reportService.Monthly(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}
