package report

import (
	"context"
	"time"

	"github.com/goldbook/backend/internal/domain/karigar"
	"github.com/goldbook/backend/internal/domain/report"
	"github.com/goldbook/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReportService provides application-level report operations
type ReportService struct {
	repo   report.Repository
	logger *zap.Logger
}

// NewReportService creates a new ReportService
func NewReportService(repo report.Repository, log *zap.Logger) *ReportService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReportService{repo: repo, logger: log.Named("report")}
}

// ===================== Request filters =====================

// InventoryFilter narrows the inventory report
type InventoryFilter struct {
	ActiveOnly bool `form:"active_only"`
}

// WorkOrderFilter narrows the work-order report
type WorkOrderFilter struct {
	Status string `form:"status" binding:"omitempty,oneof='in progress' completed"`
}

// PeriodFilter bounds ledger-based reports. Both dates are inclusive days.
type PeriodFilter struct {
	From *time.Time `form:"from" time_format:"2006-01-02"`
	To   *time.Time `form:"to" time_format:"2006-01-02"`
}

func (f PeriodFilter) toPeriod() (report.Period, error) {
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return report.Period{}, shared.InvalidInput("'to' date must not be before 'from' date")
	}
	p := report.Period{From: f.From}
	if f.To != nil {
		end := f.To.AddDate(0, 0, 1)
		p.To = &end
	}
	return p, nil
}

// ===================== Responses =====================

// InventoryReport lists item balances with their totals
type InventoryReport struct {
	Items     []report.ItemBalance `json:"items"`
	TotalFine decimal.Decimal      `json:"total_fine"`
	TotalNet  decimal.Decimal      `json:"total_net"`
}

// WorkOrderReport lists karigar orders with totals per status
type WorkOrderReport struct {
	Orders   []report.WorkOrderRow `json:"orders"`
	ByStatus []report.StatusTotals `json:"by_status"`
}

// WorkOrderDetailReport lists karigar orders with their lines and efficiency
type WorkOrderDetailReport struct {
	Orders   []report.WorkOrderDetail `json:"orders"`
	ByStatus []report.StatusTotals    `json:"by_status"`
}

// WastageReport lists wastage per supplier with the overall sum
type WastageReport struct {
	Suppliers    []report.SupplierWastage `json:"suppliers"`
	TotalWastage decimal.Decimal          `json:"total_wastage"`
}

// ===================== Operations =====================

// Inventory returns per-item fine and net balances with totals
func (s *ReportService) Inventory(ctx context.Context, filter InventoryFilter) (*InventoryReport, error) {
	items, err := s.repo.ItemBalances(ctx, filter.ActiveOnly)
	if err != nil {
		return nil, err
	}
	out := &InventoryReport{Items: items, TotalFine: decimal.Zero, TotalNet: decimal.Zero}
	for _, it := range items {
		out.TotalFine = out.TotalFine.Add(it.FineWeight)
		out.TotalNet = out.TotalNet.Add(it.NetWeight)
	}
	return out, nil
}

// WorkOrders returns karigar orders with totals grouped by status
func (s *ReportService) WorkOrders(ctx context.Context, filter WorkOrderFilter) (*WorkOrderReport, error) {
	orders, err := s.repo.WorkOrders(ctx, filter.Status)
	if err != nil {
		return nil, err
	}
	return &WorkOrderReport{Orders: orders, ByStatus: totalsByStatus(orders)}, nil
}

// WorkOrderDetails returns karigar orders with every issued and received
// line and the received to issued efficiency of each order
func (s *ReportService) WorkOrderDetails(ctx context.Context, filter WorkOrderFilter) (*WorkOrderDetailReport, error) {
	orders, err := s.repo.WorkOrders(ctx, filter.Status)
	if err != nil {
		return nil, err
	}
	lines, err := s.repo.WorkOrderLines(ctx, filter.Status)
	if err != nil {
		return nil, err
	}

	byOrder := make(map[int64][]report.WorkOrderLine, len(orders))
	for _, l := range lines {
		byOrder[l.OrderID] = append(byOrder[l.OrderID], l)
	}
	details := make([]report.WorkOrderDetail, 0, len(orders))
	for _, o := range orders {
		d := report.WorkOrderDetail{
			WorkOrderRow: o,
			Lines:        byOrder[o.OrderID],
			Efficiency:   efficiency(o.IssuedTotal, o.ReceivedTotal),
		}
		if d.Lines == nil {
			d.Lines = []report.WorkOrderLine{}
		}
		details = append(details, d)
	}
	return &WorkOrderDetailReport{Orders: details, ByStatus: totalsByStatus(orders)}, nil
}

// efficiency is received / issued * 100 rounded to one place
func efficiency(issued, received decimal.Decimal) decimal.NullDecimal {
	if !issued.IsPositive() || !received.IsPositive() {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(received.Div(issued).Mul(decimal.NewFromInt(100)).Round(1))
}

func totalsByStatus(orders []report.WorkOrderRow) []report.StatusTotals {
	statuses := []string{string(karigar.StatusInProgress), string(karigar.StatusCompleted)}
	index := make(map[string]int, len(statuses))
	totals := make([]report.StatusTotals, len(statuses))
	for i, st := range statuses {
		index[st] = i
		totals[i] = report.StatusTotals{Status: st, Issued: decimal.Zero, Received: decimal.Zero, Balance: decimal.Zero}
	}
	for _, o := range orders {
		i, ok := index[o.Status]
		if !ok {
			continue
		}
		t := &totals[i]
		t.Orders++
		t.Issued = t.Issued.Add(o.IssuedTotal)
		t.Received = t.Received.Add(o.ReceivedTotal)
		t.Balance = t.Balance.Add(o.BalanceTotal)
	}
	return totals
}

// Freelancers returns order sums per karigar
func (s *ReportService) Freelancers(ctx context.Context) ([]report.FreelancerSummary, error) {
	return s.repo.FreelancerSummaries(ctx)
}

// Wastage returns the wastage weight per supplier over the period
func (s *ReportService) Wastage(ctx context.Context, filter PeriodFilter) (*WastageReport, error) {
	period, err := filter.toPeriod()
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.SupplierWastage(ctx, period)
	if err != nil {
		return nil, err
	}
	out := &WastageReport{Suppliers: rows, TotalWastage: decimal.Zero}
	for _, r := range rows {
		out.TotalWastage = out.TotalWastage.Add(r.Wastage)
	}
	return out, nil
}

// Monthly returns sale and purchase totals per month
func (s *ReportService) Monthly(ctx context.Context, filter PeriodFilter) ([]report.MonthlySummary, error) {
	period, err := filter.toPeriod()
	if err != nil {
		return nil, err
	}
	return s.repo.MonthlySummaries(ctx, period)
}
