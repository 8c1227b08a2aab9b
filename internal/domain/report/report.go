// Package report holds the read models behind the summary reports. Nothing
// here mutates balances; every figure is aggregated from stored rows.
package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ItemBalance is one row of the inventory report
type ItemBalance struct {
	ItemID     int64           `json:"item_id"`
	ItemName   string          `json:"item_name"`
	Category   string          `json:"category"`
	FineWeight decimal.Decimal `json:"fine_weight"`
	NetWeight  decimal.Decimal `json:"net_weight"`
}

// WorkOrderRow is one karigar order in the work-order report
type WorkOrderRow struct {
	OrderID       int64           `json:"order_id"`
	RefID         string          `json:"ref_id"`
	KarigarName   string          `json:"karigar_name"`
	IssuedTotal   decimal.Decimal `json:"issued_total"`
	ReceivedTotal decimal.Decimal `json:"received_total"`
	BalanceTotal  decimal.Decimal `json:"balance_total"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

// WorkOrderLine is one issued or received line of a karigar order
type WorkOrderLine struct {
	OrderID   int64           `json:"-"`
	ItemName  string          `json:"item_name"`
	Direction string          `json:"direction"`
	Weight    decimal.Decimal `json:"weight"`
	CreatedAt time.Time       `json:"created_at"`
}

// WorkOrderDetail is a karigar order with its lines. Efficiency is received
// over issued weight as a percentage with one decimal, and is null until
// something has been issued and received.
type WorkOrderDetail struct {
	WorkOrderRow
	Lines      []WorkOrderLine     `json:"lines"`
	Efficiency decimal.NullDecimal `json:"efficiency"`
}

// StatusTotals sums work orders sharing a status
type StatusTotals struct {
	Status   string          `json:"status"`
	Orders   int64           `json:"orders"`
	Issued   decimal.Decimal `json:"issued"`
	Received decimal.Decimal `json:"received"`
	Balance  decimal.Decimal `json:"balance"`
}

// FreelancerSummary sums the orders of one karigar
type FreelancerSummary struct {
	KarigarID int64           `json:"karigar_id"`
	FullName  string          `json:"full_name"`
	Orders    int64           `json:"orders"`
	Issued    decimal.Decimal `json:"issued"`
	Received  decimal.Decimal `json:"received"`
	Balance   decimal.Decimal `json:"balance"`
}

// SupplierWastage is the wastage weight booked against one supplier
type SupplierWastage struct {
	SupplierName string          `json:"supplier_name"`
	Entries      int64           `json:"entries"`
	NetWeight    decimal.Decimal `json:"net_weight"`
	Wastage      decimal.Decimal `json:"wastage"`
}

// MonthlySummary holds sale and purchase totals for one YYYY-MM month
type MonthlySummary struct {
	Month        string          `json:"month"`
	SaleFine     decimal.Decimal `json:"sale_fine"`
	SaleNet      decimal.Decimal `json:"sale_net"`
	PurchaseFine decimal.Decimal `json:"purchase_fine"`
	PurchaseNet  decimal.Decimal `json:"purchase_net"`
}

// Period bounds ledger-based reports. A nil bound is open; To is exclusive.
type Period struct {
	From *time.Time
	To   *time.Time
}

// Repository runs the report aggregations
type Repository interface {
	ItemBalances(ctx context.Context, activeOnly bool) ([]ItemBalance, error)
	WorkOrders(ctx context.Context, status string) ([]WorkOrderRow, error)
	WorkOrderLines(ctx context.Context, status string) ([]WorkOrderLine, error)
	FreelancerSummaries(ctx context.Context) ([]FreelancerSummary, error)
	SupplierWastage(ctx context.Context, period Period) ([]SupplierWastage, error)
	MonthlySummaries(ctx context.Context, period Period) ([]MonthlySummary, error)
}
