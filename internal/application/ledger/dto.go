package ledger

import (
	"time"

	"github.com/goldbook/backend/internal/domain/catalog"
	"github.com/goldbook/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// LineRequest is one row of a transaction form. Missing weights stay nil
// so that template rows can be told apart from zeros.
type LineRequest struct {
	ItemID            int64            `json:"item_id"`
	GrossWeight       *decimal.Decimal `json:"gross_weight"`
	LessWeight        *decimal.Decimal `json:"less_weight"`
	TunchPercentage   *decimal.Decimal `json:"tunch_percentage"`
	WastagePercentage *decimal.Decimal `json:"wastage_percentage"`
}

// ToLine converts the request row into a ledger line
func (r LineRequest) ToLine() ledger.Line {
	return ledger.Line{
		ItemID:  catalog.ItemID(r.ItemID),
		Gross:   nullable(r.GrossWeight),
		Less:    nullable(r.LessWeight),
		Tunch:   nullable(r.TunchPercentage),
		Wastage: nullable(r.WastagePercentage),
	}
}

func nullable(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*d)
}

// CreateTransactionRequest represents a request to save a sale or purchase.
// RefID is optional; a fresh one is allocated when empty.
type CreateTransactionRequest struct {
	Type         string        `json:"type" binding:"required,oneof=sale purchase"`
	RefID        string        `json:"ref_id" binding:"max=20"`
	SupplierName string        `json:"supplier_name" binding:"required,max=200"`
	Date         *time.Time    `json:"date"`
	Notes        string        `json:"notes" binding:"max=2000"`
	Lines        []LineRequest `json:"lines" binding:"required,min=1"`
}

// EditTransactionRequest replaces every row of an existing transaction
type EditTransactionRequest struct {
	SupplierName string        `json:"supplier_name" binding:"required,max=200"`
	Date         *time.Time    `json:"date"`
	Notes        string        `json:"notes" binding:"max=2000"`
	Lines        []LineRequest `json:"lines" binding:"required,min=1"`
}

// UpdateEntryRequest rewrites a single ledger row
type UpdateEntryRequest struct {
	SupplierName string      `json:"supplier_name" binding:"required,max=200"`
	Line         LineRequest `json:"line"`
}

// NewDraftRequest asks for a reference id for a new transaction
type NewDraftRequest struct {
	Type string     `json:"type" form:"type" binding:"required,oneof=sale purchase"`
	Date *time.Time `json:"date" form:"date" time_format:"2006-01-02"`
}

// DraftResponse carries an allocated reference id
type DraftResponse struct {
	DraftID string    `json:"draft_id"`
	Type    string    `json:"type"`
	RefID   string    `json:"ref_id"`
	Date    time.Time `json:"date"`
}

// ListEntriesFilter narrows the unified ledger listing
type ListEntriesFilter struct {
	SupplierName string     `form:"supplier_name"`
	Type         string     `form:"type" binding:"omitempty,oneof=sale purchase"`
	From         *time.Time `form:"from" time_format:"2006-01-02"`
	To           *time.Time `form:"to" time_format:"2006-01-02"`
	Limit        int        `form:"limit" binding:"omitempty,min=1,max=10000"`
}

// EntryResponse represents a ledger row in API responses
type EntryResponse struct {
	ID                int64           `json:"id"`
	RefID             string          `json:"ref_id"`
	Type              string          `json:"type"`
	SupplierName      string          `json:"supplier_name"`
	ItemID            int64           `json:"item_id"`
	ItemName          string          `json:"item_name"`
	GrossWeight       decimal.Decimal `json:"gross_weight"`
	LessWeight        decimal.Decimal `json:"less_weight"`
	NetWeight         decimal.Decimal `json:"net_weight"`
	TunchPercentage   decimal.Decimal `json:"tunch_percentage"`
	WastagePercentage decimal.Decimal `json:"wastage_percentage"`
	FineGold          decimal.Decimal `json:"fine_gold"`
	Date              time.Time       `json:"date"`
	Notes             string          `json:"notes"`
}

// TransactionResponse groups the rows sharing one reference id
type TransactionResponse struct {
	RefID        string          `json:"ref_id"`
	Type         string          `json:"type"`
	SupplierName string          `json:"supplier_name"`
	Date         time.Time       `json:"date"`
	Notes        string          `json:"notes"`
	TotalNet     decimal.Decimal `json:"total_net_weight"`
	TotalFine    decimal.Decimal `json:"total_fine_gold"`
	Entries      []EntryResponse `json:"entries"`
}

// ToEntryResponse converts a ledger row to a response
func ToEntryResponse(e *ledger.Entry) EntryResponse {
	return EntryResponse{
		ID:                int64(e.ID),
		RefID:             e.RefID,
		Type:              string(e.Type()),
		SupplierName:      e.SupplierName,
		ItemID:            int64(e.ItemID),
		ItemName:          e.ItemName,
		GrossWeight:       e.GrossWeight,
		LessWeight:        e.LessWeight,
		NetWeight:         e.NetWeight,
		TunchPercentage:   e.TunchPercentage,
		WastagePercentage: e.WastagePercentage,
		FineGold:          e.FineGold,
		Date:              e.Date,
		Notes:             e.Notes,
	}
}

// ToEntryResponses converts ledger rows to responses
func ToEntryResponses(entries []ledger.Entry) []EntryResponse {
	out := make([]EntryResponse, len(entries))
	for i := range entries {
		out[i] = ToEntryResponse(&entries[i])
	}
	return out
}

// ToTransactionResponse summarizes the rows of one transaction
func ToTransactionResponse(entries []ledger.Entry) *TransactionResponse {
	if len(entries) == 0 {
		return nil
	}
	first := entries[0]
	resp := &TransactionResponse{
		RefID:        first.RefID,
		Type:         string(first.Type()),
		SupplierName: first.SupplierName,
		Date:         first.Date,
		Notes:        first.Notes,
		TotalNet:     decimal.Zero,
		TotalFine:    decimal.Zero,
		Entries:      ToEntryResponses(entries),
	}
	for _, e := range entries {
		resp.TotalNet = resp.TotalNet.Add(e.NetWeight)
		resp.TotalFine = resp.TotalFine.Add(e.FineGold)
	}
	return resp
}

// ToDraftResponse describes a freshly allocated draft
func ToDraftResponse(d *ledger.Draft) *DraftResponse {
	return &DraftResponse{
		DraftID: d.ID.String(),
		Type:    string(d.Type),
		RefID:   d.RefID,
		Date:    d.Date,
	}
}
