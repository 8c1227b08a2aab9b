package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/goldbook/backend/internal/domain/catalog"
	"github.com/goldbook/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Line is one row of a transaction form as entered. Unset fields are
// represented by invalid NullDecimals and a zero ItemID.
type Line struct {
	ItemID  catalog.ItemID      `json:"item_id"`
	Gross   decimal.NullDecimal `json:"gross_weight"`
	Less    decimal.NullDecimal `json:"less_weight"`
	Tunch   decimal.NullDecimal `json:"tunch_percentage"`
	Wastage decimal.NullDecimal `json:"wastage_percentage"`
}

// IsComplete reports whether the line should be saved. Lines missing item,
// gross or less, or with an empty or zero tunch or wastage, are template
// rows the user did not fill in and are skipped rather than rejected.
func (l Line) IsComplete() bool {
	if l.ItemID == 0 || !l.Gross.Valid || !l.Less.Valid {
		return false
	}
	if !l.Tunch.Valid || l.Tunch.Decimal.IsZero() {
		return false
	}
	if !l.Wastage.Valid || l.Wastage.Decimal.IsZero() {
		return false
	}
	return true
}

// Measure returns the raw weights of a complete line
func (l Line) Measure() Measure {
	return Measure{
		Gross:   l.Gross.Decimal,
		Less:    l.Less.Decimal,
		Tunch:   l.Tunch.Decimal,
		Wastage: l.Wastage.Decimal,
	}
}

// Draft is a transaction being composed: the reference id allocated for
// it plus the lines entered so far. It replaces form-level state so the
// same draft can be saved, or re-saved after an edit, with its reference.
type Draft struct {
	ID           uuid.UUID
	Type         TxType
	RefID        string
	SupplierName string
	Date         time.Time
	Notes        string
	Lines        []Line
}

// NewDraft starts a draft for a reference id allocated on date. The
// reference must be canonical for the type and carry the draft's day.
func NewDraft(txType TxType, refID string, date time.Time) (*Draft, error) {
	day, err := checkRefID(txType, refID)
	if err != nil {
		return nil, err
	}
	if !date.IsZero() && !sameDay(day, date) {
		return nil, shared.InvalidInput(fmt.Sprintf("Reference id %s is not dated %s", refID, date.Format("02-01-2006")))
	}
	return &Draft{
		ID:    uuid.New(),
		Type:  txType,
		RefID: refID,
		Date:  date,
	}, nil
}

// NewEditDraft starts a draft replacing the stored transaction refID. The
// edit may move the transaction to another date; a zero date keeps the
// stored one.
func NewEditDraft(refID string, date time.Time) (*Draft, error) {
	txType, err := TypeOfRefID(refID)
	if err != nil {
		return nil, err
	}
	if _, err := checkRefID(txType, refID); err != nil {
		return nil, err
	}
	return &Draft{
		ID:    uuid.New(),
		Type:  txType,
		RefID: refID,
		Date:  date,
	}, nil
}

// checkRefID requires refID to be exactly FormatRefID(txType.Prefix(), day, seq)
// with seq in 1..MaxSequence, and returns its day
func checkRefID(txType TxType, refID string) (time.Time, error) {
	if !txType.IsValid() {
		return time.Time{}, shared.InvalidInput("Unknown transaction type")
	}
	prefix, day, seq, err := ParseRefID(refID)
	if err != nil {
		return time.Time{}, err
	}
	if prefix != txType.Prefix() {
		return time.Time{}, shared.InvalidInput("Reference id does not match the transaction type")
	}
	if seq > MaxSequence || FormatRefID(prefix, day, seq) != refID {
		return time.Time{}, shared.InvalidInput(fmt.Sprintf("malformed reference id %q", refID))
	}
	return day, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// AddLine appends a line to the draft
func (d *Draft) AddLine(line Line) {
	d.Lines = append(d.Lines, line)
}

// CompleteLines returns the lines that will be saved
func (d *Draft) CompleteLines() []Line {
	lines := make([]Line, 0, len(d.Lines))
	for _, l := range d.Lines {
		if l.IsComplete() {
			lines = append(lines, l)
		}
	}
	return lines
}

// Validate checks the draft before any write happens
func (d *Draft) Validate() error {
	if strings.TrimSpace(d.SupplierName) == "" {
		return shared.InvalidInput("Please select a supplier")
	}
	lines := d.CompleteLines()
	if len(lines) == 0 {
		return shared.InvalidInput("No valid items to save")
	}
	for _, l := range lines {
		if err := l.Measure().Validate(); err != nil {
			return err
		}
	}
	return nil
}
