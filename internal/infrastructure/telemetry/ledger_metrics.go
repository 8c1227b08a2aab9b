package telemetry

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
)

// LedgerMetrics counts ledger writes and backups
type LedgerMetrics struct {
	transactions   *Counter
	fineGold       *FloatCounter
	backups        *Counter
	backupDuration *Histogram
}

// NewLedgerMetrics registers the ledger instruments on meter
func NewLedgerMetrics(meter metric.Meter) (*LedgerMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	var (
		m   LedgerMetrics
		err error
	)
	if m.transactions, err = NewCounter(meter,
		"goldbook_ledger_transactions_total",
		"Ledger transactions written, by operation and type",
		"{transactions}"); err != nil {
		return nil, err
	}
	if m.fineGold, err = NewFloatCounter(meter,
		"goldbook_ledger_fine_gold_grams_total",
		"Fine gold booked by saved transactions",
		"g"); err != nil {
		return nil, err
	}
	if m.backups, err = NewCounter(meter,
		"goldbook_backups_total",
		"Backups attempted, by outcome",
		"{backups}"); err != nil {
		return nil, err
	}
	if m.backupDuration, err = NewHistogram(meter,
		"goldbook_backup_duration_seconds",
		"Time taken to write a backup",
		"s", BackupDurationBuckets...); err != nil {
		return nil, err
	}
	return &m, nil
}

// RecordTransaction counts one ledger write. fine is the total fine gold
// of the saved rows; it is only added for creates and edits.
func (m *LedgerMetrics) RecordTransaction(ctx context.Context, op, txType string, fine decimal.Decimal) {
	if m == nil {
		return
	}
	m.transactions.Inc(ctx, AttrOperation.String(op), AttrTxType.String(txType))
	if op != "delete" {
		m.fineGold.Add(ctx, fine.Abs().InexactFloat64(), AttrTxType.String(txType))
	}
}

// RecordBackup counts one backup attempt and its duration
func (m *LedgerMetrics) RecordBackup(ctx context.Context, d time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.backups.Inc(ctx, AttrOutcome.String(outcome))
	m.backupDuration.RecordDuration(ctx, d, AttrOutcome.String(outcome))
}
