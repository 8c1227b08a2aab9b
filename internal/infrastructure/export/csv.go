// Package export writes table dumps and the derived supplier ledger to CSV
// files and renders supplier statements as PDF.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strconv"
	"time"

	"github.com/goldbook/backend/internal/application/store"
	"github.com/goldbook/backend/internal/domain/ledger"
	"github.com/goldbook/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const stampLayout = "20060102_150405"

// Tables lists the tables that can be dumped
var Tables = []string{
	"items",
	"suppliers",
	"freelancers",
	"ledger_entries",
	"karigar_orders",
	"karigar_order_items",
	"raini_orders",
	"gold_types",
	"settings",
}

// LedgerLine is one row of the derived supplier ledger
type LedgerLine struct {
	Date          time.Time       `json:"date"`
	RefID         string          `json:"ref_id"`
	SupplierName  string          `json:"supplier_name"`
	DeltaFineGold decimal.Decimal `json:"delta_fine_gold"`
	Type          ledger.TxType   `json:"type"`
}

// Exporter writes export files into one directory
type Exporter struct {
	db     *gorm.DB
	repos  store.Repositories
	dir    string
	now    func() time.Time
	logger *zap.Logger
}

// NewExporter creates an Exporter writing into dir
func NewExporter(db *gorm.DB, repos store.Repositories, dir string, log *zap.Logger) *Exporter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Exporter{db: db, repos: repos, dir: dir, now: time.Now, logger: log.Named("export")}
}

func (e *Exporter) create(name string) (*os.File, string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return nil, "", fmt.Errorf("failed to create export directory: %w", err)
	}
	path := filepath.Join(e.dir, name+"_"+e.now().Format(stampLayout)+".csv")
	f, err := os.Create(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create export file: %w", err)
	}
	return f, path, nil
}

// ExportTable dumps every row of one table and returns the file path
func (e *Exporter) ExportTable(ctx context.Context, table string) (string, error) {
	if !slices.Contains(Tables, table) {
		return "", shared.InvalidInput("Unknown table: " + table)
	}

	rows, err := e.db.WithContext(ctx).Table(table).Rows()
	if err != nil {
		return "", err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return "", err
	}

	f, path, err := e.create(table)
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		return "", err
	}
	values := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}
	record := make([]string, len(columns))
	count := 0
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return "", err
		}
		for i, v := range values {
			record[i] = cell(v)
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	e.logger.Info("table exported", zap.String("table", table), zap.Int("rows", count), zap.String("path", path))
	return path, nil
}

// ExportAll dumps every table and returns the file paths in table order
func (e *Exporter) ExportAll(ctx context.Context) ([]string, error) {
	paths := make([]string, 0, len(Tables))
	for _, table := range Tables {
		path, err := e.ExportTable(ctx, table)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func cell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(x)
	case string:
		return x
	case time.Time:
		return x.Format("2006-01-02 15:04:05")
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

// SupplierLedger derives the fine-gold movements of the ledger, oldest
// first. Sales add fine gold to the supplier's account, purchases subtract
// it. An empty name selects every supplier.
func (e *Exporter) SupplierLedger(ctx context.Context, supplierName string) ([]LedgerLine, error) {
	entries, err := e.repos.Ledger().List(ctx, ledger.EntryFilter{SupplierName: supplierName})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.RefID != b.RefID {
			return a.RefID < b.RefID
		}
		return a.ID < b.ID
	})

	lines := make([]LedgerLine, len(entries))
	for i := range entries {
		en := &entries[i]
		delta := en.FineGold
		if en.Type() == ledger.TypePurchase {
			delta = delta.Neg()
		}
		lines[i] = LedgerLine{
			Date:          en.Date,
			RefID:         en.RefID,
			SupplierName:  en.SupplierName,
			DeltaFineGold: delta,
			Type:          en.Type(),
		}
	}
	return lines, nil
}

// WriteSupplierLedgerCSV writes ledger lines with a header row
func WriteSupplierLedgerCSV(out io.Writer, lines []LedgerLine) error {
	w := csv.NewWriter(out)
	if err := w.Write([]string{"date", "ref_id", "supplier_name", "delta_fine_gold", "type"}); err != nil {
		return err
	}
	for _, l := range lines {
		err := w.Write([]string{
			l.Date.Format("2006-01-02 15:04:05"),
			l.RefID,
			l.SupplierName,
			l.DeltaFineGold.Round(shared.WeightPlaces).String(),
			string(l.Type),
		})
		if err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// ExportSupplierLedger writes the derived ledger to a CSV file
func (e *Exporter) ExportSupplierLedger(ctx context.Context, supplierName string) (string, error) {
	lines, err := e.SupplierLedger(ctx, supplierName)
	if err != nil {
		return "", err
	}
	f, path, err := e.create("supplier_ledger")
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := WriteSupplierLedgerCSV(f, lines); err != nil {
		return "", err
	}
	e.logger.Info("supplier ledger exported", zap.Int("rows", len(lines)), zap.String("path", path))
	return path, nil
}
