package export

import (
	"bytes"
	"context"
	"fmt"

	"github.com/jung-kurt/gofpdf/v2"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"go.uber.org/zap"
)

var printer = message.NewPrinter(language.English)

// FormatWeight renders grams with three decimals and digit grouping
func FormatWeight(d decimal.Decimal) string {
	return printer.Sprintf("%.3f", d.Round(3).InexactFloat64())
}

// SupplierStatementPDF renders a supplier's fine-gold movements with a
// running balance
func (e *Exporter) SupplierStatementPDF(ctx context.Context, supplierName string) ([]byte, error) {
	supplier, err := e.repos.Suppliers().FindByName(ctx, supplierName)
	if err != nil {
		return nil, err
	}
	lines, err := e.SupplierLedger(ctx, supplier.Name)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "Supplier Statement", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated: %s", e.now().Format("02-Jan-2006 03:04 PM")), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Supplier Information", "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("Name: %s", supplier.Name), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Phone: %s", supplier.Phone), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Contact: %s", supplier.ContactPerson), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("GST: %s", supplier.GSTNumber), "RB", 1, "L", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(35, 7, "Date", "1", 0, "C", true, 0, "")
	pdf.CellFormat(40, 7, "Ref ID", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "Type", "1", 0, "C", true, 0, "")
	pdf.CellFormat(45, 7, "Fine Gold (g)", "1", 0, "C", true, 0, "")
	pdf.CellFormat(45, 7, "Balance (g)", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	running := decimal.Zero
	for _, l := range lines {
		running = running.Add(l.DeltaFineGold)
		pdf.CellFormat(35, 6, l.Date.Format("02-Jan-2006"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 6, l.RefID, "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, string(l.Type), "1", 0, "C", false, 0, "")
		pdf.CellFormat(45, 6, FormatWeight(l.DeltaFineGold), "1", 0, "R", false, 0, "")
		pdf.CellFormat(45, 6, FormatWeight(running), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(5)

	if running.IsNegative() {
		pdf.SetFillColor(255, 200, 200)
	} else {
		pdf.SetFillColor(200, 255, 200)
	}
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(190, 10, fmt.Sprintf("Closing Balance: %s g", FormatWeight(supplier.Balance)), "1", 1, "C", true, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	e.logger.Info("supplier statement rendered", zap.String("supplier", supplier.Name), zap.Int("rows", len(lines)))
	return buf.Bytes(), nil
}
