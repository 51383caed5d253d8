package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/pettycash-ledger/internal/domain/reconciliation"
)

var pdfColumns = []struct {
	title string
	width float64
	align string
}{
	{"Date", 28, "L"},
	{"ID", 24, "L"},
	{"Description", 58, "L"},
	{"Category", 30, "L"},
	{"Status", 26, "L"},
	{"Amount", 26, "R"},
	{"Opening", 26, "R"},
	{"Closing", 26, "R"},
}

// PDF renders a landscape statement with the totals followed by the row table
func PDF(report *reconciliation.Report, meta Meta) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont("Arial", "B", 14)
	pdf.AddPage()

	pdf.Cell(0, 8, tr("Petty Cash Statement"))
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Wallet: %s", meta.WalletName)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Window: %s", windowLabel(report, meta)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", report.GeneratedAt.In(meta.location()).Format(time.RFC3339)))
	pdf.Ln(8)

	totals := []struct {
		label  string
		amount int64
	}{
		{"Opening Balance", report.OpeningBalance},
		{"Inflows", report.Inflows},
		{"Outflows", report.Outflows},
		{"Closing Balance", report.ClosingBalance},
	}
	for _, t := range totals {
		pdf.Cell(0, 6, fmt.Sprintf("%s (%s): %s", t.label, meta.Currency, FormatMinor(t.amount, meta.Exponent)))
		pdf.Ln(5)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 9)
	for _, col := range pdfColumns {
		pdf.CellFormat(col.width, 6, col.title, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, line := range Lines(report, meta) {
		values := []string{line.Date, line.ID, line.Description, line.Category, line.Status, line.Amount, line.Opening, line.Closing}
		for i, col := range pdfColumns {
			pdf.CellFormat(col.width, 6, tr(values[i]), "1", 0, col.align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
