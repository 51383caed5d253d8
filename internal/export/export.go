// Package export renders reconciliation reports as downloadable statements.
package export

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pettycash-ledger/internal/domain/reconciliation"
	"github.com/shopspring/decimal"
)

var ErrUnsupportedFormat = errors.New("unsupported export format")

// Format names an output encoding
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

const (
	ContentTypeCSV  = "text/csv; charset=utf-8"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypePDF  = "application/pdf"
)

// ParseFormat maps a query parameter onto a Format
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatXLSX, FormatPDF:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// Extension returns the file extension including the dot
func (f Format) Extension() string {
	return "." + string(f)
}

// Meta describes the wallet a report belongs to and how to present it
type Meta struct {
	WalletName  string
	Currency    string
	Exponent    int32          // Number of minor-unit digits, 2 for cents
	Location    *time.Location // Dates are printed in this frame, UTC when nil
	NewestFirst bool
}

func (m Meta) location() *time.Location {
	if m.Location == nil {
		return time.UTC
	}
	return m.Location
}

// Render encodes report in the requested format and returns the bytes
// together with their content type.
func Render(format Format, report *reconciliation.Report, meta Meta) ([]byte, string, error) {
	switch format {
	case FormatCSV:
		data, err := CSV(report, meta)
		return data, ContentTypeCSV, err
	case FormatXLSX:
		data, err := XLSX(report, meta)
		return data, ContentTypeXLSX, err
	case FormatPDF:
		data, err := PDF(report, meta)
		return data, ContentTypePDF, err
	default:
		return nil, "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Line is the flat projection of a replayed row shared by every format
type Line struct {
	Date        string
	ID          string
	Direction   string
	Description string
	Category    string
	Status      string
	Payee       string
	Amount      string // Signed, debits negative
	Opening     string
	Closing     string
}

var header = []string{"Date", "ID", "Type", "Description", "Category", "Status", "Payee", "Amount", "Opening Balance", "Closing Balance"}

func (l Line) values() []string {
	return []string{l.Date, l.ID, l.Direction, l.Description, l.Category, l.Status, l.Payee, l.Amount, l.Opening, l.Closing}
}

// Lines projects the report rows in display order
func Lines(report *reconciliation.Report, meta Meta) []Line {
	rows := report.Rows
	if meta.NewestFirst {
		rows = report.NewestFirst()
	}

	lines := make([]Line, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, Line{
			Date:        row.CreatedAt.In(meta.location()).Format("2006-01-02 15:04"),
			ID:          row.ID,
			Direction:   string(row.Direction),
			Description: row.Title,
			Category:    row.Category.Label(),
			Status:      string(row.Status),
			Payee:       row.Payee,
			Amount:      FormatMinor(row.SignedAmount(), meta.Exponent),
			Opening:     FormatMinor(row.OpeningBalance, meta.Exponent),
			Closing:     FormatMinor(row.ClosingBalance, meta.Exponent),
		})
	}
	return lines
}

// FormatMinor renders minor units as a fixed-point major-unit string, e.g. 1250 -> "12.50"
func FormatMinor(amount int64, exponent int32) string {
	return toMajor(amount, exponent).StringFixed(exponent)
}

func toMajor(amount int64, exponent int32) decimal.Decimal {
	return decimal.New(amount, -exponent)
}

func windowLabel(report *reconciliation.Report, meta Meta) string {
	from := report.WindowStart.In(meta.location()).Format("2006-01-02")
	if report.WindowEnd == nil {
		return from + " onwards"
	}
	return from + " to " + report.WindowEnd.In(meta.location()).Format("2006-01-02")
}
