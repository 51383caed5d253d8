package export

import (
	"bytes"
	"fmt"

	"github.com/pettycash-ledger/internal/domain/reconciliation"
	"github.com/xuri/excelize/v2"
)

const (
	summarySheet      = "summary"
	transactionsSheet = "transactions"
)

// XLSX renders a workbook with a summary sheet and a transactions sheet
func XLSX(report *reconciliation.Report, meta Meta) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(transactionsSheet); err != nil {
		return nil, err
	}

	summary := [][]interface{}{
		{"Petty Cash Statement"},
		{},
		{"Wallet", meta.WalletName},
		{"Currency", meta.Currency},
		{"Window", windowLabel(report, meta)},
		{"Opening Balance", toMajor(report.OpeningBalance, meta.Exponent).InexactFloat64()},
		{"Inflows", toMajor(report.Inflows, meta.Exponent).InexactFloat64()},
		{"Outflows", toMajor(report.Outflows, meta.Exponent).InexactFloat64()},
		{"Net Movement", toMajor(report.NetMovement, meta.Exponent).InexactFloat64()},
		{"Closing Balance", toMajor(report.ClosingBalance, meta.Exponent).InexactFloat64()},
		{"Transactions", len(report.Rows)},
		{},
		{"Category", "Count", "Inflows", "Outflows", "Net"},
	}
	for _, ct := range report.ByCategory {
		summary = append(summary, []interface{}{
			ct.Category.Label(),
			ct.Count,
			toMajor(ct.Inflows, meta.Exponent).InexactFloat64(),
			toMajor(ct.Outflows, meta.Exponent).InexactFloat64(),
			toMajor(ct.Net, meta.Exponent).InexactFloat64(),
		})
	}
	for i, values := range summary {
		if len(values) == 0 {
			continue
		}
		if err := f.SetSheetRow(summarySheet, fmt.Sprintf("A%d", i+1), &values); err != nil {
			return nil, err
		}
	}

	if err := f.SetSheetRow(transactionsSheet, "A1", &header); err != nil {
		return nil, err
	}
	for i, line := range Lines(report, meta) {
		values := line.values()
		if err := f.SetSheetRow(transactionsSheet, fmt.Sprintf("A%d", i+2), &values); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
