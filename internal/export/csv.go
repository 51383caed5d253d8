package export

import (
	"bytes"
	"encoding/csv"

	"github.com/pettycash-ledger/internal/domain/reconciliation"
)

// CSV writes a header line followed by one line per row
func CSV(report *reconciliation.Report, meta Meta) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, line := range Lines(report, meta) {
		if err := w.Write(line.values()); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
