package reconciliation

import (
	"fmt"
	"sort"

	"github.com/pettycash-ledger/internal/domain/ledger"
)

// Row is a transaction annotated with the running balance around it
type Row struct {
	ledger.Transaction
	OpeningBalance int64 `json:"opening_balance"`
	ClosingBalance int64 `json:"closing_balance"`
}

// SortChronologically returns a copy of txns ordered by CreatedAt ascending.
// Ties keep their input order.
func SortChronologically(txns []ledger.Transaction) []ledger.Transaction {
	sorted := make([]ledger.Transaction, len(txns))
	copy(sorted, txns)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})
	return sorted
}

// Replay applies txns in chronological order starting from opening and
// returns one row per transaction plus the closing balance of the window.
// Duplicated IDs are replayed as separate movements.
func Replay(txns []ledger.Transaction, opening int64) ([]Row, int64, error) {
	if err := validateHistory(txns); err != nil {
		return nil, 0, err
	}

	sorted := SortChronologically(txns)
	rows := make([]Row, 0, len(sorted))

	running := opening
	for _, txn := range sorted {
		row := Row{Transaction: txn, OpeningBalance: running}
		running += txn.Effect()
		row.ClosingBalance = running
		rows = append(rows, row)
	}

	return rows, running, nil
}

// NewestFirst returns a reversed copy of rows for display. It must only be
// applied to rows that have already been replayed.
func NewestFirst(rows []Row) []Row {
	reversed := make([]Row, len(rows))
	for i, row := range rows {
		reversed[len(rows)-1-i] = row
	}
	return reversed
}

// validateHistory rejects any transaction whose effect on a balance is undefined
func validateHistory(txns []ledger.Transaction) error {
	for i, txn := range txns {
		if err := txn.Validate(); err != nil {
			return fmt.Errorf("history[%d]: %w", i, err)
		}
	}
	return nil
}
