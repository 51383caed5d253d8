package reconciliation

import (
	"time"

	"github.com/pettycash-ledger/internal/domain/ledger"
)

// ReconstructBalanceAt walks backward from currentBalance and returns the
// balance as it stood immediately before target. Every transaction created at
// or after target has its effect reversed: credits are subtracted and debits
// added back. Order does not matter, so no sorting happens here.
func ReconstructBalanceAt(target time.Time, all []ledger.Transaction, currentBalance int64) (int64, error) {
	if err := validateHistory(all); err != nil {
		return 0, err
	}

	balance := currentBalance
	for _, txn := range all {
		if txn.CreatedAt.Before(target) {
			continue
		}
		balance -= txn.Effect()
	}
	return balance, nil
}
