package reconciliation

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/pettycash-ledger/internal/domain/ledger"
	"github.com/pettycash-ledger/internal/domain/shared"
)

var baseTime = time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)

func credit(id string, at time.Time, amount int64) ledger.Transaction {
	return ledger.Transaction{
		ID:        id,
		CreatedAt: at,
		Direction: shared.DirectionCredit,
		Amount:    amount,
		Status:    shared.TransactionStatusApproved,
		Category:  shared.CategoryFunding,
		Title:     "Funding - Head Office",
		Payee:     "Head Office",
	}
}

func debit(id string, at time.Time, amount int64, category shared.Category, payee string) ledger.Transaction {
	return ledger.Transaction{
		ID:        id,
		CreatedAt: at,
		Direction: shared.DirectionDebit,
		Amount:    amount,
		Status:    shared.TransactionStatusApproved,
		Category:  category,
		Title:     category.Label() + " - " + payee,
		Payee:     payee,
	}
}

func day(n int) time.Time {
	return baseTime.AddDate(0, 0, n)
}

func datePtr(t time.Time) *time.Time {
	return &t
}

// randomHistory builds a shuffled history with occasional identical timestamps
func randomHistory(r *rand.Rand, n int) []ledger.Transaction {
	categories := shared.Categories()
	statuses := []shared.TransactionStatus{
		shared.TransactionStatusApproved,
		shared.TransactionStatusPendingApproval,
		shared.TransactionStatusRejected,
	}

	txns := make([]ledger.Transaction, 0, n)
	for i := 0; i < n; i++ {
		at := baseTime.Add(time.Duration(r.Intn(30*24)) * time.Hour)
		if i > 0 && r.Intn(5) == 0 {
			at = txns[r.Intn(len(txns))].CreatedAt
		}
		direction := shared.DirectionDebit
		if r.Intn(3) == 0 {
			direction = shared.DirectionCredit
		}
		txns = append(txns, ledger.Transaction{
			ID:        fmt.Sprintf("TXN-%03d", i),
			CreatedAt: at,
			Direction: direction,
			Amount:    int64(r.Intn(50000)),
			Status:    statuses[r.Intn(len(statuses))],
			Category:  categories[r.Intn(len(categories))],
			Title:     fmt.Sprintf("Expense %d", i),
			Payee:     fmt.Sprintf("Vendor %d", r.Intn(10)),
		})
	}
	return txns
}
