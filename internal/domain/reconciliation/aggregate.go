package reconciliation

import (
	"sort"

	"github.com/pettycash-ledger/internal/domain/ledger"
	"github.com/pettycash-ledger/internal/domain/shared"
)

// CategoryTotal is the movement of a single category inside a window
type CategoryTotal struct {
	Category shared.Category `json:"category"`
	Count    int             `json:"count"`
	Inflows  int64           `json:"inflows"`
	Outflows int64           `json:"outflows"`
	Net      int64           `json:"net"`
}

// Totals summarizes the movement of a filtered subset
type Totals struct {
	Inflows    int64           `json:"inflows"`
	Outflows   int64           `json:"outflows"`
	Net        int64           `json:"net"`
	ByCategory []CategoryTotal `json:"by_category"`
}

// Aggregate sums credits and debits of subset. ByCategory is ordered by category name.
func Aggregate(subset []ledger.Transaction) (Totals, error) {
	if err := validateHistory(subset); err != nil {
		return Totals{}, err
	}

	totals := Totals{ByCategory: []CategoryTotal{}}
	byCategory := make(map[shared.Category]*CategoryTotal)

	for _, txn := range subset {
		category := txn.Category
		if category == "" {
			category = shared.CategoryUncategorized
		}
		ct, ok := byCategory[category]
		if !ok {
			ct = &CategoryTotal{Category: category}
			byCategory[category] = ct
		}
		ct.Count++

		switch txn.Direction {
		case shared.DirectionCredit:
			totals.Inflows += txn.Amount
			ct.Inflows += txn.Amount
		case shared.DirectionDebit:
			totals.Outflows += txn.Amount
			ct.Outflows += txn.Amount
		}
	}
	totals.Net = totals.Inflows - totals.Outflows

	for _, ct := range byCategory {
		ct.Net = ct.Inflows - ct.Outflows
		totals.ByCategory = append(totals.ByCategory, *ct)
	}
	sort.Slice(totals.ByCategory, func(i, j int) bool {
		return totals.ByCategory[i].Category < totals.ByCategory[j].Category
	})

	return totals, nil
}
