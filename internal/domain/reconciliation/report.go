package reconciliation

import (
	"fmt"
	"time"

	"github.com/pettycash-ledger/internal/domain/ledger"
)

// Input carries everything a report depends on. Nothing is read from the environment.
type Input struct {
	History        []ledger.Transaction // Every known transaction of the wallet, any order
	CurrentBalance int64                // Upstream balance snapshot, minor units
	Now            time.Time
	Criteria       Criteria
}

// Report is the computed view of a window. It is never persisted.
type Report struct {
	OpeningBalance int64           `json:"opening_balance"`
	ClosingBalance int64           `json:"closing_balance"`
	Inflows        int64           `json:"inflows"`
	Outflows       int64           `json:"outflows"`
	NetMovement    int64           `json:"net_movement"`
	Rows           []Row           `json:"rows"`
	ByCategory     []CategoryTotal `json:"by_category"`
	WindowStart    time.Time       `json:"window_start"`
	WindowEnd      *time.Time      `json:"window_end,omitempty"`
	GeneratedAt    time.Time       `json:"generated_at"`

	// Reconciled is set when the window is open-ended and unfiltered, in which
	// case the closing balance was checked against the current balance.
	Reconciled bool `json:"reconciled"`
}

// Build reconstructs the opening balance of the window described by
// in.Criteria, replays the matching transactions and aggregates them.
func Build(in Input) (*Report, error) {
	if in.Now.IsZero() {
		return nil, ErrMissingNow
	}
	if err := validateHistory(in.History); err != nil {
		return nil, err
	}

	start, hasStart := in.Criteria.Start()
	end, hasEnd := in.Criteria.End()
	if hasStart && hasEnd && end.Before(start) {
		return nil, ErrInvalidWindow
	}
	if hasStart && start.After(in.Now) {
		return nil, ErrWindowInFuture
	}

	windowStart := start
	if !hasStart {
		windowStart = earliest(in.History, in.Now)
	}

	opening, err := ReconstructBalanceAt(windowStart, in.History, in.CurrentBalance)
	if err != nil {
		return nil, err
	}
	subset := Filter(in.History, in.Criteria)
	rows, closing, err := Replay(subset, opening)
	if err != nil {
		return nil, err
	}
	totals, err := Aggregate(subset)
	if err != nil {
		return nil, err
	}

	report := &Report{
		OpeningBalance: opening,
		ClosingBalance: closing,
		Inflows:        totals.Inflows,
		Outflows:       totals.Outflows,
		NetMovement:    totals.Net,
		Rows:           rows,
		ByCategory:     totals.ByCategory,
		WindowStart:    windowStart,
		GeneratedAt:    in.Now,
	}
	if hasEnd {
		report.WindowEnd = &end
	}

	if err := report.Verify(); err != nil {
		return nil, err
	}

	if !hasEnd && !in.Criteria.HasNonDateFilter() {
		if closing != in.CurrentBalance {
			return nil, fmt.Errorf("%w: closing balance %d does not match current balance %d",
				ErrInconsistentReplay, closing, in.CurrentBalance)
		}
		report.Reconciled = true
	}

	return report, nil
}

// Verify checks the running balance chain and the totals of the report
func (r *Report) Verify() error {
	running := r.OpeningBalance
	for i, row := range r.Rows {
		if row.OpeningBalance != running {
			return fmt.Errorf("%w: row %d opens at %d, expected %d", ErrInconsistentReplay, i, row.OpeningBalance, running)
		}
		if row.ClosingBalance != row.OpeningBalance+row.Effect() {
			return fmt.Errorf("%w: row %d closes at %d, expected %d",
				ErrInconsistentReplay, i, row.ClosingBalance, row.OpeningBalance+row.Effect())
		}
		if i > 0 && row.CreatedAt.Before(r.Rows[i-1].CreatedAt) {
			return fmt.Errorf("%w: row %d is out of chronological order", ErrInconsistentReplay, i)
		}
		running = row.ClosingBalance
	}

	if running != r.ClosingBalance {
		return fmt.Errorf("%w: last row closes at %d, report closes at %d", ErrInconsistentReplay, running, r.ClosingBalance)
	}
	if r.NetMovement != r.Inflows-r.Outflows {
		return fmt.Errorf("%w: net movement %d != inflows %d - outflows %d",
			ErrInconsistentReplay, r.NetMovement, r.Inflows, r.Outflows)
	}
	if r.ClosingBalance != r.OpeningBalance+r.NetMovement {
		return fmt.Errorf("%w: closing %d != opening %d + net %d",
			ErrInconsistentReplay, r.ClosingBalance, r.OpeningBalance, r.NetMovement)
	}
	return nil
}

// NewestFirst returns the replayed rows in reverse chronological order
func (r *Report) NewestFirst() []Row {
	return NewestFirst(r.Rows)
}

func earliest(txns []ledger.Transaction, fallback time.Time) time.Time {
	if len(txns) == 0 {
		return fallback
	}
	first := txns[0].CreatedAt
	for _, txn := range txns[1:] {
		if txn.CreatedAt.Before(first) {
			first = txn.CreatedAt
		}
	}
	return first
}
