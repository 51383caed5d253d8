package reconciliation

import (
	"strings"
	"time"

	"github.com/pettycash-ledger/internal/domain/ledger"
	"github.com/pettycash-ledger/internal/domain/shared"
)

// Criteria selects the transactions of a report window. Zero values disable a criterion.
type Criteria struct {
	From     *time.Time // Calendar date, inclusive from 00:00:00
	To       *time.Time // Calendar date, inclusive until 23:59:59.999999999
	Status   shared.TransactionStatus
	Category shared.Category
	Search   string // Case-insensitive substring of ID, title or payee

	// Location is the frame the calendar dates are interpreted in. Nil means UTC.
	Location *time.Location
}

func (c Criteria) location() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

// StartOfDay returns midnight of t's calendar date in loc
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// EndOfDay returns the last representable instant of t's calendar date in loc
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), loc)
}

// Start returns the normalized lower bound, if any
func (c Criteria) Start() (time.Time, bool) {
	if c.From == nil {
		return time.Time{}, false
	}
	return StartOfDay(*c.From, c.location()), true
}

// End returns the normalized upper bound, if any
func (c Criteria) End() (time.Time, bool) {
	if c.To == nil {
		return time.Time{}, false
	}
	return EndOfDay(*c.To, c.location()), true
}

// HasNonDateFilter reports whether status, category or text narrow the window
func (c Criteria) HasNonDateFilter() bool {
	return c.Status != "" || c.Category != "" || strings.TrimSpace(c.Search) != ""
}

// Matches reports whether txn satisfies every enabled criterion
func (c Criteria) Matches(txn ledger.Transaction) bool {
	if start, ok := c.Start(); ok && txn.CreatedAt.Before(start) {
		return false
	}
	if end, ok := c.End(); ok && txn.CreatedAt.After(end) {
		return false
	}
	if c.Status != "" && txn.Status != c.Status {
		return false
	}
	if c.Category != "" && txn.Category != c.Category {
		return false
	}
	if needle := strings.ToLower(strings.TrimSpace(c.Search)); needle != "" {
		haystacks := []string{txn.ID, txn.Title, txn.Payee}
		for _, h := range haystacks {
			if strings.Contains(strings.ToLower(h), needle) {
				return true
			}
		}
		return false
	}
	return true
}

// Filter returns the transactions matching c, preserving input order
func Filter(all []ledger.Transaction, c Criteria) []ledger.Transaction {
	subset := make([]ledger.Transaction, 0, len(all))
	for _, txn := range all {
		if c.Matches(txn) {
			subset = append(subset, txn)
		}
	}
	return subset
}
