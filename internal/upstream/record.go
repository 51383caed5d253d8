package upstream

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pettycash-ledger/internal/domain/ledger"
	"github.com/pettycash-ledger/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var (
	ErrMalformedRecord  = errors.New("malformed upstream record")
	ErrInvalidAmount    = errors.New("amount must be a non-negative whole number of minor units")
	ErrInvalidTimestamp = errors.New("created_at must be an RFC3339 timestamp")
	ErrInvalidDirection = shared.ErrInvalidDirection
)

var maxAmount = decimal.NewFromInt(math.MaxInt64)

const titleSeparator = " - "

// Record is a transaction as the upstream ledger API returns it. Older
// payloads use "type" instead of "direction" and encode the amount as a string.
type Record struct {
	ID        string          `json:"id"`
	CreatedAt string          `json:"created_at"`
	Direction string          `json:"direction,omitempty"`
	Type      string          `json:"type,omitempty"`
	Amount    json.RawMessage `json:"amount"`
	Status    string          `json:"status,omitempty"`
	Category  string          `json:"category,omitempty"`
	Title     string          `json:"title,omitempty"`
	Payee     string          `json:"payee,omitempty"`
}

// ParseRecord decodes a single upstream record
func ParseRecord(raw []byte) (Record, error) {
	var r Record
	if err := json.Unmarshal(raw, &r); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	return r, nil
}

// ToTransaction converts the record into a validated ledger transaction
// owned by walletID. Nothing is coerced: a record that cannot be represented
// exactly is rejected.
func (r Record) ToTransaction(walletID uuid.UUID) (ledger.Transaction, error) {
	createdAt, err := ParseTimestamp(r.CreatedAt)
	if err != nil {
		return ledger.Transaction{}, fmt.Errorf("record %s: %w", r.ID, err)
	}

	rawDirection := r.Direction
	if rawDirection == "" {
		rawDirection = r.Type
	}
	direction, err := shared.ParseDirection(rawDirection)
	if err != nil {
		return ledger.Transaction{}, fmt.Errorf("record %s: %w: %q", r.ID, err, rawDirection)
	}

	amount, err := ParseAmount(r.Amount)
	if err != nil {
		return ledger.Transaction{}, fmt.Errorf("record %s: %w", r.ID, err)
	}

	category, payee := r.Category, strings.TrimSpace(r.Payee)
	if category == "" || payee == "" {
		titleCategory, titlePayee := SplitTitle(r.Title)
		if category == "" {
			category = string(titleCategory)
		}
		if payee == "" {
			payee = titlePayee
		}
	}

	txn := ledger.Transaction{
		ID:        strings.TrimSpace(r.ID),
		WalletID:  walletID,
		CreatedAt: createdAt,
		Direction: direction,
		Amount:    amount,
		Status:    shared.NormalizeStatus(r.Status),
		Category:  shared.CategoryOrUncategorized(category),
		Title:     strings.TrimSpace(r.Title),
		Payee:     payee,
	}
	if err := txn.Validate(); err != nil {
		return ledger.Transaction{}, err
	}
	return txn, nil
}

// ParseTimestamp accepts RFC3339 with or without fractional seconds. The result
// is truncated to milliseconds, the precision the ledger store keeps.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidTimestamp
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
	}
	return t.Truncate(time.Millisecond), nil
}

// ParseAmount reads a JSON number or numeric string holding minor units
func ParseAmount(raw json.RawMessage) (int64, error) {
	text := strings.TrimSpace(string(raw))
	if text == "" || text == "null" {
		return 0, ErrInvalidAmount
	}
	if strings.HasPrefix(text, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, ErrInvalidAmount
		}
		text = strings.TrimSpace(s)
	}

	d, err := decimal.NewFromString(text)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, text)
	}
	if d.IsNegative() || !d.Equal(d.Truncate(0)) || d.GreaterThan(maxAmount) {
		return 0, fmt.Errorf("%w: %s", ErrInvalidAmount, d.String())
	}
	return d.IntPart(), nil
}

// SplitTitle breaks a legacy "Category - Payee" title into its parts. Only the
// spaced separator counts, so hyphenated words stay intact. Titles without it
// yield the uncategorized variant and no payee.
func SplitTitle(title string) (shared.Category, string) {
	category, payee, found := strings.Cut(title, titleSeparator)
	if !found {
		return shared.CategoryUncategorized, ""
	}
	return shared.CategoryOrUncategorized(category), strings.TrimSpace(payee)
}
