package wallet

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrInvalidBalance        = errors.New("opening balance must not be negative")
	ErrEmptyName             = errors.New("wallet name cannot be empty")
	ErrInvalidCurrencyFormat = errors.New("currency must be a 3-letter code")
	ErrStaleSnapshot         = errors.New("balance snapshot is older than the stored one")
)

// Wallet is a petty cash wallet together with its latest upstream balance snapshot
type Wallet struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	Name           string    `json:"name"`
	Currency       string    `json:"currency"`
	Balance        int64     `json:"balance"` // Stored in cents/minor units
	BalanceAsOf    time.Time `json:"balance_as_of"`
	Version        int       `json:"version"` // For optimistic locking
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewWallet creates a wallet whose balance is known as of asOf
func NewWallet(organizationID uuid.UUID, name string, currency string, balance int64, asOf time.Time) (*Wallet, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if len(currency) != 3 {
		return nil, ErrInvalidCurrencyFormat
	}
	if balance < 0 {
		return nil, ErrInvalidBalance
	}

	now := time.Now()
	if asOf.IsZero() {
		asOf = now
	}

	return &Wallet{
		ID:             uuid.New(),
		OrganizationID: organizationID,
		Name:           name,
		Currency:       currency,
		Balance:        balance,
		BalanceAsOf:    asOf,
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// ApplySnapshot replaces the balance with a newer upstream snapshot.
// Snapshots at or before BalanceAsOf are rejected with ErrStaleSnapshot.
// Negative balances are accepted; whether they are legal is upstream policy.
func (w *Wallet) ApplySnapshot(balance int64, asOf time.Time) error {
	if !asOf.After(w.BalanceAsOf) {
		return ErrStaleSnapshot
	}

	w.Balance = balance
	w.BalanceAsOf = asOf
	w.UpdatedAt = time.Now()
	w.Version++
	return nil
}
