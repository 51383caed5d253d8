package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pettycash-ledger/internal/domain/shared"
)

// Repository manages synchronized ledger transactions with pagination support
type Repository interface {
	Create(ctx context.Context, txn *Transaction) error
	GetByID(ctx context.Context, walletID uuid.UUID, id string) (*Transaction, error)
	// UpdateStatus records an upstream approval decision on a stored transaction.
	// It reports false when the transaction already had that status.
	UpdateStatus(ctx context.Context, walletID uuid.UUID, id string, status shared.TransactionStatus, syncedAt time.Time) (bool, error)
	GetByWalletID(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]*Transaction, error)
	CountByWalletID(ctx context.Context, walletID uuid.UUID) (int64, error)
	// ListAllByWalletID returns the full history oldest first, capped at limit when limit > 0
	ListAllByWalletID(ctx context.Context, walletID uuid.UUID, limit int) ([]Transaction, error)
}

// ErrTransactionNotFound indicates missing ledger transaction
type ErrTransactionNotFound struct {
	WalletID uuid.UUID
	ID       string
}

func (e ErrTransactionNotFound) Error() string {
	return "ledger transaction not found: " + e.WalletID.String() + "/" + e.ID
}

// Is implements the errors.Is interface for ErrTransactionNotFound
func (e ErrTransactionNotFound) Is(target error) bool {
	t, ok := target.(ErrTransactionNotFound)
	if !ok {
		return false
	}
	// An empty target ID matches any ErrTransactionNotFound
	if t.ID == "" {
		return true
	}
	return e.ID == t.ID && e.WalletID == t.WalletID
}

// ErrDuplicateTransaction indicates transaction uniqueness violation
type ErrDuplicateTransaction struct {
	WalletID uuid.UUID
	ID       string
}

func (e ErrDuplicateTransaction) Error() string {
	return "duplicate ledger transaction: " + e.WalletID.String() + "/" + e.ID
}

// Is implements the errors.Is interface for ErrDuplicateTransaction
func (e ErrDuplicateTransaction) Is(target error) bool {
	t, ok := target.(ErrDuplicateTransaction)
	if !ok {
		return false
	}
	if t.ID == "" {
		return true
	}
	return e.ID == t.ID && e.WalletID == t.WalletID
}
