package wallet

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository defines wallet snapshot persistence operations
type Repository interface {
	Create(ctx context.Context, w *Wallet) error
	GetByID(ctx context.Context, id uuid.UUID) (*Wallet, error)
	ListByOrganization(ctx context.Context, organizationID uuid.UUID) ([]*Wallet, error)
	Update(ctx context.Context, w *Wallet) error

	// LockForUpdate acquires a pessimistic lock for snapshot processing
	LockForUpdate(ctx context.Context, id uuid.UUID) (*Wallet, error)
	WithTx(tx pgx.Tx) Repository
}

// ErrConcurrentModification indicates optimistic lock failure
type ErrConcurrentModification struct {
	WalletID uuid.UUID
}

func (e ErrConcurrentModification) Error() string {
	return "concurrent modification detected for wallet: " + e.WalletID.String()
}

// ErrWalletNotFound indicates missing wallet
type ErrWalletNotFound struct {
	WalletID uuid.UUID
}

func (e ErrWalletNotFound) Error() string {
	return "wallet not found: " + e.WalletID.String()
}

// Is matches any ErrWalletNotFound when the target has no ID
func (e ErrWalletNotFound) Is(target error) bool {
	t, ok := target.(ErrWalletNotFound)
	if !ok {
		return false
	}
	return t.WalletID == uuid.Nil || t.WalletID == e.WalletID
}
