package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pettycash-ledger/internal/domain/shared"
)

// ErrInvalidTransaction is matched by every ValidationError
var ErrInvalidTransaction = errors.New("invalid transaction")

// Transaction is an immutable ledger fact owned by the upstream ledger service
type Transaction struct {
	ID            string                   `json:"id" bson:"id"`
	WalletID      uuid.UUID                `json:"wallet_id" bson:"wallet_id"`
	CreatedAt     time.Time                `json:"created_at" bson:"created_at"`
	Direction     shared.Direction         `json:"direction" bson:"direction"`
	Amount        int64                    `json:"amount" bson:"amount"` // Stored in cents/minor units
	Status        shared.TransactionStatus `json:"status" bson:"status"`
	Category      shared.Category          `json:"category" bson:"category"`
	Title         string                   `json:"title,omitempty" bson:"title,omitempty"`
	Payee         string                   `json:"payee,omitempty" bson:"payee,omitempty"`
	CorrelationID string                   `json:"correlation_id,omitempty" bson:"correlation_id,omitempty"`
	SyncedAt      *time.Time               `json:"synced_at,omitempty" bson:"synced_at,omitempty"`
}

// ValidationError describes which field of which transaction is unusable
type ValidationError struct {
	TransactionID string
	Field         string
	Reason        string
}

func (e ValidationError) Error() string {
	id := e.TransactionID
	if id == "" {
		id = "<empty>"
	}
	return fmt.Sprintf("invalid transaction %s: %s %s", id, e.Field, e.Reason)
}

// Is lets errors.Is(err, ErrInvalidTransaction) match any ValidationError
func (e ValidationError) Is(target error) bool {
	if target == ErrInvalidTransaction {
		return true
	}
	t, ok := target.(ValidationError)
	if !ok {
		return false
	}
	return t.Field == "" || t.Field == e.Field
}

// Validate rejects records whose effect on a running balance would be undefined
func (t Transaction) Validate() error {
	switch {
	case t.ID == "":
		return ValidationError{Field: "id", Reason: "is required"}
	case t.CreatedAt.IsZero():
		return ValidationError{TransactionID: t.ID, Field: "created_at", Reason: "is required"}
	case !t.Direction.Valid():
		return ValidationError{TransactionID: t.ID, Field: "direction", Reason: fmt.Sprintf("%q is not credit or debit", t.Direction)}
	case t.Amount < 0:
		return ValidationError{TransactionID: t.ID, Field: "amount", Reason: "must not be negative"}
	}
	return nil
}

// Effect returns the signed change this transaction applies to a balance
func (t Transaction) Effect() int64 {
	return t.Direction.Sign() * t.Amount
}

// SignedAmount is Effect under the name used by exports: debits are negative
func (t Transaction) SignedAmount() int64 {
	return t.Effect()
}
