package outbox

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pettycash-ledger/internal/domain/shared"
)

// Repository manages transactional outbox message persistence
type Repository interface {
	// Create stages message. Staging a transaction that already has a message
	// replaces its payload and makes it pending again.
	Create(ctx context.Context, message *Message) error
	GetPending(ctx context.Context, limit int) ([]*Message, error)
	UpdateStatus(ctx context.Context, id int64, status shared.OutboxStatus) error
	// MarkProcessed completes delivery of payload. It returns ErrMessageNotFound
	// when the message was restaged with a different payload in the meantime.
	MarkProcessed(ctx context.Context, id int64, payload json.RawMessage) error
	IncrementAttempts(ctx context.Context, id int64) error
	GetByTransactionID(ctx context.Context, walletID uuid.UUID, transactionID string) (*Message, error)
	WithTx(tx pgx.Tx) Repository
}

// ErrMessageNotFound indicates missing outbox message
type ErrMessageNotFound struct {
	ID int64
}

func (e ErrMessageNotFound) Error() string {
	return "outbox message not found: " + strconv.FormatInt(e.ID, 10)
}

// Is matches any ErrMessageNotFound; the ID is informational
func (e ErrMessageNotFound) Is(target error) bool {
	_, ok := target.(ErrMessageNotFound)
	return ok
}
