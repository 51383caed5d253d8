package service

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/pettycash-ledger/internal/domain/ledger"
	"github.com/pettycash-ledger/internal/domain/shared"
	"github.com/pettycash-ledger/internal/domain/wallet"
)

// ProcessingService synchronizes one upstream ledger event
type ProcessingService interface {
	ProcessEvent(ctx context.Context, event *shared.LedgerEvent) error
}

// EventValidator turns events into ledger transactions and detects replays
type EventValidator interface {
	Validate(ctx context.Context, event *shared.LedgerEvent) (*ledger.Transaction, error)
	// CheckIdempotency reports whether txn is already stored or staged
	CheckIdempotency(ctx context.Context, txn *ledger.Transaction) (bool, error)
}

// WalletManager locks the owning wallet and applies any balance snapshot the event carries
type WalletManager interface {
	LockAndApplySnapshot(ctx context.Context, tx pgx.Tx, event *shared.LedgerEvent) (*wallet.Wallet, error)
}

// OutboxManager stages a transaction for the ledger store inside tx
type OutboxManager interface {
	CreateOutboxEntry(ctx context.Context, tx pgx.Tx, txn *ledger.Transaction) error
}

// FailureRecorder parks events that can never be synchronized
type FailureRecorder interface {
	RecordFailure(ctx context.Context, key string, payload []byte, reason shared.FailureReason, cause error) error
}

// TxRunner runs fn inside a single database transaction
type TxRunner interface {
	ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}
