package components

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/pettycash-ledger/internal/domain/ledger"
	"github.com/pettycash-ledger/internal/domain/outbox"
	"github.com/pettycash-ledger/internal/ledger_sync/service"
)

type OutboxManagerImpl struct {
	outboxRepo outbox.Repository
	logger     *slog.Logger
}

func NewOutboxManager(outboxRepo outbox.Repository, logger *slog.Logger) service.OutboxManager {
	return &OutboxManagerImpl{
		outboxRepo: outboxRepo,
		logger:     logger,
	}
}

// CreateOutboxEntry stages txn for the outbox poller
func (m *OutboxManagerImpl) CreateOutboxEntry(ctx context.Context, tx pgx.Tx, txn *ledger.Transaction) error {
	logger := m.logger
	if txn.CorrelationID != "" {
		logger = m.logger.With("correlation_id", txn.CorrelationID)
	}

	message, err := outbox.NewMessage(txn)
	if err != nil {
		return fmt.Errorf("failed to create outbox message payload for %s: %w", txn.ID, err)
	}

	if err := m.outboxRepo.WithTx(tx).Create(ctx, message); err != nil {
		return fmt.Errorf("failed to create outbox message for %s: %w", txn.ID, err)
	}
	logger.Info("Outbox message created", "transaction_id", txn.ID, "outbox_id", message.ID)
	return nil
}
