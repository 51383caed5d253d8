package outbox_poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pettycash-ledger/internal/domain/ledger"
	"github.com/pettycash-ledger/internal/domain/outbox"
	"github.com/pettycash-ledger/internal/domain/shared"
	"github.com/pettycash-ledger/internal/observability/metrics"
)

// LedgerPublisher writes staged outbox messages to the ledger store
type LedgerPublisher interface {
	PublishToLedger(ctx context.Context, message *outbox.Message) error
}

type LedgerPublisherImpl struct {
	outboxRepo outbox.Repository
	ledgerRepo ledger.Repository
	logger     *slog.Logger
	now        func() time.Time
}

func NewLedgerPublisher(
	outboxRepo outbox.Repository,
	ledgerRepo ledger.Repository,
	logger *slog.Logger,
) LedgerPublisher {
	return &LedgerPublisherImpl{
		outboxRepo: outboxRepo,
		ledgerRepo: ledgerRepo,
		logger:     logger,
		now:        time.Now,
	}
}

// PublishToLedger inserts the staged transaction and marks the message
// processed. When the transaction is already stored only its status is
// brought up to date, which is how upstream approval decisions arrive.
func (p *LedgerPublisherImpl) PublishToLedger(ctx context.Context, message *outbox.Message) error {
	txn, err := message.Transaction()
	if err != nil {
		p.logger.Error("Failed to decode ledger transaction from outbox payload",
			"outbox_id", message.ID, "transaction_id", message.TransactionID, "error", err,
		)
		metrics.IncOutboxPublish(metrics.ResultError)
		if updateErr := p.outboxRepo.UpdateStatus(ctx, message.ID, shared.OutboxStatusFailedToPublish); updateErr != nil {
			p.logger.Error("Failed to mark undecodable outbox message", "outbox_id", message.ID, "error", updateErr)
		}
		return fmt.Errorf("decode payload for outbox %d: %w", message.ID, err)
	}

	logger := p.logger
	if txn.CorrelationID != "" {
		logger = p.logger.With("correlation_id", txn.CorrelationID)
	}
	logger = logger.With("outbox_id", message.ID, "transaction_id", txn.ID, "wallet_id", txn.WalletID.String())

	syncedAt := p.now().UTC()
	txn.SyncedAt = &syncedAt

	result := metrics.ResultSuccess
	if err := p.ledgerRepo.Create(ctx, txn); err != nil {
		if !errors.Is(err, ledger.ErrDuplicateTransaction{}) {
			metrics.IncOutboxPublish(metrics.ResultError)
			return fmt.Errorf("failed to store ledger transaction %s: %w", txn.ID, err)
		}

		updated, err := p.ledgerRepo.UpdateStatus(ctx, txn.WalletID, txn.ID, txn.Status, syncedAt)
		if err != nil {
			metrics.IncOutboxPublish(metrics.ResultError)
			return fmt.Errorf("failed to update status of ledger transaction %s: %w", txn.ID, err)
		}
		if updated {
			logger.Info("Ledger transaction status updated", "status", txn.Status)
		} else {
			logger.Info("Ledger transaction already stored")
			result = metrics.ResultDuplicate
		}
	}

	if err := p.outboxRepo.MarkProcessed(ctx, message.ID, message.Payload); err != nil {
		if errors.Is(err, outbox.ErrMessageNotFound{}) {
			// Restaged with a newer payload; the next poll delivers it.
			logger.Info("Outbox message restaged during publish")
			metrics.IncOutboxPublish(result)
			return nil
		}
		metrics.IncOutboxPublish(metrics.ResultError)
		return fmt.Errorf("ledger write for %s OK, but failed to mark outbox %d as PROCESSED: %w", txn.ID, message.ID, err)
	}

	metrics.IncOutboxPublish(result)
	logger.Info("Outbox message published to ledger store")
	return nil
}
