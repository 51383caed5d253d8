package components

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/pettycash-ledger/internal/domain/ledger"
	"github.com/pettycash-ledger/internal/domain/outbox"
	"github.com/pettycash-ledger/internal/domain/shared"
	"github.com/pettycash-ledger/internal/ledger_sync/service"
	"github.com/pettycash-ledger/internal/upstream"
)

// ErrMissingWallet is returned for events that do not name a wallet
var ErrMissingWallet = errors.New("ledger event has no wallet id")

type EventValidatorImpl struct {
	ledgerRepo ledger.Repository
	outboxRepo outbox.Repository
	logger     *slog.Logger
}

func NewEventValidator(ledgerRepo ledger.Repository, outboxRepo outbox.Repository, logger *slog.Logger) service.EventValidator {
	return &EventValidatorImpl{
		ledgerRepo: ledgerRepo,
		outboxRepo: outboxRepo,
		logger:     logger,
	}
}

// Validate decodes the upstream record carried by the event
func (v *EventValidatorImpl) Validate(ctx context.Context, event *shared.LedgerEvent) (*ledger.Transaction, error) {
	if event.WalletID == uuid.Nil {
		return nil, ErrMissingWallet
	}

	record, err := upstream.ParseRecord(event.Record)
	if err != nil {
		return nil, err
	}
	txn, err := record.ToTransaction(event.WalletID)
	if err != nil {
		return nil, err
	}
	txn.CorrelationID = event.CorrelationID
	return &txn, nil
}

// CheckIdempotency looks for the transaction in the ledger store first and
// then among outbox messages that are staged but not yet published. A known
// transaction whose upstream status changed is not a duplicate: it has to be
// staged again so the new status reaches the ledger store.
func (v *EventValidatorImpl) CheckIdempotency(ctx context.Context, txn *ledger.Transaction) (bool, error) {
	logger := v.logger
	if txn.CorrelationID != "" {
		logger = v.logger.With("correlation_id", txn.CorrelationID)
	}
	logger = logger.With("transaction_id", txn.ID, "wallet_id", txn.WalletID.String())

	stored, err := v.ledgerRepo.GetByID(ctx, txn.WalletID, txn.ID)
	switch {
	case err == nil && stored.Status == txn.Status:
		logger.Info("Transaction already in ledger store")
		return true, nil
	case err == nil:
		logger.Info("Transaction status changed upstream", "stored_status", stored.Status, "status", txn.Status)
	case !errors.Is(err, ledger.ErrTransactionNotFound{}):
		return false, fmt.Errorf("idempotency check in ledger store for %s: %w", txn.ID, err)
	}

	message, err := v.outboxRepo.GetByTransactionID(ctx, txn.WalletID, txn.ID)
	switch {
	case errors.Is(err, outbox.ErrMessageNotFound{}):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("idempotency check in outbox for %s: %w", txn.ID, err)
	}

	staged, err := message.Transaction()
	if err != nil {
		logger.Warn("Staged outbox payload is unreadable, restaging", "outbox_id", message.ID, "error", err)
		return false, nil
	}
	if staged.Status != txn.Status {
		logger.Info("Staged transaction status changed upstream", "staged_status", staged.Status, "status", txn.Status)
		return false, nil
	}

	logger.Info("Transaction already staged in outbox", "outbox_id", message.ID)
	return true, nil
}
