package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pettycash-ledger/internal/domain/shared"
	"github.com/pettycash-ledger/internal/domain/wallet"
	"github.com/pettycash-ledger/internal/observability/metrics"
)

type ProcessingServiceImpl struct {
	db              TxRunner
	validator       EventValidator
	walletManager   WalletManager
	outboxManager   OutboxManager
	failureRecorder FailureRecorder
	logger          *slog.Logger
}

func NewProcessingService(
	db TxRunner,
	validator EventValidator,
	walletManager WalletManager,
	outboxManager OutboxManager,
	failureRecorder FailureRecorder,
	logger *slog.Logger,
) ProcessingService {
	return &ProcessingServiceImpl{
		db:              db,
		validator:       validator,
		walletManager:   walletManager,
		outboxManager:   outboxManager,
		failureRecorder: failureRecorder,
		logger:          logger,
	}
}

// ProcessEvent validates the record, applies the balance snapshot and stages
// the transaction in the outbox, all in one Postgres transaction. Events that
// can never succeed are dead-lettered and acknowledged; any other error is
// returned so the message is redelivered.
func (s *ProcessingServiceImpl) ProcessEvent(ctx context.Context, event *shared.LedgerEvent) (err error) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		if err != nil {
			result = metrics.ResultError
		}
		metrics.ObserveLedgerEvent(result, time.Since(start))
	}()

	logger := s.logger
	if event.CorrelationID != "" {
		logger = s.logger.With("correlation_id", event.CorrelationID)
	}
	logger = logger.With("event_id", event.EventID.String(), "wallet_id", event.WalletID.String())

	// 1. Validate the record
	txn, err := s.validator.Validate(ctx, event)
	if err != nil {
		logger.Warn("Ledger event rejected", "error", err)
		result = metrics.ResultRejected
		return s.recordFailure(ctx, logger, event, shared.FailureReasonInvalidRecord, err)
	}
	logger = logger.With("transaction_id", txn.ID)

	// 2. Check idempotency
	duplicate, err := s.validator.CheckIdempotency(ctx, txn)
	if err != nil {
		return err
	}
	if duplicate && !hasSnapshot(event) {
		logger.Info("Ledger transaction already synchronized")
		result = metrics.ResultDuplicate
		return nil
	}

	// 3. Lock wallet, apply snapshot and stage the transaction
	err = s.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		if _, err := s.walletManager.LockAndApplySnapshot(ctx, tx, event); err != nil {
			return err
		}
		if duplicate {
			return nil
		}
		return s.outboxManager.CreateOutboxEntry(ctx, tx, txn)
	})
	if err != nil {
		if errors.Is(err, wallet.ErrWalletNotFound{}) {
			logger.Warn("Ledger event references an unknown wallet")
			result = metrics.ResultRejected
			return s.recordFailure(ctx, logger, event, shared.FailureReasonWalletNotFound, err)
		}
		logger.Error("Failed to synchronize ledger event", "error", err)
		return fmt.Errorf("synchronize event %s: %w", event.EventID.String(), err)
	}

	if duplicate {
		result = metrics.ResultDuplicate
		logger.Info("Applied balance snapshot for already synchronized transaction")
		return nil
	}

	logger.Info("Ledger transaction staged", "amount", txn.Amount, "direction", txn.Direction)
	return nil
}

// recordFailure dead-letters the event. A failed hand-off is returned so the
// event is redelivered instead of silently dropped.
func (s *ProcessingServiceImpl) recordFailure(ctx context.Context, logger *slog.Logger, event *shared.LedgerEvent, reason shared.FailureReason, cause error) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event %s for dead letter queue: %w", event.EventID.String(), err)
	}
	if err := s.failureRecorder.RecordFailure(ctx, event.WalletID.String(), payload, reason, cause); err != nil {
		logger.Error("Failed to record ledger event failure", "reason", reason, "error", err)
		return fmt.Errorf("record failure for event %s: %w", event.EventID.String(), err)
	}
	return nil
}

func hasSnapshot(event *shared.LedgerEvent) bool {
	return event.BalanceAfter != nil && event.BalanceAsOf != nil
}
