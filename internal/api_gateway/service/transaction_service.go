package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pettycash-ledger/internal/domain/ledger"
	"github.com/pettycash-ledger/internal/domain/shared"
	"github.com/pettycash-ledger/internal/domain/wallet"
	"github.com/pettycash-ledger/internal/observability/metrics"
	"github.com/pettycash-ledger/internal/platform/messaging/producers"
	"github.com/pettycash-ledger/internal/upstream"
)

// ImportBatch is a page of upstream records plus the balance the upstream
// reported after them
type ImportBatch struct {
	Records       []json.RawMessage
	BalanceAfter  *int64
	BalanceAsOf   *time.Time
	CorrelationID string
}

// RecordRejection explains why a record was not queued
type RecordRejection struct {
	Index  int    `json:"index"`
	ID     string `json:"id,omitempty"`
	Reason string `json:"reason"`
}

// ImportResult summarizes an import call
type ImportResult struct {
	Accepted int               `json:"accepted"`
	Rejected []RecordRejection `json:"rejected"`
}

// TransactionServiceImpl implements the TransactionService interface
type TransactionServiceImpl struct {
	walletRepo wallet.Repository
	ledgerRepo ledger.Repository
	producer   producers.MessagePublisher
	logger     *slog.Logger
	now        func() time.Time
}

// NewTransactionService creates a new transaction service
func NewTransactionService(logger *slog.Logger, walletRepo wallet.Repository, ledgerRepo ledger.Repository, producer producers.MessagePublisher) TransactionService {
	return &TransactionServiceImpl{
		walletRepo: walletRepo,
		ledgerRepo: ledgerRepo,
		producer:   producer,
		logger:     logger,
		now:        time.Now,
	}
}

// ImportRecords publishes one ledger event per acceptable record, keyed by
// wallet so that the sync worker sees them in order. The balance snapshot
// travels with the last published event only.
func (s *TransactionServiceImpl) ImportRecords(ctx context.Context, walletID uuid.UUID, batch ImportBatch) (*ImportResult, error) {
	if _, err := s.walletRepo.GetByID(ctx, walletID); err != nil {
		return nil, err
	}

	result := &ImportResult{Rejected: []RecordRejection{}}
	accepted := make([]json.RawMessage, 0, len(batch.Records))
	for i, raw := range batch.Records {
		record, err := upstream.ParseRecord(raw)
		if err == nil {
			_, err = record.ToTransaction(walletID)
		}
		if err != nil {
			result.Rejected = append(result.Rejected, RecordRejection{Index: i, ID: record.ID, Reason: err.Error()})
			continue
		}
		accepted = append(accepted, raw)
	}
	metrics.AddImportRecords(metrics.ResultRejected, len(result.Rejected))

	key := walletID.String()
	for i, raw := range accepted {
		event := shared.LedgerEvent{
			EventID:       uuid.New(),
			WalletID:      walletID,
			Record:        raw,
			CorrelationID: batch.CorrelationID,
			Timestamp:     s.now().UTC(),
		}
		if i == len(accepted)-1 {
			event.BalanceAfter = batch.BalanceAfter
			event.BalanceAsOf = batch.BalanceAsOf
		}

		if err := s.producer.Publish(ctx, key, event); err != nil {
			metrics.AddImportRecords(metrics.ResultSuccess, result.Accepted)
			metrics.AddImportRecords(metrics.ResultError, len(accepted)-result.Accepted)
			s.logger.Error("Failed to publish ledger event",
				"wallet_id", key,
				"published", result.Accepted,
				"error", err,
			)
			return result, fmt.Errorf("import interrupted after %d of %d records: %w", result.Accepted, len(accepted), err)
		}
		result.Accepted++
	}
	metrics.AddImportRecords(metrics.ResultSuccess, result.Accepted)

	s.logger.Info("Ledger records queued",
		"wallet_id", key,
		"accepted", result.Accepted,
		"rejected", len(result.Rejected),
		"correlation_id", batch.CorrelationID,
	)
	return result, nil
}

func (s *TransactionServiceImpl) GetTransactionsByWalletID(ctx context.Context, walletID uuid.UUID, page, perPage int) ([]*ledger.Transaction, int64, error) {
	offset := (page - 1) * perPage

	txns, err := s.ledgerRepo.GetByWalletID(ctx, walletID, perPage, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.ledgerRepo.CountByWalletID(ctx, walletID)
	if err != nil {
		return nil, 0, err
	}

	return txns, total, nil
}
