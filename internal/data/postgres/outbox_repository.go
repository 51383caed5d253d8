package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pettycash-ledger/internal/domain/outbox"
	"github.com/pettycash-ledger/internal/domain/shared"
	"github.com/pettycash-ledger/internal/platform/persistence"
)

const outboxColumns = `id, wallet_id, transaction_id, payload, status, attempts, created_at, last_attempt_at`

// OutboxRepository implements the outbox.Repository interface for PostgreSQL
type OutboxRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewOutboxRepository creates a new PostgreSQL outbox repository
func NewOutboxRepository(logger *slog.Logger, db *persistence.PostgresDB) outbox.Repository {
	return &OutboxRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx binds the repository to tx so that staging a message commits
// together with the wallet snapshot update.
func (r *OutboxRepository) WithTx(tx pgx.Tx) outbox.Repository {
	return &OutboxRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stages a message and fills in its ID. A transaction keeps a single
// row: staging it again overwrites the payload and resets delivery.
func (r *OutboxRepository) Create(ctx context.Context, message *outbox.Message) error {
	query := `
		INSERT INTO ledger_outbox (wallet_id, transaction_id, payload, status, attempts, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (wallet_id, transaction_id) DO UPDATE
		SET payload = EXCLUDED.payload,
		    status = EXCLUDED.status,
		    attempts = EXCLUDED.attempts,
		    created_at = EXCLUDED.created_at,
		    last_attempt_at = NULL
		RETURNING id
	`

	err := r.querier.QueryRow(ctx, query,
		message.WalletID,
		message.TransactionID,
		message.Payload,
		message.Status,
		message.Attempts,
		message.CreatedAt,
	).Scan(&message.ID)
	if err != nil {
		r.logger.Error("Failed to create outbox message",
			"wallet_id", message.WalletID.String(),
			"transaction_id", message.TransactionID,
			"error", err,
		)
		return fmt.Errorf("failed to create outbox message: %w", err)
	}

	return nil
}

// GetPending returns up to limit pending messages, oldest first
func (r *OutboxRepository) GetPending(ctx context.Context, limit int) ([]*outbox.Message, error) {
	query := `
		SELECT ` + outboxColumns + `
		FROM ledger_outbox
		WHERE status = $1
		ORDER BY created_at ASC, id ASC
		LIMIT $2
	`

	rows, err := r.querier.Query(ctx, query, shared.OutboxStatusPending, limit)
	if err != nil {
		r.logger.Error("Failed to get pending outbox messages", "error", err)
		return nil, fmt.Errorf("failed to get pending outbox messages: %w", err)
	}
	defer rows.Close()

	var messages []*outbox.Message
	for rows.Next() {
		message, err := scanMessage(rows)
		if err != nil {
			r.logger.Error("Failed to scan outbox message", "error", err)
			return nil, fmt.Errorf("failed to scan outbox message: %w", err)
		}
		messages = append(messages, message)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over outbox messages", "error", err)
		return nil, fmt.Errorf("error iterating over outbox messages: %w", err)
	}

	return messages, nil
}

func (r *OutboxRepository) UpdateStatus(ctx context.Context, id int64, status shared.OutboxStatus) error {
	query := `
		UPDATE ledger_outbox
		SET status = $1, last_attempt_at = $2
		WHERE id = $3
	`

	result, err := r.querier.Exec(ctx, query, status, time.Now(), id)
	if err != nil {
		r.logger.Error("Failed to update outbox message status", "id", id, "status", string(status), "error", err)
		return fmt.Errorf("failed to update outbox message status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return outbox.ErrMessageNotFound{ID: id}
	}

	return nil
}

// MarkProcessed only matches while the stored payload is the one that was delivered
func (r *OutboxRepository) MarkProcessed(ctx context.Context, id int64, payload json.RawMessage) error {
	query := `
		UPDATE ledger_outbox
		SET status = $1, last_attempt_at = $2
		WHERE id = $3 AND payload = $4::jsonb
	`

	result, err := r.querier.Exec(ctx, query, shared.OutboxStatusProcessed, time.Now(), id, payload)
	if err != nil {
		r.logger.Error("Failed to mark outbox message processed", "id", id, "error", err)
		return fmt.Errorf("failed to mark outbox message processed: %w", err)
	}

	if result.RowsAffected() == 0 {
		return outbox.ErrMessageNotFound{ID: id}
	}

	return nil
}

func (r *OutboxRepository) IncrementAttempts(ctx context.Context, id int64) error {
	query := `
		UPDATE ledger_outbox
		SET attempts = attempts + 1, last_attempt_at = $1
		WHERE id = $2
	`

	result, err := r.querier.Exec(ctx, query, time.Now(), id)
	if err != nil {
		r.logger.Error("Failed to increment outbox message attempts", "id", id, "error", err)
		return fmt.Errorf("failed to increment outbox message attempts: %w", err)
	}

	if result.RowsAffected() == 0 {
		return outbox.ErrMessageNotFound{ID: id}
	}

	return nil
}

// GetByTransactionID looks a message up for idempotency checks
func (r *OutboxRepository) GetByTransactionID(ctx context.Context, walletID uuid.UUID, transactionID string) (*outbox.Message, error) {
	query := `
		SELECT ` + outboxColumns + `
		FROM ledger_outbox
		WHERE wallet_id = $1 AND transaction_id = $2
	`

	message, err := scanMessage(r.querier.QueryRow(ctx, query, walletID, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, outbox.ErrMessageNotFound{}
		}
		r.logger.Error("Failed to get outbox message by transaction ID",
			"wallet_id", walletID.String(),
			"transaction_id", transactionID,
			"error", err,
		)
		return nil, fmt.Errorf("failed to get outbox message by transaction ID: %w", err)
	}

	return message, nil
}

func scanMessage(row pgx.Row) (*outbox.Message, error) {
	var message outbox.Message
	err := row.Scan(
		&message.ID,
		&message.WalletID,
		&message.TransactionID,
		&message.Payload,
		&message.Status,
		&message.Attempts,
		&message.CreatedAt,
		&message.LastAttemptAt,
	)
	if err != nil {
		return nil, err
	}
	return &message, nil
}
