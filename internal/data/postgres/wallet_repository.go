// Package postgres provides PostgreSQL implementations of the wallet snapshot
// and ledger outbox repositories.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pettycash-ledger/internal/domain/wallet"
	"github.com/pettycash-ledger/internal/platform/persistence"
)

const walletColumns = `id, organization_id, name, currency, balance, balance_as_of, version, created_at, updated_at`

// WalletRepository implements the wallet.Repository interface for PostgreSQL
type WalletRepository struct {
	querier persistence.Querier // *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewWalletRepository creates a repository on the shared pool
func NewWalletRepository(logger *slog.Logger, db *persistence.PostgresDB) wallet.Repository {
	return &WalletRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx returns a repository bound to tx
func (r *WalletRepository) WithTx(tx pgx.Tx) wallet.Repository {
	return &WalletRepository{
		querier: tx,
		logger:  r.logger,
	}
}

func (r *WalletRepository) Create(ctx context.Context, w *wallet.Wallet) error {
	query := `
		INSERT INTO wallets (` + walletColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.querier.Exec(ctx, query,
		w.ID,
		w.OrganizationID,
		w.Name,
		w.Currency,
		w.Balance,
		w.BalanceAsOf,
		w.Version,
		w.CreatedAt,
		w.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create wallet", "wallet_id", w.ID.String(), "error", err)
		return fmt.Errorf("failed to create wallet: %w", err)
	}

	return nil
}

func (r *WalletRepository) GetByID(ctx context.Context, id uuid.UUID) (*wallet.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = $1`

	w, err := scanWallet(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, wallet.ErrWalletNotFound{WalletID: id}
		}
		r.logger.Error("Failed to get wallet", "wallet_id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}

	return w, nil
}

func (r *WalletRepository) ListByOrganization(ctx context.Context, organizationID uuid.UUID) ([]*wallet.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE organization_id = $1 ORDER BY name ASC`

	rows, err := r.querier.Query(ctx, query, organizationID)
	if err != nil {
		r.logger.Error("Failed to list wallets", "organization_id", organizationID.String(), "error", err)
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}
	defer rows.Close()

	wallets := []*wallet.Wallet{}
	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wallet: %w", err)
		}
		wallets = append(wallets, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over wallets: %w", err)
	}

	return wallets, nil
}

// Update persists a new balance snapshot. The stored version must be one
// behind w.Version, otherwise ErrConcurrentModification is returned.
func (r *WalletRepository) Update(ctx context.Context, w *wallet.Wallet) error {
	query := `
		UPDATE wallets
		SET name = $1, balance = $2, balance_as_of = $3, version = $4, updated_at = $5
		WHERE id = $6 AND version = $7
	`

	result, err := r.querier.Exec(ctx, query,
		w.Name,
		w.Balance,
		w.BalanceAsOf,
		w.Version,
		w.UpdatedAt,
		w.ID,
		w.Version-1,
	)
	if err != nil {
		r.logger.Error("Failed to update wallet", "wallet_id", w.ID.String(), "error", err)
		return fmt.Errorf("failed to update wallet: %w", err)
	}

	if result.RowsAffected() == 0 {
		return wallet.ErrConcurrentModification{WalletID: w.ID}
	}

	return nil
}

// LockForUpdate reads the wallet with a row lock held until the surrounding transaction ends
func (r *WalletRepository) LockForUpdate(ctx context.Context, id uuid.UUID) (*wallet.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = $1 FOR UPDATE`

	w, err := scanWallet(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, wallet.ErrWalletNotFound{WalletID: id}
		}
		r.logger.Error("Failed to lock wallet for update", "wallet_id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to lock wallet for update: %w", err)
	}

	return w, nil
}

func scanWallet(row pgx.Row) (*wallet.Wallet, error) {
	var w wallet.Wallet
	err := row.Scan(
		&w.ID,
		&w.OrganizationID,
		&w.Name,
		&w.Currency,
		&w.Balance,
		&w.BalanceAsOf,
		&w.Version,
		&w.CreatedAt,
		&w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &w, nil
}
