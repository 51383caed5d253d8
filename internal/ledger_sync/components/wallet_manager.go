package components

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/pettycash-ledger/internal/domain/shared"
	"github.com/pettycash-ledger/internal/domain/wallet"
	"github.com/pettycash-ledger/internal/ledger_sync/service"
)

type WalletManagerImpl struct {
	walletRepo wallet.Repository
	logger     *slog.Logger
}

func NewWalletManager(walletRepo wallet.Repository, logger *slog.Logger) service.WalletManager {
	return &WalletManagerImpl{
		walletRepo: walletRepo,
		logger:     logger,
	}
}

// LockAndApplySnapshot locks the wallet row for the rest of tx. Events
// without a snapshot only prove the wallet exists; stale snapshots are
// ignored so that redelivered or reordered events never roll a balance back.
func (m *WalletManagerImpl) LockAndApplySnapshot(ctx context.Context, tx pgx.Tx, event *shared.LedgerEvent) (*wallet.Wallet, error) {
	logger := m.logger
	if event.CorrelationID != "" {
		logger = m.logger.With("correlation_id", event.CorrelationID)
	}

	repoTx := m.walletRepo.WithTx(tx)

	locked, err := repoTx.LockForUpdate(ctx, event.WalletID)
	if err != nil {
		if errors.Is(err, wallet.ErrWalletNotFound{}) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to lock wallet %s: %w", event.WalletID.String(), err)
	}

	if event.BalanceAfter == nil || event.BalanceAsOf == nil {
		return locked, nil
	}

	if err := locked.ApplySnapshot(*event.BalanceAfter, *event.BalanceAsOf); err != nil {
		if errors.Is(err, wallet.ErrStaleSnapshot) {
			logger.Info("Ignoring stale balance snapshot",
				"wallet_id", locked.ID.String(),
				"stored_as_of", locked.BalanceAsOf,
				"event_as_of", *event.BalanceAsOf,
			)
			return locked, nil
		}
		return nil, err
	}

	if err := repoTx.Update(ctx, locked); err != nil {
		return nil, err
	}
	logger.Info("Wallet balance snapshot applied",
		"wallet_id", locked.ID.String(),
		"balance", locked.Balance,
		"as_of", locked.BalanceAsOf,
	)
	return locked, nil
}
