package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pettycash-ledger/internal/domain/wallet"
)

// CreateWalletInput carries the fields of a new wallet
type CreateWalletInput struct {
	OrganizationID uuid.UUID
	Name           string
	Currency       string
	Balance        int64
	BalanceAsOf    time.Time
}

// WalletServiceImpl implements the WalletService interface
type WalletServiceImpl struct {
	walletRepo wallet.Repository
	logger     *slog.Logger
}

// NewWalletService creates a new wallet service
func NewWalletService(logger *slog.Logger, walletRepo wallet.Repository) WalletService {
	return &WalletServiceImpl{
		walletRepo: walletRepo,
		logger:     logger,
	}
}

func (s *WalletServiceImpl) CreateWallet(ctx context.Context, input CreateWalletInput) (*wallet.Wallet, error) {
	w, err := wallet.NewWallet(input.OrganizationID, input.Name, input.Currency, input.Balance, input.BalanceAsOf)
	if err != nil {
		return nil, err
	}

	if err := s.walletRepo.Create(ctx, w); err != nil {
		return nil, err
	}

	s.logger.Info("Wallet created",
		"wallet_id", w.ID.String(),
		"organization_id", w.OrganizationID.String(),
		"currency", w.Currency,
	)
	return w, nil
}

func (s *WalletServiceImpl) GetWalletByID(ctx context.Context, id uuid.UUID) (*wallet.Wallet, error) {
	return s.walletRepo.GetByID(ctx, id)
}
