package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/pettycash-ledger/internal/domain/ledger"
	"github.com/pettycash-ledger/internal/domain/wallet"
	"github.com/pettycash-ledger/internal/export"
)

// WalletService defines the interface for wallet snapshot operations
type WalletService interface {
	// CreateWallet registers a wallet together with its opening balance snapshot
	CreateWallet(ctx context.Context, input CreateWalletInput) (*wallet.Wallet, error)

	// GetWalletByID returns ErrWalletNotFound if the wallet doesn't exist
	GetWalletByID(ctx context.Context, id uuid.UUID) (*wallet.Wallet, error)
}

// TransactionService defines the interface for ledger transaction operations
type TransactionService interface {
	// ImportRecords queues upstream records for synchronization.
	// Records that are not JSON objects are rejected individually; the rest are published.
	ImportRecords(ctx context.Context, walletID uuid.UUID, batch ImportBatch) (*ImportResult, error)

	// GetTransactionsByWalletID returns one page newest first together with the total count
	GetTransactionsByWalletID(ctx context.Context, walletID uuid.UUID, page, perPage int) ([]*ledger.Transaction, int64, error)
}

// ReportService builds reconciliation reports for a wallet
type ReportService interface {
	BuildReport(ctx context.Context, walletID uuid.UUID, query ReportQuery) (*WalletReport, error)
	ExportReport(ctx context.Context, walletID uuid.UUID, query ReportQuery, format export.Format) (*ExportedReport, error)
}
