package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pettycash-ledger/internal/domain/ledger"
	"github.com/pettycash-ledger/internal/domain/shared"
	"github.com/pettycash-ledger/internal/domain/wallet"
	"github.com/stretchr/testify/mock"
)

type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) Create(ctx context.Context, w *wallet.Wallet) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *MockWalletRepository) GetByID(ctx context.Context, id uuid.UUID) (*wallet.Wallet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.Wallet), args.Error(1)
}

func (m *MockWalletRepository) ListByOrganization(ctx context.Context, organizationID uuid.UUID) ([]*wallet.Wallet, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*wallet.Wallet), args.Error(1)
}

func (m *MockWalletRepository) Update(ctx context.Context, w *wallet.Wallet) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *MockWalletRepository) LockForUpdate(ctx context.Context, id uuid.UUID) (*wallet.Wallet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.Wallet), args.Error(1)
}

func (m *MockWalletRepository) WithTx(tx pgx.Tx) wallet.Repository {
	args := m.Called(tx)
	return args.Get(0).(wallet.Repository)
}

type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) Create(ctx context.Context, txn *ledger.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockLedgerRepository) GetByID(ctx context.Context, walletID uuid.UUID, id string) (*ledger.Transaction, error) {
	args := m.Called(ctx, walletID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Transaction), args.Error(1)
}

func (m *MockLedgerRepository) UpdateStatus(ctx context.Context, walletID uuid.UUID, id string, status shared.TransactionStatus, syncedAt time.Time) (bool, error) {
	args := m.Called(ctx, walletID, id, status, syncedAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockLedgerRepository) GetByWalletID(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]*ledger.Transaction, error) {
	args := m.Called(ctx, walletID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.Transaction), args.Error(1)
}

func (m *MockLedgerRepository) CountByWalletID(ctx context.Context, walletID uuid.UUID) (int64, error) {
	args := m.Called(ctx, walletID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepository) ListAllByWalletID(ctx context.Context, walletID uuid.UUID, limit int) ([]ledger.Transaction, error) {
	args := m.Called(ctx, walletID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.Transaction), args.Error(1)
}

type MockMessagingProducer struct {
	mock.Mock
}

func (m *MockMessagingProducer) Publish(ctx context.Context, key string, value any) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockMessagingProducer) Close() error {
	args := m.Called()
	return args.Error(0)
}
