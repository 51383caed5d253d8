package service

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/pettycash-ledger/internal/domain/ledger"
	"github.com/pettycash-ledger/internal/domain/shared"
	"github.com/pettycash-ledger/internal/domain/wallet"
	"github.com/stretchr/testify/mock"
)

type MockProcessingService struct {
	mock.Mock
}

func (m *MockProcessingService) ProcessEvent(ctx context.Context, event *shared.LedgerEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type MockEventValidator struct {
	mock.Mock
}

func (m *MockEventValidator) Validate(ctx context.Context, event *shared.LedgerEvent) (*ledger.Transaction, error) {
	args := m.Called(ctx, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Transaction), args.Error(1)
}

func (m *MockEventValidator) CheckIdempotency(ctx context.Context, txn *ledger.Transaction) (bool, error) {
	args := m.Called(ctx, txn)
	return args.Bool(0), args.Error(1)
}

type MockWalletManager struct {
	mock.Mock
}

func (m *MockWalletManager) LockAndApplySnapshot(ctx context.Context, tx pgx.Tx, event *shared.LedgerEvent) (*wallet.Wallet, error) {
	args := m.Called(ctx, tx, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.Wallet), args.Error(1)
}

type MockOutboxManager struct {
	mock.Mock
}

func (m *MockOutboxManager) CreateOutboxEntry(ctx context.Context, tx pgx.Tx, txn *ledger.Transaction) error {
	args := m.Called(ctx, tx, txn)
	return args.Error(0)
}

type MockFailureRecorder struct {
	mock.Mock
}

func (m *MockFailureRecorder) RecordFailure(ctx context.Context, key string, payload []byte, reason shared.FailureReason, cause error) error {
	args := m.Called(ctx, key, payload, reason, cause)
	return args.Error(0)
}

// fakeTxRunner runs fn with a nil transaction and reports fn's error,
// mirroring commit on success and rollback on failure.
type fakeTxRunner struct {
	beginErr error
	calls    int
}

func (f *fakeTxRunner) ExecuteTx(_ context.Context, fn func(tx pgx.Tx) error) error {
	f.calls++
	if f.beginErr != nil {
		return f.beginErr
	}
	return fn(nil)
}
