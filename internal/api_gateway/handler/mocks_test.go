package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pettycash-ledger/internal/api_gateway/service"
	"github.com/pettycash-ledger/internal/domain/ledger"
	"github.com/pettycash-ledger/internal/domain/wallet"
	"github.com/pettycash-ledger/internal/export"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockWalletService struct {
	mock.Mock
}

func (m *MockWalletService) CreateWallet(ctx context.Context, input service.CreateWalletInput) (*wallet.Wallet, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.Wallet), args.Error(1)
}

func (m *MockWalletService) GetWalletByID(ctx context.Context, id uuid.UUID) (*wallet.Wallet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.Wallet), args.Error(1)
}

type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) ImportRecords(ctx context.Context, walletID uuid.UUID, batch service.ImportBatch) (*service.ImportResult, error) {
	args := m.Called(ctx, walletID, batch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ImportResult), args.Error(1)
}

func (m *MockTransactionService) GetTransactionsByWalletID(ctx context.Context, walletID uuid.UUID, page, perPage int) ([]*ledger.Transaction, int64, error) {
	args := m.Called(ctx, walletID, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*ledger.Transaction), args.Get(1).(int64), args.Error(2)
}

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) BuildReport(ctx context.Context, walletID uuid.UUID, query service.ReportQuery) (*service.WalletReport, error) {
	args := m.Called(ctx, walletID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.WalletReport), args.Error(1)
}

func (m *MockReportService) ExportReport(ctx context.Context, walletID uuid.UUID, query service.ReportQuery, format export.Format) (*service.ExportedReport, error) {
	args := m.Called(ctx, walletID, query, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExportedReport), args.Error(1)
}

// perform sends a request through a router configured by register
func perform(register func(r *gin.Engine), method, target, body string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	register(router)

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}
