package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pettycash-ledger/internal/api_gateway/service"
	"github.com/pettycash-ledger/internal/domain/ledger"
	"github.com/pettycash-ledger/internal/domain/reconciliation"
	"github.com/pettycash-ledger/internal/domain/shared"
	"github.com/pettycash-ledger/internal/domain/wallet"
	"github.com/pettycash-ledger/internal/export"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func reportRoutes(svc *MockReportService) func(r *gin.Engine) {
	h := NewReportHandler(slog.Default(), svc)
	return func(r *gin.Engine) { r.GET("/wallets/:id/report", h.Get) }
}

func sampleWalletReport(walletID uuid.UUID) *service.WalletReport {
	at := func(d int) time.Time { return time.Date(2024, time.March, d, 9, 0, 0, 0, time.UTC) }
	history := []ledger.Transaction{
		{ID: "T1", WalletID: walletID, CreatedAt: at(1), Direction: shared.DirectionCredit, Amount: 500, Status: shared.TransactionStatusApproved, Category: shared.CategoryFunding},
		{ID: "T2", WalletID: walletID, CreatedAt: at(2), Direction: shared.DirectionDebit, Amount: 200, Status: shared.TransactionStatusApproved, Category: shared.CategoryMeals},
	}
	report, err := reconciliation.Build(reconciliation.Input{
		History:        history,
		CurrentBalance: 300,
		Now:            at(5),
	})
	if err != nil {
		panic(err)
	}
	return &service.WalletReport{
		Wallet: &wallet.Wallet{ID: walletID, Name: "Desk", Currency: "KES", Balance: 300},
		Report: report,
	}
}

func TestReportHandler_Get(t *testing.T) {
	walletID := uuid.New()
	target := "/wallets/" + walletID.String() + "/report"

	t.Run("JSONNewestFirst", func(t *testing.T) {
		svc := new(MockReportService)
		svc.On("BuildReport", mock.Anything, walletID, service.ReportQuery{
			From:        "2024-03-01",
			Status:      "approved",
			Search:      "T",
			NewestFirst: true,
		}).Return(sampleWalletReport(walletID), nil).Once()

		rr := perform(reportRoutes(svc), http.MethodGet, target+"?from=2024-03-01&status=approved&q=T&order=desc", "")

		require.Equal(t, http.StatusOK, rr.Code)
		data := decodeResponse(t, rr).Data.(map[string]any)
		assert.Equal(t, float64(0), data["opening_balance"])
		assert.Equal(t, float64(300), data["closing_balance"])
		assert.Equal(t, true, data["reconciled"])
		rows := data["rows"].([]any)
		require.Len(t, rows, 2)
		assert.Equal(t, "T2", rows[0].(map[string]any)["id"])
		assert.Equal(t, float64(-200), rows[0].(map[string]any)["signed_amount"])
		assert.Len(t, data["by_category"], 2)
		svc.AssertExpectations(t)
	})

	t.Run("CSVDownload", func(t *testing.T) {
		svc := new(MockReportService)
		svc.On("ExportReport", mock.Anything, walletID, service.ReportQuery{}, export.FormatCSV).Return(&service.ExportedReport{
			Filename:    "statement.csv",
			ContentType: export.ContentTypeCSV,
			Data:        []byte("Date,ID\n"),
		}, nil).Once()

		rr := perform(reportRoutes(svc), http.MethodGet, target+"?format=CSV", "")

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, export.ContentTypeCSV, rr.Header().Get("Content-Type"))
		assert.Contains(t, rr.Header().Get("Content-Disposition"), `filename="statement.csv"`)
		assert.Equal(t, "Date,ID\n", rr.Body.String())
	})

	t.Run("UnknownFormat", func(t *testing.T) {
		svc := new(MockReportService)
		rr := perform(reportRoutes(svc), http.MethodGet, target+"?format=docx", "")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		svc.AssertNotCalled(t, "ExportReport", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("InvalidOrder", func(t *testing.T) {
		rr := perform(reportRoutes(new(MockReportService)), http.MethodGet, target+"?order=sideways", "")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	errorCases := []struct {
		name   string
		err    error
		status int
	}{
		{name: "InvalidQuery", err: service.InvalidQueryError{Param: "from", Reason: "bad"}, status: http.StatusBadRequest},
		{name: "InvalidWindow", err: reconciliation.ErrInvalidWindow, status: http.StatusBadRequest},
		{name: "WindowInFuture", err: reconciliation.ErrWindowInFuture, status: http.StatusBadRequest},
		{name: "WalletNotFound", err: wallet.ErrWalletNotFound{WalletID: walletID}, status: http.StatusNotFound},
		{name: "HistoryTooLarge", err: service.ErrHistoryTooLarge, status: http.StatusUnprocessableEntity},
		{name: "Inconsistent", err: reconciliation.ErrInconsistentReplay, status: http.StatusConflict},
		{name: "Unexpected", err: errors.New("mongo"), status: http.StatusInternalServerError},
	}
	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := new(MockReportService)
			svc.On("BuildReport", mock.Anything, walletID, mock.Anything).Return(nil, tc.err).Once()

			rr := perform(reportRoutes(svc), http.MethodGet, target, "")
			assert.Equal(t, tc.status, rr.Code)
		})
	}
}
