package handler

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pettycash-ledger/internal/api_gateway/service"
	"github.com/pettycash-ledger/internal/domain/reconciliation"
	"github.com/pettycash-ledger/internal/domain/wallet"
	"github.com/pettycash-ledger/internal/export"
)

const formatJSON = "json"

// ReportHandler serves reconciliation reports as JSON or downloadable statements
type ReportHandler struct {
	reportService service.ReportService
	logger        *slog.Logger
}

func NewReportHandler(logger *slog.Logger, reportService service.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		logger:        logger,
	}
}

// Get builds the report for the window and filters in the query string
func (h *ReportHandler) Get(c *gin.Context) {
	walletID, ok := parseWalletID(c, h.logger)
	if !ok {
		return
	}

	var params ReportParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid report parameters: "+err.Error())
		return
	}

	query := service.ReportQuery{
		From:        params.From,
		To:          params.To,
		Status:      params.Status,
		Category:    params.Category,
		Search:      params.Search,
		NewestFirst: params.Order == "desc",
	}

	if strings.EqualFold(params.Format, formatJSON) {
		result, err := h.reportService.BuildReport(c.Request.Context(), walletID, query)
		if err != nil {
			h.respondReportError(c, walletID, err)
			return
		}
		RespondOK(c, mapReportToResponse(result.Wallet, result.Report, query.NewestFirst))
		return
	}

	format, err := export.ParseFormat(params.Format)
	if err != nil {
		RespondBadRequest(c, "format must be one of json, csv, xlsx, pdf")
		return
	}

	exported, err := h.reportService.ExportReport(c.Request.Context(), walletID, query, format)
	if err != nil {
		h.respondReportError(c, walletID, err)
		return
	}
	RespondFile(c, exported.Filename, exported.ContentType, exported.Data)
}

func (h *ReportHandler) respondReportError(c *gin.Context, walletID uuid.UUID, err error) {
	var invalid service.InvalidQueryError
	switch {
	case errors.As(err, &invalid):
		RespondBadRequest(c, invalid.Error())
	case errors.Is(err, reconciliation.ErrInvalidWindow),
		errors.Is(err, reconciliation.ErrWindowInFuture):
		RespondBadRequest(c, err.Error())
	case errors.Is(err, wallet.ErrWalletNotFound{}):
		RespondNotFound(c, "Wallet not found")
	case errors.Is(err, service.ErrHistoryTooLarge):
		RespondUnprocessable(c, "HISTORY_TOO_LARGE", "Wallet history is too large for a single report, narrow the window")
	case errors.Is(err, reconciliation.ErrInconsistentReplay):
		h.logger.Error("Ledger history does not reconcile", "wallet_id", walletID.String(), "error", err)
		RespondConflict(c, "Ledger history does not reconcile with the wallet balance")
	default:
		h.logger.Error("Failed to build report", "wallet_id", walletID.String(), "error", err)
		RespondInternalError(c)
	}
}
