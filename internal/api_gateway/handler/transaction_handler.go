package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pettycash-ledger/internal/api_gateway/middleware"
	"github.com/pettycash-ledger/internal/api_gateway/service"
	"github.com/pettycash-ledger/internal/domain/wallet"
)

// TransactionHandler handles HTTP requests for ledger transactions
type TransactionHandler struct {
	transactionService service.TransactionService
	logger             *slog.Logger
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(logger *slog.Logger, transactionService service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		logger:             logger,
	}
}

// Import queues upstream records for synchronization and answers 202 with
// the per-record outcome. A batch in which every record was rejected gets 422.
func (h *TransactionHandler) Import(c *gin.Context) {
	walletID, ok := parseWalletID(c, h.logger)
	if !ok {
		return
	}

	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid import body", "wallet_id", walletID.String(), "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if (req.BalanceAfter == nil) != (req.BalanceAsOf == nil) {
		RespondBadRequest(c, "balance_after and balance_as_of must be sent together")
		return
	}

	result, err := h.transactionService.ImportRecords(c.Request.Context(), walletID, service.ImportBatch{
		Records:       req.Records,
		BalanceAfter:  req.BalanceAfter,
		BalanceAsOf:   req.BalanceAsOf,
		CorrelationID: middleware.GetCorrelationID(c),
	})
	if err != nil {
		if errors.Is(err, wallet.ErrWalletNotFound{}) {
			RespondNotFound(c, "Wallet not found")
			return
		}
		h.logger.Error("Failed to import records", "wallet_id", walletID.String(), "error", err)
		RespondServiceUnavailable(c, "Records could not be queued, retry the import")
		return
	}

	if result.Accepted == 0 {
		RespondWithData(c, http.StatusUnprocessableEntity, result)
		return
	}
	RespondAccepted(c, result)
}

// List returns the wallet's synchronized transactions, newest first
func (h *TransactionHandler) List(c *gin.Context) {
	walletID, ok := parseWalletID(c, h.logger)
	if !ok {
		return
	}

	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		h.logger.Warn("Invalid pagination parameters", "error", err)
		RespondBadRequest(c, "Invalid pagination parameters")
		return
	}

	txns, total, err := h.transactionService.GetTransactionsByWalletID(
		c.Request.Context(),
		walletID,
		pagination.Page,
		pagination.PerPage,
	)
	if err != nil {
		h.logger.Error("Failed to list transactions", "wallet_id", walletID.String(), "error", err)
		RespondInternalError(c)
		return
	}

	transactions := make([]TransactionResponse, 0, len(txns))
	for _, txn := range txns {
		transactions = append(transactions, mapTransactionToResponse(txn))
	}

	RespondWithPaginatedData(c, http.StatusOK, transactions, pagination.Page, pagination.PerPage, int(total))
}
