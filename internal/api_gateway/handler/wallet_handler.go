package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pettycash-ledger/internal/api_gateway/service"
	"github.com/pettycash-ledger/internal/domain/wallet"
)

// WalletHandler handles HTTP requests for wallet operations
type WalletHandler struct {
	walletService service.WalletService
	logger        *slog.Logger
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(logger *slog.Logger, walletService service.WalletService) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
		logger:        logger,
	}
}

// Create registers a wallet and its opening balance snapshot
func (h *WalletHandler) Create(c *gin.Context) {
	var req CreateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	// binding already checked the format
	organizationID := uuid.MustParse(req.OrganizationID)

	var asOf time.Time
	if req.BalanceAsOf != nil {
		asOf = *req.BalanceAsOf
	}

	w, err := h.walletService.CreateWallet(c.Request.Context(), service.CreateWalletInput{
		OrganizationID: organizationID,
		Name:           req.Name,
		Currency:       req.Currency,
		Balance:        req.Balance,
		BalanceAsOf:    asOf,
	})
	if err != nil {
		switch {
		case errors.Is(err, wallet.ErrEmptyName),
			errors.Is(err, wallet.ErrInvalidCurrencyFormat),
			errors.Is(err, wallet.ErrInvalidBalance):
			RespondBadRequest(c, err.Error())
		default:
			h.logger.Error("Failed to create wallet", "error", err)
			RespondInternalError(c)
		}
		return
	}

	RespondCreated(c, mapWalletToResponse(w))
}

// GetByID returns a wallet with its latest balance snapshot
func (h *WalletHandler) GetByID(c *gin.Context) {
	id, ok := parseWalletID(c, h.logger)
	if !ok {
		return
	}

	w, err := h.walletService.GetWalletByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, wallet.ErrWalletNotFound{}) {
			RespondNotFound(c, "Wallet not found")
			return
		}
		h.logger.Error("Failed to get wallet", "wallet_id", id.String(), "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapWalletToResponse(w))
}

// parseWalletID reads the :id path parameter and answers 400 when it is not a UUID
func parseWalletID(c *gin.Context, logger *slog.Logger) (uuid.UUID, bool) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		logger.Warn("Invalid wallet ID", "wallet_id", idParam, "error", err)
		RespondBadRequest(c, "Invalid wallet ID")
		return uuid.Nil, false
	}
	return id, true
}
