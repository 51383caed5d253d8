package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/pettycash-ledger/internal/domain/shared"
	"github.com/pettycash-ledger/internal/ledger_sync/service"
)

// LedgerEventHandler decodes ledger events from Kafka and hands them to the processing service
type LedgerEventHandler struct {
	processingService service.ProcessingService
	failureRecorder   service.FailureRecorder
	logger            *slog.Logger
}

func NewLedgerEventHandler(
	logger *slog.Logger,
	processingService service.ProcessingService,
	failureRecorder service.FailureRecorder,
) *LedgerEventHandler {
	return &LedgerEventHandler{
		processingService: processingService,
		failureRecorder:   failureRecorder,
		logger:            logger,
	}
}

// HandleMessage returns nil when the offset may be committed
func (h *LedgerEventHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var event shared.LedgerEvent
	if err := json.Unmarshal(value, &event); err != nil {
		h.logger.Error("Failed to unmarshal ledger event", "error", err, "message_key", string(key))

		if recordErr := h.failureRecorder.RecordFailure(ctx, string(key), value, shared.FailureReasonUndecodable, err); recordErr != nil {
			return fmt.Errorf("failed to dead-letter undecodable message: %w", recordErr)
		}
		return nil
	}

	logger := h.logger
	if event.CorrelationID != "" {
		logger = h.logger.With("correlation_id", event.CorrelationID)
	}
	logger.Debug("Received ledger event", "event_id", event.EventID.String(), "wallet_id", event.WalletID.String())

	if err := h.processingService.ProcessEvent(ctx, &event); err != nil {
		return fmt.Errorf("processing ledger event %s failed: %w", event.EventID.String(), err)
	}
	return nil
}
