package components

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pettycash-ledger/internal/domain/shared"
	"github.com/pettycash-ledger/internal/ledger_sync/service"
	"github.com/pettycash-ledger/internal/observability/metrics"
	"github.com/pettycash-ledger/internal/platform/messaging/producers"
)

type FailureRecorderImpl struct {
	dlq    producers.DeadLetterPublisher
	logger *slog.Logger
}

// NewFailureRecorder builds a recorder. dlq may be nil, in which case
// failures are only logged and counted.
func NewFailureRecorder(dlq producers.DeadLetterPublisher, logger *slog.Logger) service.FailureRecorder {
	return &FailureRecorderImpl{
		dlq:    dlq,
		logger: logger,
	}
}

// RecordFailure counts the failure and forwards the payload to the dead letter queue
func (r *FailureRecorderImpl) RecordFailure(ctx context.Context, key string, payload []byte, reason shared.FailureReason, cause error) error {
	metrics.IncDeadLetter(string(reason))

	detail := string(reason)
	if cause != nil {
		detail = fmt.Sprintf("%s: %v", reason, cause)
	}

	if r.dlq == nil {
		r.logger.Warn("Dropping unprocessable ledger event, no dead letter queue configured", "key", key, "reason", detail)
		return nil
	}

	if err := r.dlq.PublishToDLQ(ctx, key, payload, detail); err != nil {
		if errors.Is(err, producers.ErrDLQDisabled) {
			r.logger.Warn("Dropping unprocessable ledger event, dead letter queue disabled", "key", key, "reason", detail)
			return nil
		}
		return err
	}
	r.logger.Info("Ledger event sent to dead letter queue", "key", key, "reason", detail)
	return nil
}
