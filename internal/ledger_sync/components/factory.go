package components

import (
	"log/slog"

	"github.com/pettycash-ledger/internal/config"
	"github.com/pettycash-ledger/internal/domain/ledger"
	"github.com/pettycash-ledger/internal/domain/outbox"
	"github.com/pettycash-ledger/internal/domain/wallet"
	"github.com/pettycash-ledger/internal/ledger_sync/service"
	"github.com/pettycash-ledger/internal/platform/messaging/producers"
)

// CreateProcessingService wires the sync pipeline and wraps it in a worker pool.
// The bare service is returned when the pool cannot be created.
func CreateProcessingService(
	db service.TxRunner,
	walletRepo wallet.Repository,
	outboxRepo outbox.Repository,
	ledgerRepo ledger.Repository,
	dlq producers.DeadLetterPublisher,
	logger *slog.Logger,
	cfg *config.Config,
) service.ProcessingService {
	baseService := service.NewProcessingService(
		db,
		NewEventValidator(ledgerRepo, outboxRepo, logger),
		NewWalletManager(walletRepo, logger),
		NewOutboxManager(outboxRepo, logger),
		NewFailureRecorder(dlq, logger),
		logger,
	)

	workerPoolService, err := service.NewWorkerPoolProcessingService(
		baseService,
		service.WorkerPoolConfig{Size: cfg.WorkerPool.Size},
		logger.With("component", "worker_pool"),
	)
	if err != nil {
		logger.Error("Failed to create worker pool service, falling back to base service", "error", err)
		return baseService
	}

	logger.Info("Created worker pool processing service", "pool_size", cfg.WorkerPool.Size)
	return workerPoolService
}
