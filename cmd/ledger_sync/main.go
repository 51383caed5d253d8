package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/pettycash-ledger/internal/config"
	"github.com/pettycash-ledger/internal/data/mongo"
	"github.com/pettycash-ledger/internal/data/postgres"
	"github.com/pettycash-ledger/internal/ledger_sync/components"
	"github.com/pettycash-ledger/internal/ledger_sync/consumer"
	"github.com/pettycash-ledger/internal/ledger_sync/outbox_poller"
	"github.com/pettycash-ledger/internal/ledger_sync/service"
	"github.com/pettycash-ledger/internal/logger"
	"github.com/pettycash-ledger/internal/observability/metrics"
	"github.com/pettycash-ledger/internal/platform/messaging/consumers"
	"github.com/pettycash-ledger/internal/platform/messaging/producers"
	"github.com/pettycash-ledger/internal/platform/persistence"
)

func main() {
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	cfg, err := config.LoadConfig("ledger_sync")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg)
	log.Info("Starting ledger sync",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
	)

	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		os.Exit(1)
	}

	if cfg.Metrics.Enabled {
		metrics.Init(postgresDB.Pool(), log)
	}

	walletRepo := postgres.NewWalletRepository(log, postgresDB)
	outboxRepo := postgres.NewOutboxRepository(log, postgresDB)
	ledgerRepo := mongo.NewTransactionRepository(log, mongoDB.Database())

	if err := ledgerRepo.EnsureIndexes(appCtx); err != nil {
		log.Error("Failed to ensure ledger indexes", "error", err)
		os.Exit(1)
	}

	// nil when no DLQ topic is configured; the failure recorder handles that
	dlqProducer, err := producers.NewDLQProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize DLQ producer", "error", err)
		os.Exit(1)
	}

	processingService := components.CreateProcessingService(
		postgresDB,
		walletRepo,
		outboxRepo,
		ledgerRepo,
		dlqProducer,
		log,
		cfg,
	)

	eventHandler := consumer.NewLedgerEventHandler(
		log,
		processingService,
		components.NewFailureRecorder(dlqProducer, log),
	)

	ledgerPublisher := outbox_poller.NewLedgerPublisher(outboxRepo, ledgerRepo, log)
	poller := outbox_poller.NewPoller(&cfg.Outbox, outboxRepo, ledgerPublisher, log)

	kafkaConsumer := consumers.NewKafkaConsumer(log, &cfg.Kafka)

	opsServer := newOpsServer(cfg, postgresDB, mongoDB)

	errChan := make(chan error, 2)
	var wg sync.WaitGroup

	log.Info("Starting Kafka consumer",
		"topic", cfg.Kafka.LedgerEventTopic,
		"group", cfg.Kafka.ConsumerGroup,
	)
	if err := kafkaConsumer.Subscribe(appCtx, eventHandler.HandleMessage); err != nil {
		log.Error("Failed to subscribe to ledger events", "error", err)
		os.Exit(1)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		poller.Start(appCtx)
	}()

	go func() {
		log.Info("Starting ops HTTP server", "addr", opsServer.Addr)
		if err := opsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("ops server error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	var serviceErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Service error occurred", "error", err)
		serviceErr = err
	}

	cancelAppCtx()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	log.Info("Starting graceful shutdown...")

	wgChan := make(chan struct{})
	go func() {
		wg.Wait()
		<-kafkaConsumer.Done()
		close(wgChan)
	}()

	select {
	case <-wgChan:
		log.Info("Consumer and poller stopped")
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout reached, forcing exit")
	}

	if wp, ok := processingService.(*service.WorkerPoolProcessingService); ok {
		wp.Shutdown()
	}

	var shutdownErr error
	if err := opsServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Error stopping ops server", "error", err)
		shutdownErr = err
	}
	if err := kafkaConsumer.Close(); err != nil {
		log.Error("Error closing Kafka consumer", "error", err)
		shutdownErr = err
	}
	if err := dlqProducer.Close(); err != nil {
		log.Error("Error closing DLQ producer", "error", err)
		shutdownErr = err
	}

	postgresDB.Close()

	if err := mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
		shutdownErr = err
	}

	if serviceErr != nil || shutdownErr != nil {
		log.Error("Ledger sync shutdown completed with errors")
		os.Exit(1)
	}
	log.Info("Ledger sync shutdown completed successfully")
}
