package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pettycash-ledger/internal/api_gateway"
	"github.com/pettycash-ledger/internal/api_gateway/service"
	"github.com/pettycash-ledger/internal/config"
	"github.com/pettycash-ledger/internal/data/mongo"
	"github.com/pettycash-ledger/internal/data/postgres"
	"github.com/pettycash-ledger/internal/logger"
	"github.com/pettycash-ledger/internal/observability/metrics"
	"github.com/pettycash-ledger/internal/platform/messaging/producers"
	"github.com/pettycash-ledger/internal/platform/persistence"
)

func main() {
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	cfg, err := config.LoadConfig("api_gateway")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg)

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

	// Upstream records are published for the ledger sync worker
	kafkaProducer, err := producers.NewLedgerEventProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize ledger event producer", "error", err)
		os.Exit(1)
	}

	walletRepo := postgres.NewWalletRepository(log, postgresDB)
	ledgerRepo := mongo.NewTransactionRepository(log, mongoDB.Database())

	services := api_gateway.Services{
		Wallet:      service.NewWalletService(log, walletRepo),
		Transaction: service.NewTransactionService(log, walletRepo, ledgerRepo, kafkaProducer),
		Report:      service.NewReportService(log, walletRepo, ledgerRepo, cfg.Report),
	}

	server := api_gateway.NewServer(log, cfg, services, map[string]api_gateway.Pinger{
		"postgres": postgresDB,
		"mongodb":  mongoDB,
	})

	errChan := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	cancelAppCtx()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	log.Info("Starting graceful shutdown...")

	// Stop accepting requests before closing the stores they use
	var shutdownErr error
	if err := server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
		shutdownErr = err
	}

	if err := kafkaProducer.Close(); err != nil {
		log.Error("Error closing Kafka producer", "error", err)
		shutdownErr = err
	}

	postgresDB.Close()

	if err := mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
		shutdownErr = err
	}

	if serverErr != nil || shutdownErr != nil {
		log.Error("API gateway shutdown completed with errors")
		os.Exit(1)
	}
	log.Info("API gateway shutdown completed successfully")
}
