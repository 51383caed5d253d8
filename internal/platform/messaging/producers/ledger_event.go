package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/pettycash-ledger/internal/config"
	"github.com/segmentio/kafka-go"
)

// LedgerEventProducer publishes upstream ledger records for the sync worker.
// Messages are keyed by wallet ID and hashed to partitions, so every record of
// a wallet is consumed in publication order.
type LedgerEventProducer struct {
	logger *slog.Logger
	writer KafkaWriter
	topic  string
}

// NewLedgerEventProducer ensures the ledger event topic exists and opens a synchronous writer
func NewLedgerEventProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*LedgerEventProducer, error) {
	if cfg.LedgerEventTopic == "" {
		return nil, fmt.Errorf("kafka ledger event topic is not configured")
	}

	if err := ensureTopic(ctx, cfg.Brokers, topicSpec{
		name:              cfg.LedgerEventTopic,
		partitions:        cfg.NumPartitions,
		replicationFactor: cfg.ReplicationFactor,
	}, logger); err != nil {
		return nil, fmt.Errorf("failed to ensure ledger event topic %s: %w", cfg.LedgerEventTopic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.LedgerEventTopic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: cfg.MaxWait,
	}

	return newLedgerEventProducer(logger, writer, cfg.LedgerEventTopic), nil
}

func newLedgerEventProducer(logger *slog.Logger, writer KafkaWriter, topic string) *LedgerEventProducer {
	return &LedgerEventProducer{
		logger: logger.With("topic", topic),
		writer: writer,
		topic:  topic,
	}
}

// Publish JSON encodes value and writes it under key. It blocks until the broker acknowledged.
func (p *LedgerEventProducer) Publish(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal ledger event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: payload,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish ledger event", "key", key, "error", err)
		return fmt.Errorf("failed to publish ledger event to %s: %w", p.topic, err)
	}

	p.logger.Debug("Published ledger event", "key", key)
	return nil
}

func (p *LedgerEventProducer) Close() error {
	p.logger.Info("Closing ledger event producer")
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close ledger event writer for topic %s: %w", p.topic, err)
	}
	return nil
}
