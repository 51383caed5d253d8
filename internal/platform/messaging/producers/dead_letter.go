package producers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pettycash-ledger/internal/config"
	"github.com/segmentio/kafka-go"
)

// ErrDLQDisabled is returned when publishing through a producer without a writer
var ErrDLQDisabled = errors.New("dead letter queue is disabled")

// DeadLetter is the envelope written to the DLQ topic
type DeadLetter struct {
	OriginalKey   string          `json:"original_key"`
	OriginalValue json.RawMessage `json:"original_value,omitempty"`
	RawValue      string          `json:"raw_value,omitempty"` // Set when the original value is not valid JSON
	Reason        string          `json:"dlq_reason"`
	Timestamp     time.Time       `json:"timestamp"`
}

type DLQProducer struct {
	logger   *slog.Logger
	writer   KafkaWriter
	dlqTopic string
	now      func() time.Time
}

// NewDLQProducer returns a nil producer when cfg.DLQTopic is empty
func NewDLQProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*DLQProducer, error) {
	if cfg.DLQTopic == "" {
		logger.Info("DLQ topic is not configured, dead letters will be dropped")
		return nil, nil
	}

	if err := ensureTopic(ctx, cfg.Brokers, topicSpec{
		name:              cfg.DLQTopic,
		partitions:        cfg.NumPartitions,
		replicationFactor: cfg.ReplicationFactor,
	}, logger); err != nil {
		return nil, fmt.Errorf("failed to ensure DLQ topic %s: %w", cfg.DLQTopic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.DLQTopic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: cfg.MaxWait,
	}

	return newDLQProducer(logger, writer, cfg.DLQTopic), nil
}

func newDLQProducer(logger *slog.Logger, writer KafkaWriter, topic string) *DLQProducer {
	return &DLQProducer{
		logger:   logger.With("topic", topic),
		writer:   writer,
		dlqTopic: topic,
		now:      time.Now,
	}
}

func (p *DLQProducer) PublishToDLQ(ctx context.Context, key string, originalMessageValue []byte, reason string) error {
	if p == nil || p.writer == nil {
		return ErrDLQDisabled
	}

	letter := DeadLetter{
		OriginalKey: key,
		Reason:      reason,
		Timestamp:   p.now().UTC(),
	}
	if json.Valid(originalMessageValue) {
		letter.OriginalValue = originalMessageValue
	} else {
		letter.RawValue = string(originalMessageValue)
	}

	value, err := json.Marshal(letter)
	if err != nil {
		return fmt.Errorf("failed to marshal dead letter: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "dlq-reason", Value: []byte(reason)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish dead letter", "key", key, "reason", reason, "error", err)
		return fmt.Errorf("failed to publish dead letter to %s: %w", p.dlqTopic, err)
	}

	p.logger.Info("Published dead letter", "key", key, "reason", reason)
	return nil
}

func (p *DLQProducer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	p.logger.Info("Closing DLQ producer")
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close DLQ writer for topic %s: %w", p.dlqTopic, err)
	}
	return nil
}
