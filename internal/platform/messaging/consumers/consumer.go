// Package consumers reads ledger events from Kafka with manual offset commits.
package consumers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/pettycash-ledger/internal/config"
	"github.com/segmentio/kafka-go"
)

const fetchRetryDelay = time.Second

// MessageHandler processes one message. A nil return commits the offset.
type MessageHandler func(ctx context.Context, key []byte, value []byte) error

// Consumer defines the message queue consumer interface
type Consumer interface {
	Subscribe(ctx context.Context, handler MessageHandler) error
	Close() error
}

// Reader is the subset of *kafka.Reader the consumer drives
type Reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaConsumer implements Consumer using a consumer group reader
type KafkaConsumer struct {
	reader     Reader
	logger     *slog.Logger
	retryDelay time.Duration
	done       chan struct{}
}

func NewKafkaConsumer(logger *slog.Logger, cfg *config.KafkaConfig) *KafkaConsumer {
	startOffset := kafka.FirstOffset
	if cfg.StartOffset == kafka.LastOffset {
		startOffset = kafka.LastOffset
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     []string{cfg.Brokers},
		Topic:       cfg.LedgerEventTopic,
		GroupID:     cfg.ConsumerGroup,
		MinBytes:    cfg.MinBytes,
		MaxBytes:    cfg.MaxBytes,
		MaxWait:     cfg.MaxWait,
		StartOffset: startOffset,
	})

	return newKafkaConsumer(logger.With("topic", cfg.LedgerEventTopic, "group_id", cfg.ConsumerGroup), reader)
}

func newKafkaConsumer(logger *slog.Logger, reader Reader) *KafkaConsumer {
	return &KafkaConsumer{
		reader:     reader,
		logger:     logger,
		retryDelay: fetchRetryDelay,
	}
}

// Subscribe starts the fetch loop in the background and returns immediately.
// The loop stops when ctx is cancelled.
func (c *KafkaConsumer) Subscribe(ctx context.Context, handler MessageHandler) error {
	if c.done != nil {
		return errors.New("consumer is already subscribed")
	}
	c.done = make(chan struct{})

	c.logger.Info("Subscribed to Kafka topic")
	go func() {
		defer close(c.done)
		c.loop(ctx, handler)
	}()
	return nil
}

// Done is closed once the fetch loop has exited
func (c *KafkaConsumer) Done() <-chan struct{} {
	return c.done
}

func (c *KafkaConsumer) loop(ctx context.Context, handler MessageHandler) {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("Context cancelled, stopping consumer")
				return
			}
			c.logger.Error("Failed to fetch message from Kafka", "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(c.retryDelay):
			}
			continue
		}

		log := c.logger.With(
			"partition", msg.Partition,
			"offset", msg.Offset,
			"key", string(msg.Key),
		)
		log.Debug("Received message from Kafka")

		// Later offsets must not be committed past a failed message, so the
		// same message is retried until it succeeds or ctx ends.
		if !c.handleWithRetry(ctx, log, handler, msg) {
			return
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			log.Error("Failed to commit message", "error", err)
			continue
		}
		log.Debug("Message committed")
	}
}

func (c *KafkaConsumer) handleWithRetry(ctx context.Context, log *slog.Logger, handler MessageHandler, msg kafka.Message) bool {
	for attempt := 1; ; attempt++ {
		err := handler(ctx, msg.Key, msg.Value)
		if err == nil {
			return true
		}
		log.Error("Failed to process message, retrying", "attempt", attempt, "error", err)
		select {
		case <-ctx.Done():
			return false
		case <-time.After(c.retryDelay):
		}
	}
}

func (c *KafkaConsumer) Close() error {
	if c.reader == nil {
		return nil
	}
	return c.reader.Close()
}
