package producers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	topicReadAttempts = 5
	topicReadBackoff  = 2 * time.Second
)

type topicSpec struct {
	name              string
	partitions        int
	replicationFactor int
}

// config fills unset partition and replication counts with 1
func (s topicSpec) config() kafka.TopicConfig {
	cfg := kafka.TopicConfig{
		Topic:             s.name,
		NumPartitions:     s.partitions,
		ReplicationFactor: s.replicationFactor,
	}
	if cfg.NumPartitions <= 0 {
		cfg.NumPartitions = 1
	}
	if cfg.ReplicationFactor <= 0 {
		cfg.ReplicationFactor = 1
	}
	return cfg
}

// topicAdmin is the subset of *kafka.Conn needed to create topics
type topicAdmin interface {
	ReadPartitions(topics ...string) ([]kafka.Partition, error)
	CreateTopics(topics ...kafka.TopicConfig) error
}

// ensureTopic dials brokers and creates the topic when it cannot be found
func ensureTopic(ctx context.Context, brokers string, spec topicSpec, log *slog.Logger) error {
	var dialer kafka.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", brokers)
	if err != nil {
		return fmt.Errorf("failed to dial kafka: %w", err)
	}
	defer conn.Close()

	return createTopicIfNotExists(ctx, conn, spec, topicReadBackoff, log)
}

func createTopicIfNotExists(ctx context.Context, admin topicAdmin, spec topicSpec, backoff time.Duration, log *slog.Logger) error {
	var (
		partitions []kafka.Partition
		err        error
	)

	for attempt := 1; attempt <= topicReadAttempts; attempt++ {
		partitions, err = admin.ReadPartitions(spec.name)
		if err == nil {
			break
		}
		log.Warn("Failed to read topic partitions, retrying", "topic", spec.name, "attempt", attempt, "error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}

	if len(partitions) > 0 {
		log.Info("Kafka topic already exists", "topic", spec.name, "partitions", len(partitions))
		return nil
	}

	log.Info("Creating Kafka topic", "topic", spec.name, "last_read_error", err)
	if err := admin.CreateTopics(spec.config()); err != nil {
		return fmt.Errorf("failed to create kafka topic %s: %w", spec.name, err)
	}
	log.Info("Created Kafka topic", "topic", spec.name)
	return nil
}
