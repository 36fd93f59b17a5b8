package observer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"
)

// KafkaChangeSink publishes audit records to a Kafka topic, keyed by task
// ID so all history for one task lands in the same partition.
type KafkaChangeSink struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// Ensure KafkaChangeSink implements the ChangeSink interface
var _ ChangeSink = (*KafkaChangeSink)(nil)

// NewKafkaChangeSink creates a KafkaChangeSink producing to topic.
// If log is nil, a default logger is used.
func NewKafkaChangeSink(client *kgo.Client, topic string, log *slog.Logger) *KafkaChangeSink {
	if log == nil {
		log = slog.Default()
	}

	return &KafkaChangeSink{
		client: client,
		topic:  topic,
		logger: log.With("component", "kafka_change_sink"),
	}
}

// Record implements ChangeSink.
func (s *KafkaChangeSink) Record(ctx context.Context, rec ChangeRecord) error {
	value, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to serialize change record: %w", err)
	}

	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(rec.TaskID),
		Value: value,
	}
	if err := s.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("failed to publish change record: %w", err)
	}

	s.logger.Debug("change record published",
		"task_id", rec.TaskID,
		"action", rec.Action,
		"topic", s.topic)
	return nil
}
