package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/storm-data-reliability/internal/domain"
)

// messageWriter is the subset of *kafkago.Writer the sink needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer publishes neighborhood profiles to a Kafka topic, one message per
// profile keyed by neighborhood id. It implements pipeline.Loader.
type Writer struct {
	writer messageWriter
	topic  string
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the given sink topic. Messages are
// hash-partitioned by key so every snapshot of a neighborhood lands on the
// same partition in order.
func NewWriter(brokers []string, topic string, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, topic: topic, logger: logger}
}

// Load serializes and publishes every profile of the snapshot in a single
// WriteMessages call.
func (w *Writer) Load(ctx context.Context, snap domain.Snapshot) error {
	if len(snap.Profiles) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(snap.Profiles))
	for i := range snap.Profiles {
		msg, err := serializeToMessage(snap.Profiles[i], snap.GeneratedAt)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish profiles to %s: %w", w.topic, err)
	}
	w.logger.Debug("profiles published", "topic", w.topic, "count", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a NeighborhoodProfile into a Kafka message.
func serializeToMessage(profile domain.NeighborhoodProfile, generatedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(profile)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize profile %s: %w", profile.Neighborhood, err)
	}
	return kafkago.Message{
		Key:   []byte(profile.Neighborhood),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "neighborhood", Value: []byte(profile.Neighborhood)},
			{Key: "generated_at", Value: []byte(generatedAt.UTC().Format(time.RFC3339))},
			{Key: "placeholder", Value: []byte(strconv.FormatBool(profile.Placeholder))},
		},
	}, nil
}
