package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/storm-data-shared/retry"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/near-space-etl/internal/config"
	"github.com/couchcryptid/near-space-etl/internal/domain"
)

// RecordType is carried in the record_type header of every message.
const RecordType = "near_space_monthly"

// Publish retry schedule.
const (
	publishAttempts   = 4
	publishBackoff    = 500 * time.Millisecond
	publishMaxBackoff = 5 * time.Second
)

// messageWriter is the subset of *kafkago.Writer used here.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer publishes merged monthly records to a Kafka topic, one JSON message
// per month keyed by month. It implements pipeline.MergedLoader.
type Writer struct {
	writer     messageWriter
	topic      string
	logger     *slog.Logger
	attempts   int
	backoff    time.Duration
	maxBackoff time.Duration
}

// NewWriter creates a Kafka producer for the configured topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{
		writer:     w,
		topic:      cfg.KafkaTopic,
		logger:     logger,
		attempts:   publishAttempts,
		backoff:    publishBackoff,
		maxBackoff: publishMaxBackoff,
	}
}

// Name identifies the sink.
func (w *Writer) Name() string { return "kafka" }

// LoadMerged publishes every month in a single WriteMessages call, retrying
// the whole batch with exponential backoff.
func (w *Writer) LoadMerged(ctx context.Context, months []domain.MergedMonth) error {
	if len(months) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(months))
	for i := range months {
		msg, err := serializeToMessage(months[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.publish(ctx, msgs); err != nil {
		return fmt.Errorf("publish to %s: %w", w.topic, err)
	}
	w.logger.Debug("merged months published", "topic", w.topic, "messages", len(msgs))
	return nil
}

func (w *Writer) publish(ctx context.Context, msgs []kafkago.Message) error {
	backoff := w.backoff
	var err error
	for attempt := 1; ; attempt++ {
		if err = w.writer.WriteMessages(ctx, msgs...); err == nil {
			return nil
		}
		if attempt >= w.attempts || ctx.Err() != nil {
			return err
		}
		w.logger.Warn("kafka publish failed, retrying", "topic", w.topic, "attempt", attempt, "backoff", backoff, "error", err)
		if !retry.SleepWithContext(ctx, backoff) {
			return err
		}
		backoff = retry.NextBackoff(backoff, w.maxBackoff)
	}
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a MergedMonth into a Kafka message.
func serializeToMessage(m domain.MergedMonth) (kafkago.Message, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize merged month %s: %w", m.Month, err)
	}
	month := m.Month.String()
	return kafkago.Message{
		Key:   []byte(month),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "record_type", Value: []byte(RecordType)},
			{Key: "month", Value: []byte(month)},
		},
	}, nil
}
