package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// Config describes the brokers and topic a producer writes to.
type Config struct {
	Brokers []string
	Topic   string
	// Async makes writes return before broker acknowledgement.
	Async bool
}

// Record is one keyed JSON message.
type Record struct {
	Key   string
	Value any
}

// Producer writes JSON records to a single topic.
type Producer struct {
	writer *kafka.Writer
	topic  string
	logger *slog.Logger
}

// NewProducer builds a producer. It does not dial until the first write.
func NewProducer(cfg Config, logger *slog.Logger) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka: at least one broker required")
	}
	if cfg.Topic == "" {
		return nil, errors.New("kafka: topic required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           50 * time.Millisecond,
		Async:                  cfg.Async,
		AllowAutoTopicCreation: true,
	}
	if cfg.Async {
		w.Completion = func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Error("kafka async write failed", slog.String("topic", cfg.Topic), slog.Int("messages", len(messages)), slog.Any("error", err))
			}
		}
	}
	logger.Info("kafka producer initialised", slog.String("topic", cfg.Topic), slog.Any("brokers", cfg.Brokers))
	return &Producer{writer: w, topic: cfg.Topic, logger: logger}, nil
}

// Publish encodes and writes records. Records sharing a key keep their order.
func (p *Producer) Publish(ctx context.Context, records ...Record) error {
	if len(records) == 0 {
		return nil
	}
	msgs, err := Encode(records...)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("kafka: write %s: %w", p.topic, err)
	}
	return nil
}

// Close flushes pending writes.
func (p *Producer) Close() error {
	p.logger.Info("kafka producer closing", slog.String("topic", p.topic))
	return p.writer.Close()
}

// Encode turns records into kafka messages.
func Encode(records ...Record) ([]kafka.Message, error) {
	msgs := make([]kafka.Message, 0, len(records))
	for _, rec := range records {
		payload, err := json.Marshal(rec.Value)
		if err != nil {
			return nil, fmt.Errorf("kafka: encode %s: %w", rec.Key, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:     []byte(rec.Key),
			Value:   payload,
			Headers: []kafka.Header{{Key: "content-type", Value: []byte("application/json")}},
		})
	}
	return msgs, nil
}
