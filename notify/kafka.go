package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"Gin_postgres_redis_device_rental/config"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is the part of *kafka.Writer the sink uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

func NewKafkaWriter(cfg config.KafkaConfig) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           50 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
}

// KafkaSink publishes each reminder as one JSON message keyed by recipient, so all
// reminders of a user land on the same partition.
type KafkaSink struct {
	w   MessageWriter
	now func() time.Time
}

func NewKafkaSink(w MessageWriter) *KafkaSink {
	return &KafkaSink{w: w, now: time.Now}
}

func (s *KafkaSink) Send(ctx context.Context, to, subject, body string) error {
	value, err := json.Marshal(Message{To: to, Subject: subject, Body: body, SentAt: s.now().UTC()})
	if err != nil {
		return fmt.Errorf("encode reminder: %w", err)
	}
	if err := s.w.WriteMessages(ctx, kafka.Message{Key: []byte(to), Value: value}); err != nil {
		return fmt.Errorf("kafka write: %w", err)
	}
	return nil
}

func (s *KafkaSink) Close() error { return s.w.Close() }
