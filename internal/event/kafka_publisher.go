package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"devconnector-api/internal/domain"
	"devconnector-api/pkg/logger"

	"github.com/segmentio/kafka-go"
)

const (
	DefaultTopic = "profile.events"

	// A request publishes one message; waiting for kafka-go's default 1s
	// batch flush would stall every write.
	batchTimeout = 10 * time.Millisecond
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes profile events to a single topic keyed by user id,
// so every change of one owner lands on the same partition in order.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
}

// NewKafkaPublisher returns a publisher for brokers. With no brokers it returns
// a publisher whose Publish is a no-op.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	if topic == "" {
		topic = DefaultTopic
	}
	if len(brokers) == 0 {
		logger.Log.Info("Kafka brokers not configured, profile events disabled")
		return &KafkaPublisher{topic: topic}
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           batchTimeout,
		RequiredAcks:           kafka.RequireOne,
		WriteTimeout:           5 * time.Second,
		AllowAutoTopicCreation: true,
	}

	logger.Log.Info("Kafka producer initialized", "topic", topic, "brokers", brokers)
	return &KafkaPublisher{writer: writer, topic: topic}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event domain.ProfileEvent) error {
	if p == nil || p.writer == nil {
		return nil
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", event.Type, err)
	}

	msg := kafka.Message{
		Key:   []byte(event.UserID),
		Value: value,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write %s event to %s: %w", event.Type, p.topic, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	if err := p.writer.Close(); err != nil {
		return err
	}
	logger.Log.Info("Closed Kafka producer")
	return nil
}
