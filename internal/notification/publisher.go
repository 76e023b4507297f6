package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rizia-events/rizia-backend/logger"
	"github.com/segmentio/kafka-go"
)

// Publisher emits domain events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// NewPublisher returns a Kafka publisher, or a NopPublisher when no brokers
// are configured.
func NewPublisher(brokers []string, topic string) Publisher {
	if len(brokers) == 0 {
		logger.Log.Info("[notification] no Kafka brokers configured, events will only be logged")
		return NopPublisher{}
	}
	return NewKafkaPublisher(brokers, topic)
}

// ===========================
// Kafka
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
			WriteTimeout:           5 * time.Second,
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, ev Event) error {
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	value, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", ev.Type, err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.RecordID),
		Value: value,
		Time:  ev.OccurredAt,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(ev.Type)},
		},
	})
	if err != nil {
		return fmt.Errorf("publish %s event: %w", ev.Type, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error { return p.writer.Close() }

// ===========================
// Nop
type NopPublisher struct{}

func (NopPublisher) Publish(_ context.Context, ev Event) error {
	logger.Log.Debug("[notification] event", "type", ev.Type, "record_id", ev.RecordID)
	return nil
}

func (NopPublisher) Close() error { return nil }

// PublishAsync sends ev without blocking the caller. Failures are logged.
// The request context is not reused since it ends with the response.
func PublishAsync(p Publisher, ev Event) {
	if p == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := p.Publish(ctx, ev); err != nil {
			logger.Log.Warn("[notification] publish failed", "type", ev.Type, "record_id", ev.RecordID, "error", err)
		}
	}()
}
