package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rizia-events/rizia-backend/logger"
	"github.com/segmentio/kafka-go"
)

// Handler processes one consumed event.
type Handler interface {
	Handle(ctx context.Context, ev Event) error
}

type HandlerFunc func(ctx context.Context, ev Event) error

func (f HandlerFunc) Handle(ctx context.Context, ev Event) error { return f(ctx, ev) }

// messageReader is the part of *kafka.Reader the consumer uses.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer reads the notifications topic as part of a consumer group.
type Consumer struct {
	reader  messageReader
	handler Handler
}

func NewConsumer(brokers []string, topic, groupID string, h Handler) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			GroupID:  groupID,
			Topic:    topic,
			MinBytes: 1,
			MaxBytes: 10e6,
		}),
		handler: h,
	}
}

// Run consumes until ctx is cancelled. Messages are committed after the
// handler runs, whether or not it succeeded; undecodable messages are skipped.
func (c *Consumer) Run(ctx context.Context) error {
	defer c.reader.Close()

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("fetch message: %w", err)
		}

		var ev Event
		if err := json.Unmarshal(msg.Value, &ev); err != nil {
			logger.Log.Warn("[notification] skipping malformed message", "offset", msg.Offset, "error", err)
		} else if err := c.handler.Handle(ctx, ev); err != nil {
			logger.Log.Error("[notification] handler failed", "type", ev.Type, "record_id", ev.RecordID, "error", err)
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("commit message: %w", err)
		}
	}
}
