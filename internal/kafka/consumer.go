package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aerodesk/aircheckin/internal/logger"
	"github.com/segmentio/kafka-go"
)

// EventHandler processes one decoded check-in event.
type EventHandler func(ctx context.Context, event CheckinEvent) error

type Consumer struct {
	reader *kafka.Reader
	log    logger.Logger
}

func NewConsumer(brokers []string, groupID, topic string, log logger.Logger) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			Topic:             topic,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		}),
		log: log,
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// Consume decodes each message into a CheckinEvent and hands it to the
// handler. Malformed messages are skipped; a handler error stops the loop.
func (c *Consumer) Consume(ctx context.Context, handler EventHandler) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			return err
		}

		event, err := decodeEvent(msg.Value)
		if err != nil {
			c.log.Warn("skip malformed message", "topic", msg.Topic, "offset", msg.Offset, "error", err)
			continue
		}

		if err := handler(ctx, event); err != nil {
			return err
		}
	}
}

func decodeEvent(value []byte) (CheckinEvent, error) {
	var event CheckinEvent
	if err := json.Unmarshal(value, &event); err != nil {
		return CheckinEvent{}, fmt.Errorf("decode check-in event: %w", err)
	}
	return event, nil
}
