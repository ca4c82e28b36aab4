package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// CheckinEvent is published on every boarding-pass issue and cancellation.
type CheckinEvent struct {
	Type        string    `json:"type"`
	PassNumber  string    `json:"pass_number"`
	FlightID    int64     `json:"flight_id"`
	FlightNo    string    `json:"flight_number"`
	SeatNumber  string    `json:"seat_number"`
	Passenger   string    `json:"passenger"`
	Gate        string    `json:"gate"`
	AgentID     int64     `json:"agent_id"`
	Status      string    `json:"status"`
	CheckInTime time.Time `json:"check_in_time"`
}

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}
	return &Producer{writer: writer}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	})
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
