package notify

import (
	"context"

	"github.com/aerodesk/aircheckin/internal/kafka"
	"github.com/aerodesk/aircheckin/internal/logger"
)

// Sender delivers check-in notifications to the departure boards and printer
// queues. The transport is a stub; consumed events are logged.
type Sender struct {
	log logger.Logger
}

func NewSender(log logger.Logger) *Sender {
	return &Sender{log: log}
}

func (s *Sender) Send(ctx context.Context, event kafka.CheckinEvent) error {
	s.log.Info("check-in notification",
		"type", event.Type,
		"pass", event.PassNumber,
		"flight", event.FlightNo,
		"seat", event.SeatNumber,
		"passenger", event.Passenger,
		"gate", event.Gate,
	)
	return nil
}
