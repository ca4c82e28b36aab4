package domain

import "time"

type PassStatus string

const (
	PassStatusCheckedIn PassStatus = "checked_in"
	PassStatusBoarded   PassStatus = "boarded"
	PassStatusCancelled PassStatus = "cancelled"
)

type BoardingPass struct {
	ID           int64
	PassengerID  int64
	FlightID     int64
	Number       string
	SeatNumber   string
	Gate         string
	BoardingTime *time.Time
	CheckInTime  time.Time
	AgentID      int64
	Status       PassStatus
}

// Active reports whether the pass still occupies its seat.
func (p BoardingPass) Active() bool {
	return p.Status != PassStatusCancelled
}
