package domain

import "time"

type FlightStatus string

const (
	FlightStatusScheduled FlightStatus = "scheduled"
	FlightStatusBoarding  FlightStatus = "boarding"
	FlightStatusDeparted  FlightStatus = "departed"
	FlightStatusLanded    FlightStatus = "landed"
	FlightStatusCancelled FlightStatus = "cancelled"
)

func (s FlightStatus) Valid() bool {
	switch s {
	case FlightStatusScheduled, FlightStatusBoarding, FlightStatusDeparted, FlightStatusLanded, FlightStatusCancelled:
		return true
	}
	return false
}

type Flight struct {
	ID              int64
	Number          string
	DepartureCity   string
	DestinationCity string
	DepartureTime   time.Time
	ArrivalTime     time.Time
	Gate            string
	Status          FlightStatus
	Capacity        int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
