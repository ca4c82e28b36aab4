package domain

// Passenger belongs to exactly one flight. SeatNumber is the seat recorded at
// creation time; the seat on the boarding pass is the authoritative one.
type Passenger struct {
	ID             int64
	FlightID       int64
	FirstName      string
	LastName       string
	PassportNumber string
	SeatNumber     string
}

func (p Passenger) FullName() string {
	return p.FirstName + " " + p.LastName
}
