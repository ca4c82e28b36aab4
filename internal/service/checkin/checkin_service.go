package checkin

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/aerodesk/aircheckin/internal/domain"
	"github.com/aerodesk/aircheckin/internal/kafka"
	"github.com/aerodesk/aircheckin/internal/logger"
	"github.com/aerodesk/aircheckin/internal/metrics"
	"github.com/aerodesk/aircheckin/internal/repository"
	"github.com/aerodesk/aircheckin/internal/seatmap"
)

// Pass numbers are random-suffixed, so collisions with existing passes are
// possible; the issue loop retries with a fresh number this many times before
// giving up.
const maxNumberAttempts = 5

type CheckInUseCase interface {
	CheckIn(ctx context.Context, input CheckInInput) (*domain.BoardingPass, error)
	RegisterFromSearch(ctx context.Context, input RegisterInput) (*RegisterResult, error)
	Cancel(ctx context.Context, passID int64) (*CancelResult, error)
	FreeSeats(ctx context.Context, flightID int64) ([]string, error)
	SearchPassengers(ctx context.Context, query string) ([]PassengerSummary, error)
	Dashboard(ctx context.Context, agent *domain.CheckInAgent, day time.Time) (*DashboardData, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type CheckInService struct {
	flights            repository.FlightRepository
	passengers         repository.PassengerRepository
	passes             repository.BoardingPassRepository
	producer           Producer
	log                logger.Logger
	metrics            *metrics.Metrics
	checkinTopic       string
	notificationsTopic string
	recentLimit        int
	now                func() time.Time
	randInt            func(n int) int
}

// CheckInInput registers an existing passenger when PassengerID is set,
// otherwise creates a new one from the name and passport fields. AgentID is
// the issuing agent resolved by the caller for this request.
type CheckInInput struct {
	FlightID       int64
	AgentID        int64
	PassengerID    int64
	FirstName      string
	LastName       string
	PassportNumber string
	Seat           string
}

type RegisterInput struct {
	FlightID    int64
	AgentID     int64
	PassengerID int64
	Seat        string // defaults to the passenger's recorded seat
}

type RegisterResult struct {
	Pass              *domain.BoardingPass
	AlreadyRegistered bool
}

type CancelResult struct {
	Pass          *domain.BoardingPass
	PassengerName string
}

type PassengerSummary struct {
	Passenger  domain.Passenger
	Passes     []domain.BoardingPass
	Registered bool
}

type DashboardData struct {
	ActiveFlights  []domain.Flight
	RecentCheckins []domain.BoardingPass
}

type CheckInServiceOption func(*CheckInService)

func WithNotificationsTopic(topic string) CheckInServiceOption {
	return func(s *CheckInService) {
		s.notificationsTopic = topic
	}
}

func WithMetrics(m *metrics.Metrics) CheckInServiceOption {
	return func(s *CheckInService) {
		s.metrics = m
	}
}

// WithClock pins the service clock, mostly for tests.
func WithClock(now func() time.Time) CheckInServiceOption {
	return func(s *CheckInService) {
		s.now = now
	}
}

// WithRand replaces the pass-number randomness, mostly for tests.
func WithRand(randInt func(n int) int) CheckInServiceOption {
	return func(s *CheckInService) {
		s.randInt = randInt
	}
}

func WithRecentLimit(limit int) CheckInServiceOption {
	return func(s *CheckInService) {
		s.recentLimit = limit
	}
}

func NewCheckInService(
	flights repository.FlightRepository,
	passengers repository.PassengerRepository,
	passes repository.BoardingPassRepository,
	producer Producer,
	log logger.Logger,
	checkinTopic string,
	opts ...CheckInServiceOption,
) *CheckInService {
	service := &CheckInService{
		flights:      flights,
		passengers:   passengers,
		passes:       passes,
		producer:     producer,
		log:          log,
		checkinTopic: checkinTopic,
		recentLimit:  5,
		now:          time.Now,
		randInt:      rand.Intn,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *CheckInService) CheckIn(ctx context.Context, input CheckInInput) (*domain.BoardingPass, error) {
	flight, err := s.flights.GetByID(ctx, input.FlightID)
	if err != nil {
		return nil, err
	}
	if input.Seat == "" {
		return nil, fmt.Errorf("%w: seat", domain.ErrValidation)
	}

	var passenger *domain.Passenger
	var newPassenger *domain.Passenger
	if input.PassengerID > 0 {
		passenger, err = s.passengers.GetByID(ctx, input.PassengerID)
		if err != nil {
			return nil, err
		}
	} else {
		if err := validateNewPassenger(input); err != nil {
			return nil, err
		}
		newPassenger = &domain.Passenger{
			FlightID:       flight.ID,
			FirstName:      input.FirstName,
			LastName:       input.LastName,
			PassportNumber: input.PassportNumber,
			SeatNumber:     input.Seat,
		}
		passenger = newPassenger
	}

	taken, err := s.passes.SeatTaken(ctx, flight.ID, input.Seat)
	if err != nil {
		return nil, err
	}
	if taken {
		s.countSeatConflict()
		return nil, fmt.Errorf("%w: %s", domain.ErrSeatTaken, input.Seat)
	}

	pass, err := s.issue(ctx, flight, passenger, newPassenger, input.Seat, input.AgentID)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.CheckinsTotal.Inc()
	}
	s.publish(ctx, "checked_in", flight, pass, passenger.FullName())
	return pass, nil
}

// RegisterFromSearch is the lookup-page entry point: get-or-create keyed on
// (passenger, flight). An active pass is left untouched and reported as
// already registered; a cancelled pass stays for audit but does not block a
// new one.
func (s *CheckInService) RegisterFromSearch(ctx context.Context, input RegisterInput) (*RegisterResult, error) {
	flight, err := s.flights.GetByID(ctx, input.FlightID)
	if err != nil {
		return nil, err
	}
	passenger, err := s.passengers.GetByID(ctx, input.PassengerID)
	if err != nil {
		return nil, err
	}

	existing, err := s.passes.GetByPassengerAndFlight(ctx, passenger.ID, flight.ID)
	if err == nil && existing.Active() {
		return &RegisterResult{Pass: existing, AlreadyRegistered: true}, nil
	}
	if err != nil && !errors.Is(err, domain.ErrPassNotFound) {
		return nil, err
	}

	seat := input.Seat
	if seat == "" {
		seat = passenger.SeatNumber
	}
	if seat == "" {
		return nil, fmt.Errorf("%w: seat", domain.ErrValidation)
	}

	taken, err := s.passes.SeatTaken(ctx, flight.ID, seat)
	if err != nil {
		return nil, err
	}
	if taken {
		s.countSeatConflict()
		return nil, fmt.Errorf("%w: %s", domain.ErrSeatTaken, seat)
	}

	pass, err := s.issue(ctx, flight, passenger, nil, seat, input.AgentID)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.CheckinsTotal.Inc()
	}
	s.publish(ctx, "checked_in", flight, pass, passenger.FullName())
	return &RegisterResult{Pass: pass}, nil
}

// Cancel transitions the pass to cancelled. The row stays for audit; its seat
// reappears in FreeSeats because taken seats exclude cancelled passes.
func (s *CheckInService) Cancel(ctx context.Context, passID int64) (*CancelResult, error) {
	current, err := s.passes.GetByID(ctx, passID)
	if err != nil {
		return nil, err
	}
	passenger, err := s.passengers.GetByID(ctx, current.PassengerID)
	if err != nil {
		return nil, err
	}
	if current.Status == domain.PassStatusCancelled {
		return &CancelResult{Pass: current, PassengerName: passenger.FullName()}, nil
	}

	updated, err := s.passes.UpdateStatus(ctx, passID, domain.PassStatusCancelled)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.CancellationsTotal.Inc()
	}
	flight, err := s.flights.GetByID(ctx, updated.FlightID)
	if err == nil {
		s.publish(ctx, "cancelled", flight, updated, passenger.FullName())
	}
	return &CancelResult{Pass: updated, PassengerName: passenger.FullName()}, nil
}

func (s *CheckInService) FreeSeats(ctx context.Context, flightID int64) ([]string, error) {
	flight, err := s.flights.GetByID(ctx, flightID)
	if err != nil {
		return nil, err
	}
	taken, err := s.passes.TakenSeats(ctx, flight.ID)
	if err != nil {
		return nil, err
	}
	return seatmap.Available(flight.Capacity, taken), nil
}

// SearchPassengers matches a case-insensitive substring over names, passport
// number and flight number. Registered means at least one pass exists for the
// passenger, regardless of its status.
func (s *CheckInService) SearchPassengers(ctx context.Context, query string) ([]PassengerSummary, error) {
	found, err := s.passengers.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	summaries := make([]PassengerSummary, 0, len(found))
	for _, p := range found {
		passes, err := s.passes.ListByPassenger(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, PassengerSummary{
			Passenger:  p,
			Passes:     passes,
			Registered: len(passes) > 0,
		})
	}
	return summaries, nil
}

// Dashboard reports the active flights for an explicitly supplied day and the
// agent's latest check-ins.
func (s *CheckInService) Dashboard(ctx context.Context, agent *domain.CheckInAgent, day time.Time) (*DashboardData, error) {
	active, err := s.flights.ListActiveOn(ctx, day)
	if err != nil {
		return nil, err
	}
	recent, err := s.passes.ListRecentByAgent(ctx, agent.ID, s.recentLimit)
	if err != nil {
		return nil, err
	}
	return &DashboardData{ActiveFlights: active, RecentCheckins: recent}, nil
}

func (s *CheckInService) issue(ctx context.Context, flight *domain.Flight, passenger, newPassenger *domain.Passenger, seat string, agentID int64) (*domain.BoardingPass, error) {
	var lastErr error
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		pass := &domain.BoardingPass{
			PassengerID: passenger.ID,
			FlightID:    flight.ID,
			Number:      s.passNumber(flight.Number),
			SeatNumber:  seat,
			Gate:        flight.Gate,
			CheckInTime: s.now(),
			AgentID:     agentID,
			Status:      domain.PassStatusCheckedIn,
		}
		if newPassenger != nil {
			// A failed attempt rolls the passenger insert back with it.
			newPassenger.ID = 0
		}

		err := s.passes.Issue(ctx, pass, newPassenger)
		if err == nil {
			return pass, nil
		}
		if errors.Is(err, domain.ErrDuplicatePassNumber) {
			lastErr = err
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("exhausted %d pass number attempts: %w", maxNumberAttempts, lastErr)
}

func (s *CheckInService) passNumber(flightNumber string) string {
	return "BP" + flightNumber + strconv.Itoa(1000+s.randInt(9000))
}

func (s *CheckInService) publish(ctx context.Context, eventType string, flight *domain.Flight, pass *domain.BoardingPass, passengerName string) {
	if s.producer == nil || s.checkinTopic == "" {
		return
	}
	event := kafka.CheckinEvent{
		Type:        eventType,
		PassNumber:  pass.Number,
		FlightID:    flight.ID,
		FlightNo:    flight.Number,
		SeatNumber:  pass.SeatNumber,
		Passenger:   passengerName,
		Gate:        pass.Gate,
		AgentID:     pass.AgentID,
		Status:      string(pass.Status),
		CheckInTime: pass.CheckInTime,
	}
	if err := s.producer.Publish(ctx, s.checkinTopic, pass.Number, event); err != nil {
		s.log.Warn("publish check-in event failed", "type", eventType, "pass", pass.Number, "error", err)
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, pass.Number, event); err != nil {
			s.log.Warn("publish notification failed", "type", eventType, "pass", pass.Number, "error", err)
		}
	}
}

func (s *CheckInService) countSeatConflict() {
	if s.metrics != nil {
		s.metrics.SeatConflicts.Inc()
	}
}

func validateNewPassenger(input CheckInInput) error {
	switch {
	case input.FirstName == "":
		return fmt.Errorf("%w: first name", domain.ErrValidation)
	case input.LastName == "":
		return fmt.Errorf("%w: last name", domain.ErrValidation)
	case input.PassportNumber == "":
		return fmt.Errorf("%w: passport number", domain.ErrValidation)
	}
	return nil
}

var _ CheckInUseCase = (*CheckInService)(nil)
