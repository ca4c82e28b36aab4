package flights

import (
	"context"
	"fmt"
	"time"

	"github.com/aerodesk/aircheckin/internal/domain"
	"github.com/aerodesk/aircheckin/internal/logger"
	"github.com/aerodesk/aircheckin/internal/repository"
)

type FlightUseCase interface {
	List(ctx context.Context) ([]domain.Flight, error)
	Find(ctx context.Context, filter repository.FlightFilter) ([]domain.Flight, error)
	SearchByCity(ctx context.Context, byDeparture bool, city string) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	Detail(ctx context.Context, id int64) (*FlightDetail, error)
	Create(ctx context.Context, input CreateFlightInput) (*domain.Flight, error)
	AdvanceStatus(ctx context.Context, id int64, status domain.FlightStatus) (*domain.Flight, error)
}

type Cache interface {
	GetFlights(ctx context.Context) ([]domain.Flight, error)
	SetFlights(ctx context.Context, flights []domain.Flight) error
	InvalidateFlights(ctx context.Context) error
}

type FlightService struct {
	repo       repository.FlightRepository
	passengers repository.PassengerRepository
	passes     repository.BoardingPassRepository
	cache      Cache
	log        logger.Logger
}

type CreateFlightInput struct {
	Number          string
	DepartureCity   string
	DestinationCity string
	DepartureTime   time.Time
	ArrivalTime     time.Time
	Gate            string
	Capacity        int
}

// PassengerStatus pairs a passenger with its registration state on the flight.
type PassengerStatus struct {
	Passenger    domain.Passenger
	BoardingPass *domain.BoardingPass
	IsRegistered bool
}

type FlightDetail struct {
	Flight          domain.Flight
	Passengers      []PassengerStatus
	RegisteredCount int
	FreeSeatCount   int
}

func NewFlightService(
	repo repository.FlightRepository,
	passengers repository.PassengerRepository,
	passes repository.BoardingPassRepository,
	cache Cache,
	log logger.Logger,
) *FlightService {
	return &FlightService{
		repo:       repo,
		passengers: passengers,
		passes:     passes,
		cache:      cache,
		log:        log,
	}
}

func (s *FlightService) List(ctx context.Context) ([]domain.Flight, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetFlights(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	flights, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetFlights(ctx, flights); err != nil {
			s.log.Warn("cache flights failed", "error", err)
		}
	}
	return flights, nil
}

func (s *FlightService) Find(ctx context.Context, filter repository.FlightFilter) ([]domain.Flight, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, filter.Status)
	}
	return s.repo.Find(ctx, filter)
}

func (s *FlightService) SearchByCity(ctx context.Context, byDeparture bool, city string) ([]domain.Flight, error) {
	return s.repo.SearchByCity(ctx, byDeparture, city)
}

func (s *FlightService) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	return s.repo.GetByID(ctx, id)
}

// Detail reports the flight's manifest: each passenger with its boarding pass
// when one exists, plus seat occupancy counts. Cancelled passes still show on
// the manifest but do not count as occupied seats.
func (s *FlightService) Detail(ctx context.Context, id int64) (*FlightDetail, error) {
	flight, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	manifest, err := s.passengers.ListByFlight(ctx, flight.ID)
	if err != nil {
		return nil, err
	}
	passes, err := s.passes.ListByFlight(ctx, flight.ID)
	if err != nil {
		return nil, err
	}

	byPassenger := make(map[int64]*domain.BoardingPass, len(passes))
	for i := range passes {
		p := passes[i]
		if _, ok := byPassenger[p.PassengerID]; !ok {
			byPassenger[p.PassengerID] = &p
		}
	}

	detail := &FlightDetail{Flight: *flight}
	for _, passenger := range manifest {
		pass := byPassenger[passenger.ID]
		detail.Passengers = append(detail.Passengers, PassengerStatus{
			Passenger:    passenger,
			BoardingPass: pass,
			IsRegistered: pass != nil,
		})
	}
	for _, p := range passes {
		if p.Active() {
			detail.RegisteredCount++
		}
	}
	detail.FreeSeatCount = flight.Capacity - detail.RegisteredCount
	return detail, nil
}

func (s *FlightService) Create(ctx context.Context, input CreateFlightInput) (*domain.Flight, error) {
	if input.Number == "" {
		return nil, fmt.Errorf("%w: flight number", domain.ErrValidation)
	}
	if input.Capacity <= 0 {
		return nil, fmt.Errorf("%w: capacity must be positive", domain.ErrValidation)
	}

	flight := &domain.Flight{
		Number:          input.Number,
		DepartureCity:   input.DepartureCity,
		DestinationCity: input.DestinationCity,
		DepartureTime:   input.DepartureTime,
		ArrivalTime:     input.ArrivalTime,
		Gate:            input.Gate,
		Status:          domain.FlightStatusScheduled,
		Capacity:        input.Capacity,
	}
	if flight.Gate == "" {
		flight.Gate = "A1"
	}
	if err := s.repo.Create(ctx, flight); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return flight, nil
}

func (s *FlightService) AdvanceStatus(ctx context.Context, id int64, status domain.FlightStatus) (*domain.Flight, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, status)
	}
	flight, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return flight, nil
}

func (s *FlightService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateFlights(ctx); err != nil {
		s.log.Warn("invalidate flights cache failed", "error", err)
	}
}

var _ FlightUseCase = (*FlightService)(nil)
