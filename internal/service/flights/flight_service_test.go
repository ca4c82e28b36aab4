package flights

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aerodesk/aircheckin/internal/domain"
	"github.com/aerodesk/aircheckin/internal/logger"
	"github.com/aerodesk/aircheckin/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockFlightRepository struct {
	mock.Mock
}

func (m *MockFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) Find(ctx context.Context, filter repository.FlightFilter) ([]domain.Flight, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) SearchByCity(ctx context.Context, byDeparture bool, city string) ([]domain.Flight, error) {
	args := m.Called(ctx, byDeparture, city)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) ListActiveOn(ctx context.Context, day time.Time) ([]domain.Flight, error) {
	args := m.Called(ctx, day)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	args := m.Called(ctx, flight)
	return args.Error(0)
}

func (m *MockFlightRepository) UpdateStatus(ctx context.Context, id int64, status domain.FlightStatus) (*domain.Flight, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

type MockPassengerRepository struct {
	mock.Mock
}

func (m *MockPassengerRepository) GetByID(ctx context.Context, id int64) (*domain.Passenger, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Passenger), args.Error(1)
}

func (m *MockPassengerRepository) ListByFlight(ctx context.Context, flightID int64) ([]domain.Passenger, error) {
	args := m.Called(ctx, flightID)
	return args.Get(0).([]domain.Passenger), args.Error(1)
}

func (m *MockPassengerRepository) Search(ctx context.Context, query string) ([]domain.Passenger, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]domain.Passenger), args.Error(1)
}

type MockBoardingPassRepository struct {
	mock.Mock
}

func (m *MockBoardingPassRepository) Issue(ctx context.Context, pass *domain.BoardingPass, newPassenger *domain.Passenger) error {
	args := m.Called(ctx, pass, newPassenger)
	return args.Error(0)
}

func (m *MockBoardingPassRepository) GetByID(ctx context.Context, id int64) (*domain.BoardingPass, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BoardingPass), args.Error(1)
}

func (m *MockBoardingPassRepository) GetByPassengerAndFlight(ctx context.Context, passengerID, flightID int64) (*domain.BoardingPass, error) {
	args := m.Called(ctx, passengerID, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BoardingPass), args.Error(1)
}

func (m *MockBoardingPassRepository) ListByFlight(ctx context.Context, flightID int64) ([]domain.BoardingPass, error) {
	args := m.Called(ctx, flightID)
	return args.Get(0).([]domain.BoardingPass), args.Error(1)
}

func (m *MockBoardingPassRepository) ListByPassenger(ctx context.Context, passengerID int64) ([]domain.BoardingPass, error) {
	args := m.Called(ctx, passengerID)
	return args.Get(0).([]domain.BoardingPass), args.Error(1)
}

func (m *MockBoardingPassRepository) ListRecentByAgent(ctx context.Context, agentID int64, limit int) ([]domain.BoardingPass, error) {
	args := m.Called(ctx, agentID, limit)
	return args.Get(0).([]domain.BoardingPass), args.Error(1)
}

func (m *MockBoardingPassRepository) TakenSeats(ctx context.Context, flightID int64) ([]string, error) {
	args := m.Called(ctx, flightID)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockBoardingPassRepository) SeatTaken(ctx context.Context, flightID int64, seat string) (bool, error) {
	args := m.Called(ctx, flightID, seat)
	return args.Bool(0), args.Error(1)
}

func (m *MockBoardingPassRepository) UpdateStatus(ctx context.Context, id int64, status domain.PassStatus) (*domain.BoardingPass, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BoardingPass), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetFlights(ctx context.Context) ([]domain.Flight, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockCache) SetFlights(ctx context.Context, flights []domain.Flight) error {
	args := m.Called(ctx, flights)
	return args.Error(0)
}

func (m *MockCache) InvalidateFlights(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func (l nopLogger) With(...interface{}) logger.Logger { return l }

func newService(repo *MockFlightRepository, passengers *MockPassengerRepository, passes *MockBoardingPassRepository, cache Cache) *FlightService {
	return NewFlightService(repo, passengers, passes, cache, nopLogger{})
}

func TestList_CacheHit(t *testing.T) {
	repo := &MockFlightRepository{}
	cache := &MockCache{}
	service := newService(repo, &MockPassengerRepository{}, &MockBoardingPassRepository{}, cache)

	ctx := context.Background()
	cached := []domain.Flight{{ID: 1, Number: "SU100"}}
	cache.On("GetFlights", ctx).Return(cached, nil).Once()

	flights, err := service.List(ctx)

	assert.NoError(t, err)
	assert.Equal(t, cached, flights)
	repo.AssertNotCalled(t, "List", mock.Anything)
}

func TestList_CacheMissFillsCache(t *testing.T) {
	repo := &MockFlightRepository{}
	cache := &MockCache{}
	service := newService(repo, &MockPassengerRepository{}, &MockBoardingPassRepository{}, cache)

	ctx := context.Background()
	stored := []domain.Flight{{ID: 1, Number: "SU100"}}
	cache.On("GetFlights", ctx).Return(nil, nil).Once()
	repo.On("List", ctx).Return(stored, nil).Once()
	cache.On("SetFlights", ctx, stored).Return(nil).Once()

	flights, err := service.List(ctx)

	assert.NoError(t, err)
	assert.Equal(t, stored, flights)
	cache.AssertExpectations(t)
}

func TestFind_RejectsUnknownStatus(t *testing.T) {
	repo := &MockFlightRepository{}
	service := newService(repo, &MockPassengerRepository{}, &MockBoardingPassRepository{}, nil)

	_, err := service.Find(context.Background(), repository.FlightFilter{Status: "taxiing"})

	assert.ErrorIs(t, err, domain.ErrValidation)
	repo.AssertNotCalled(t, "Find", mock.Anything, mock.Anything)
}

func TestCreate_RequiresPositiveCapacity(t *testing.T) {
	repo := &MockFlightRepository{}
	service := newService(repo, &MockPassengerRepository{}, &MockBoardingPassRepository{}, nil)

	_, err := service.Create(context.Background(), CreateFlightInput{Number: "SU100", Capacity: 0})

	assert.ErrorIs(t, err, domain.ErrValidation)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreate_DefaultsAndInvalidation(t *testing.T) {
	repo := &MockFlightRepository{}
	cache := &MockCache{}
	service := newService(repo, &MockPassengerRepository{}, &MockBoardingPassRepository{}, cache)

	ctx := context.Background()
	repo.On("Create", ctx, mock.AnythingOfType("*domain.Flight")).Return(nil).Once()
	cache.On("InvalidateFlights", ctx).Return(nil).Once()

	flight, err := service.Create(ctx, CreateFlightInput{Number: "SU100", Capacity: 180})

	assert.NoError(t, err)
	assert.Equal(t, domain.FlightStatusScheduled, flight.Status)
	assert.Equal(t, "A1", flight.Gate)
	cache.AssertExpectations(t)
}

func TestAdvanceStatus_RejectsUnknownStatus(t *testing.T) {
	repo := &MockFlightRepository{}
	service := newService(repo, &MockPassengerRepository{}, &MockBoardingPassRepository{}, nil)

	_, err := service.AdvanceStatus(context.Background(), 1, "parked")

	assert.ErrorIs(t, err, domain.ErrValidation)
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdvanceStatus_InvalidatesCache(t *testing.T) {
	repo := &MockFlightRepository{}
	cache := &MockCache{}
	service := newService(repo, &MockPassengerRepository{}, &MockBoardingPassRepository{}, cache)

	ctx := context.Background()
	updated := &domain.Flight{ID: 1, Number: "SU100", Status: domain.FlightStatusBoarding}
	repo.On("UpdateStatus", ctx, int64(1), domain.FlightStatusBoarding).Return(updated, nil).Once()
	cache.On("InvalidateFlights", ctx).Return(nil).Once()

	flight, err := service.AdvanceStatus(ctx, 1, domain.FlightStatusBoarding)

	assert.NoError(t, err)
	assert.Equal(t, domain.FlightStatusBoarding, flight.Status)
	cache.AssertExpectations(t)
}

func TestDetail_ManifestAndCounts(t *testing.T) {
	repo := &MockFlightRepository{}
	passengers := &MockPassengerRepository{}
	passes := &MockBoardingPassRepository{}
	service := newService(repo, passengers, passes, nil)

	ctx := context.Background()
	flight := &domain.Flight{ID: 7, Number: "SU100", Capacity: 100}
	manifest := []domain.Passenger{
		{ID: 1, FlightID: 7, FirstName: "Anna"},
		{ID: 2, FlightID: 7, FirstName: "Boris"},
		{ID: 3, FlightID: 7, FirstName: "Vera"},
	}
	issued := []domain.BoardingPass{
		{ID: 10, PassengerID: 1, FlightID: 7, SeatNumber: "1A", Status: domain.PassStatusCheckedIn},
		{ID: 11, PassengerID: 3, FlightID: 7, SeatNumber: "2B", Status: domain.PassStatusCancelled},
	}

	repo.On("GetByID", ctx, int64(7)).Return(flight, nil)
	passengers.On("ListByFlight", ctx, int64(7)).Return(manifest, nil)
	passes.On("ListByFlight", ctx, int64(7)).Return(issued, nil)

	detail, err := service.Detail(ctx, 7)

	assert.NoError(t, err)
	assert.Len(t, detail.Passengers, 3)
	assert.True(t, detail.Passengers[0].IsRegistered)
	assert.False(t, detail.Passengers[1].IsRegistered)
	// The cancelled pass still shows on the manifest entry.
	assert.True(t, detail.Passengers[2].IsRegistered)
	// But only active passes occupy seats.
	assert.Equal(t, 1, detail.RegisteredCount)
	assert.Equal(t, 99, detail.FreeSeatCount)
}

func TestDetail_FlightNotFound(t *testing.T) {
	repo := &MockFlightRepository{}
	service := newService(repo, &MockPassengerRepository{}, &MockBoardingPassRepository{}, nil)

	ctx := context.Background()
	repo.On("GetByID", ctx, int64(404)).Return(nil, domain.ErrFlightNotFound)

	_, err := service.Detail(ctx, 404)

	assert.ErrorIs(t, err, domain.ErrFlightNotFound)
}

func TestList_RepoError(t *testing.T) {
	repo := &MockFlightRepository{}
	service := newService(repo, &MockPassengerRepository{}, &MockBoardingPassRepository{}, nil)

	ctx := context.Background()
	repo.On("List", ctx).Return([]domain.Flight{}, errors.New("db down"))

	_, err := service.List(ctx)

	assert.Error(t, err)
}

var _ repository.FlightRepository = (*MockFlightRepository)(nil)
var _ repository.PassengerRepository = (*MockPassengerRepository)(nil)
var _ repository.BoardingPassRepository = (*MockBoardingPassRepository)(nil)
var _ Cache = (*MockCache)(nil)
