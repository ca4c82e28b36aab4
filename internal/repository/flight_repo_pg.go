package repository

import (
	"context"
	"errors"
	"time"

	"github.com/aerodesk/aircheckin/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FlightFilter struct {
	Number string              // substring match on flight number
	Status domain.FlightStatus // exact match, empty means any
}

type FlightRepository interface {
	List(ctx context.Context) ([]domain.Flight, error)
	Find(ctx context.Context, filter FlightFilter) ([]domain.Flight, error)
	SearchByCity(ctx context.Context, byDeparture bool, city string) ([]domain.Flight, error)
	ListActiveOn(ctx context.Context, day time.Time) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	Create(ctx context.Context, flight *domain.Flight) error
	UpdateStatus(ctx context.Context, id int64, status domain.FlightStatus) (*domain.Flight, error)
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

const flightColumns = `id, number, departure_city, destination_city, departure_time, arrival_time, gate, status, capacity, created_at, updated_at`

func scanFlight(row pgx.Row, f *domain.Flight) error {
	return row.Scan(&f.ID, &f.Number, &f.DepartureCity, &f.DestinationCity, &f.DepartureTime, &f.ArrivalTime, &f.Gate, &f.Status, &f.Capacity, &f.CreatedAt, &f.UpdatedAt)
}

func (r *PGFlightRepository) queryFlights(ctx context.Context, sql string, args ...any) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		var f domain.Flight
		if err := scanFlight(rows, &f); err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	return flights, rows.Err()
}

func (r *PGFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	return r.queryFlights(ctx, `SELECT `+flightColumns+` FROM flights ORDER BY departure_time`)
}

func (r *PGFlightRepository) Find(ctx context.Context, filter FlightFilter) ([]domain.Flight, error) {
	sql := `SELECT ` + flightColumns + ` FROM flights WHERE number ILIKE '%' || $1 || '%'`
	args := []any{filter.Number}
	if filter.Status != "" {
		sql += ` AND status = $2`
		args = append(args, filter.Status)
	}
	sql += ` ORDER BY departure_time`
	return r.queryFlights(ctx, sql, args...)
}

func (r *PGFlightRepository) SearchByCity(ctx context.Context, byDeparture bool, city string) ([]domain.Flight, error) {
	field := "destination_city"
	if byDeparture {
		field = "departure_city"
	}
	return r.queryFlights(ctx, `SELECT `+flightColumns+` FROM flights WHERE `+field+` ILIKE '%' || $1 || '%' ORDER BY departure_time`, city)
}

func (r *PGFlightRepository) ListActiveOn(ctx context.Context, day time.Time) ([]domain.Flight, error) {
	return r.queryFlights(ctx, `SELECT `+flightColumns+` FROM flights WHERE departure_time::date = $1::date AND status IN ('scheduled', 'boarding') ORDER BY departure_time`, day)
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE id=$1`, id)
	var f domain.Flight
	if err := scanFlight(row, &f); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFlightNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (r *PGFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	return r.db.QueryRow(ctx, `INSERT INTO flights (number, departure_city, destination_city, departure_time, arrival_time, gate, status, capacity)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`,
		flight.Number, flight.DepartureCity, flight.DestinationCity, flight.DepartureTime, flight.ArrivalTime, flight.Gate, flight.Status, flight.Capacity).
		Scan(&flight.ID, &flight.CreatedAt, &flight.UpdatedAt)
}

func (r *PGFlightRepository) UpdateStatus(ctx context.Context, id int64, status domain.FlightStatus) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, `UPDATE flights SET status=$1, updated_at=now() WHERE id=$2 RETURNING `+flightColumns, status, id)
	var f domain.Flight
	if err := scanFlight(row, &f); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFlightNotFound
		}
		return nil, err
	}
	return &f, nil
}

var _ FlightRepository = (*PGFlightRepository)(nil)
