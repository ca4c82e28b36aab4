package repository

import (
	"context"
	"errors"

	"github.com/aerodesk/aircheckin/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PassengerRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Passenger, error)
	ListByFlight(ctx context.Context, flightID int64) ([]domain.Passenger, error)
	Search(ctx context.Context, query string) ([]domain.Passenger, error)
}

type PGPassengerRepository struct {
	db *pgxpool.Pool
}

func NewPassengerRepository(db *pgxpool.Pool) PassengerRepository {
	return &PGPassengerRepository{db: db}
}

const passengerColumns = `id, flight_id, first_name, last_name, passport_number, seat_number`

func scanPassenger(row pgx.Row, p *domain.Passenger) error {
	return row.Scan(&p.ID, &p.FlightID, &p.FirstName, &p.LastName, &p.PassportNumber, &p.SeatNumber)
}

func (r *PGPassengerRepository) GetByID(ctx context.Context, id int64) (*domain.Passenger, error) {
	row := r.db.QueryRow(ctx, `SELECT `+passengerColumns+` FROM passengers WHERE id=$1`, id)
	var p domain.Passenger
	if err := scanPassenger(row, &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPassengerNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGPassengerRepository) ListByFlight(ctx context.Context, flightID int64) ([]domain.Passenger, error) {
	return r.queryPassengers(ctx, `SELECT `+passengerColumns+` FROM passengers WHERE flight_id=$1 ORDER BY id`, flightID)
}

// Search matches case-insensitive substrings over the passenger's names,
// passport number and the owning flight's number.
func (r *PGPassengerRepository) Search(ctx context.Context, query string) ([]domain.Passenger, error) {
	return r.queryPassengers(ctx, `SELECT p.id, p.flight_id, p.first_name, p.last_name, p.passport_number, p.seat_number
		FROM passengers p
		JOIN flights f ON f.id = p.flight_id
		WHERE p.first_name ILIKE '%' || $1 || '%'
		   OR p.last_name ILIKE '%' || $1 || '%'
		   OR p.passport_number ILIKE '%' || $1 || '%'
		   OR f.number ILIKE '%' || $1 || '%'
		ORDER BY p.id`, query)
}

func (r *PGPassengerRepository) queryPassengers(ctx context.Context, sql string, args ...any) ([]domain.Passenger, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	passengers := make([]domain.Passenger, 0)
	for rows.Next() {
		var p domain.Passenger
		if err := scanPassenger(rows, &p); err != nil {
			return nil, err
		}
		passengers = append(passengers, p)
	}
	return passengers, rows.Err()
}

var _ PassengerRepository = (*PGPassengerRepository)(nil)
