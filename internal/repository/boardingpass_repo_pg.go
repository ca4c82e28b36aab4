package repository

import (
	"context"
	"errors"

	"github.com/aerodesk/aircheckin/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BoardingPassRepository interface {
	// Issue inserts the pass and, when newPassenger is non-nil, creates the
	// passenger in the same transaction so a failed insert leaves no orphan.
	Issue(ctx context.Context, pass *domain.BoardingPass, newPassenger *domain.Passenger) error
	GetByID(ctx context.Context, id int64) (*domain.BoardingPass, error)
	GetByPassengerAndFlight(ctx context.Context, passengerID, flightID int64) (*domain.BoardingPass, error)
	ListByFlight(ctx context.Context, flightID int64) ([]domain.BoardingPass, error)
	ListByPassenger(ctx context.Context, passengerID int64) ([]domain.BoardingPass, error)
	ListRecentByAgent(ctx context.Context, agentID int64, limit int) ([]domain.BoardingPass, error)
	TakenSeats(ctx context.Context, flightID int64) ([]string, error)
	SeatTaken(ctx context.Context, flightID int64, seat string) (bool, error)
	UpdateStatus(ctx context.Context, id int64, status domain.PassStatus) (*domain.BoardingPass, error)
}

type PGBoardingPassRepository struct {
	db *pgxpool.Pool
}

func NewBoardingPassRepository(db *pgxpool.Pool) BoardingPassRepository {
	return &PGBoardingPassRepository{db: db}
}

const passColumns = `id, passenger_id, flight_id, boarding_pass_number, seat_number, gate, boarding_time, check_in_time, check_in_agent_id, status`

func scanPass(row pgx.Row, p *domain.BoardingPass) error {
	return row.Scan(&p.ID, &p.PassengerID, &p.FlightID, &p.Number, &p.SeatNumber, &p.Gate, &p.BoardingTime, &p.CheckInTime, &p.AgentID, &p.Status)
}

func (r *PGBoardingPassRepository) Issue(ctx context.Context, pass *domain.BoardingPass, newPassenger *domain.Passenger) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if newPassenger != nil {
		if err := tx.QueryRow(ctx, `INSERT INTO passengers (flight_id, first_name, last_name, passport_number, seat_number)
			VALUES ($1, $2, $3, $4, $5) RETURNING id`,
			newPassenger.FlightID, newPassenger.FirstName, newPassenger.LastName, newPassenger.PassportNumber, newPassenger.SeatNumber).
			Scan(&newPassenger.ID); err != nil {
			return err
		}
		pass.PassengerID = newPassenger.ID
	}

	err = tx.QueryRow(ctx, `INSERT INTO boarding_passes (passenger_id, flight_id, boarding_pass_number, seat_number, gate, check_in_time, check_in_agent_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		pass.PassengerID, pass.FlightID, pass.Number, pass.SeatNumber, pass.Gate, pass.CheckInTime, pass.AgentID, pass.Status).
		Scan(&pass.ID)
	if err != nil {
		switch {
		case uniqueViolation(err, constraintActiveSeat):
			return domain.ErrSeatTaken
		case uniqueViolation(err, constraintPassNumber):
			return domain.ErrDuplicatePassNumber
		}
		return err
	}

	return tx.Commit(ctx)
}

func (r *PGBoardingPassRepository) GetByID(ctx context.Context, id int64) (*domain.BoardingPass, error) {
	row := r.db.QueryRow(ctx, `SELECT `+passColumns+` FROM boarding_passes WHERE id=$1`, id)
	var p domain.BoardingPass
	if err := scanPass(row, &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPassNotFound
		}
		return nil, err
	}
	return &p, nil
}

// GetByPassengerAndFlight prefers an active pass; a cancelled one is returned
// only when no other exists.
func (r *PGBoardingPassRepository) GetByPassengerAndFlight(ctx context.Context, passengerID, flightID int64) (*domain.BoardingPass, error) {
	row := r.db.QueryRow(ctx, `SELECT `+passColumns+` FROM boarding_passes WHERE passenger_id=$1 AND flight_id=$2 ORDER BY (status = 'cancelled'), id DESC LIMIT 1`, passengerID, flightID)
	var p domain.BoardingPass
	if err := scanPass(row, &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPassNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGBoardingPassRepository) ListByFlight(ctx context.Context, flightID int64) ([]domain.BoardingPass, error) {
	return r.queryPasses(ctx, `SELECT `+passColumns+` FROM boarding_passes WHERE flight_id=$1 ORDER BY check_in_time`, flightID)
}

func (r *PGBoardingPassRepository) ListByPassenger(ctx context.Context, passengerID int64) ([]domain.BoardingPass, error) {
	return r.queryPasses(ctx, `SELECT `+passColumns+` FROM boarding_passes WHERE passenger_id=$1 ORDER BY check_in_time`, passengerID)
}

func (r *PGBoardingPassRepository) ListRecentByAgent(ctx context.Context, agentID int64, limit int) ([]domain.BoardingPass, error) {
	return r.queryPasses(ctx, `SELECT `+passColumns+` FROM boarding_passes WHERE check_in_agent_id=$1 ORDER BY check_in_time DESC LIMIT $2`, agentID, limit)
}

// TakenSeats reports seats on non-cancelled passes only, so cancelled passes
// return their seat to the pool.
func (r *PGBoardingPassRepository) TakenSeats(ctx context.Context, flightID int64) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT seat_number FROM boarding_passes WHERE flight_id=$1 AND status <> 'cancelled'`, flightID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]string, 0)
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	return seats, rows.Err()
}

func (r *PGBoardingPassRepository) SeatTaken(ctx context.Context, flightID int64, seat string) (bool, error) {
	var taken bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM boarding_passes WHERE flight_id=$1 AND seat_number=$2 AND status <> 'cancelled')`, flightID, seat).Scan(&taken)
	return taken, err
}

func (r *PGBoardingPassRepository) UpdateStatus(ctx context.Context, id int64, status domain.PassStatus) (*domain.BoardingPass, error) {
	row := r.db.QueryRow(ctx, `UPDATE boarding_passes SET status=$1 WHERE id=$2 RETURNING `+passColumns, status, id)
	var p domain.BoardingPass
	if err := scanPass(row, &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPassNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGBoardingPassRepository) queryPasses(ctx context.Context, sql string, args ...any) ([]domain.BoardingPass, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	passes := make([]domain.BoardingPass, 0)
	for rows.Next() {
		var p domain.BoardingPass
		if err := scanPass(rows, &p); err != nil {
			return nil, err
		}
		passes = append(passes, p)
	}
	return passes, rows.Err()
}

var _ BoardingPassRepository = (*PGBoardingPassRepository)(nil)
