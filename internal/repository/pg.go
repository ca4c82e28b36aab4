package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Constraint names from the goose migrations. The partial unique index on
// (flight_id, seat_number) is the authority for seat allocation; the unique
// key on boarding_pass_number guards the generated pass numbers.
const (
	constraintActiveSeat = "boarding_passes_active_seat_idx"
	constraintPassNumber = "boarding_passes_number_key"
)

func uniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "23505" && pgErr.ConstraintName == constraint
}
