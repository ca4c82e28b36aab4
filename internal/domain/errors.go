package domain

import "errors"

// Workflow outcomes the HTTP layer maps to responses. Repositories translate
// driver errors into these so callers never see pgconn codes.
var (
	ErrFlightNotFound      = errors.New("flight not found")
	ErrPassengerNotFound   = errors.New("passenger not found")
	ErrPassNotFound        = errors.New("boarding pass not found")
	ErrAgentNotFound       = errors.New("check-in agent not found")
	ErrSeatTaken           = errors.New("seat already taken")
	ErrValidation          = errors.New("missing required field")
	ErrDuplicatePassNumber = errors.New("boarding pass number already exists")
)
