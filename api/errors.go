package api

import (
	"errors"
	"net/http"

	"github.com/aerodesk/aircheckin/internal/domain"
	"github.com/gin-gonic/gin"
)

// abortWithError maps workflow errors onto HTTP statuses. Every failure is
// reported to the caller; nothing here is process-fatal.
func abortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrFlightNotFound),
		errors.Is(err, domain.ErrPassengerNotFound),
		errors.Is(err, domain.ErrPassNotFound),
		errors.Is(err, domain.ErrAgentNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrSeatTaken),
		errors.Is(err, domain.ErrDuplicatePassNumber):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrValidation):
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
