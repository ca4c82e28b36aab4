package api

import (
	"net/http"

	"github.com/aerodesk/aircheckin/internal/service/checkin"
	"github.com/gin-gonic/gin"
)

type PassengerHandler struct {
	service checkin.CheckInUseCase
}

func NewPassengerHandler(service checkin.CheckInUseCase) *PassengerHandler {
	return &PassengerHandler{service: service}
}

func (h *PassengerHandler) Register(router *gin.RouterGroup) {
	router.GET("/passengers", h.search)
}

func (h *PassengerHandler) search(c *gin.Context) {
	summaries, err := h.service.SearchPassengers(c.Request.Context(), c.Query("search"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	out := make([]gin.H, 0, len(summaries))
	for _, s := range summaries {
		passes := make([]passResponse, 0, len(s.Passes))
		for _, p := range s.Passes {
			passes = append(passes, toPassResponse(&p))
		}
		out = append(out, gin.H{
			"id":              s.Passenger.ID,
			"flight_id":       s.Passenger.FlightID,
			"first_name":      s.Passenger.FirstName,
			"last_name":       s.Passenger.LastName,
			"passport_number": s.Passenger.PassportNumber,
			"seat_number":     s.Passenger.SeatNumber,
			"is_registered":   s.Registered,
			"boarding_passes": passes,
		})
	}
	c.JSON(http.StatusOK, out)
}
