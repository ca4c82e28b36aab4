package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/aerodesk/aircheckin/internal/domain"
	"github.com/aerodesk/aircheckin/internal/repository"
	"github.com/aerodesk/aircheckin/internal/service/flights"
	"github.com/gin-gonic/gin"
)

type FlightHandler struct {
	service flights.FlightUseCase
}

type createFlightRequest struct {
	Number          string    `json:"number"`
	DepartureCity   string    `json:"departure_city"`
	DestinationCity string    `json:"destination_city"`
	DepartureTime   time.Time `json:"departure_time"`
	ArrivalTime     time.Time `json:"arrival_time"`
	Gate            string    `json:"gate"`
	Capacity        int       `json:"capacity"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type flightResponse struct {
	ID              int64  `json:"id"`
	Number          string `json:"number"`
	DepartureCity   string `json:"departure_city"`
	DestinationCity string `json:"destination_city"`
	DepartureTime   string `json:"departure_time"`
	ArrivalTime     string `json:"arrival_time"`
	Gate            string `json:"gate"`
	Status          string `json:"status"`
	Capacity        int    `json:"capacity"`
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("/flights", h.list)
	router.POST("/flights", h.create)
	router.GET("/flights/:id", h.get)
	router.GET("/flights/:id/detail", h.detail)
	router.PATCH("/flights/:id/status", h.updateStatus)
}

// list serves three query shapes: plain listing, number/status filtering and
// city search (?city=...&search_type=departure|destination).
func (h *FlightHandler) list(c *gin.Context) {
	ctx := c.Request.Context()

	var result []domain.Flight
	var err error
	switch {
	case c.Query("city") != "":
		byDeparture := c.Query("search_type") == "departure"
		result, err = h.service.SearchByCity(ctx, byDeparture, c.Query("city"))
	case c.Query("number") != "" || c.Query("status") != "":
		result, err = h.service.Find(ctx, repository.FlightFilter{
			Number: c.Query("number"),
			Status: domain.FlightStatus(c.Query("status")),
		})
	default:
		result, err = h.service.List(ctx)
	}
	if err != nil {
		abortWithError(c, err)
		return
	}

	out := make([]flightResponse, 0, len(result))
	for _, f := range result {
		out = append(out, toFlightResponse(&f))
	}
	c.JSON(http.StatusOK, out)
}

func (h *FlightHandler) create(c *gin.Context) {
	var req createFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	flight, err := h.service.Create(c.Request.Context(), flights.CreateFlightInput{
		Number:          req.Number,
		DepartureCity:   req.DepartureCity,
		DestinationCity: req.DestinationCity,
		DepartureTime:   req.DepartureTime,
		ArrivalTime:     req.ArrivalTime,
		Gate:            req.Gate,
		Capacity:        req.Capacity,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toFlightResponse(flight))
}

func (h *FlightHandler) get(c *gin.Context) {
	id, ok := flightID(c)
	if !ok {
		return
	}
	flight, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFlightResponse(flight))
}

func (h *FlightHandler) detail(c *gin.Context) {
	id, ok := flightID(c)
	if !ok {
		return
	}
	detail, err := h.service.Detail(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}

	passengers := make([]gin.H, 0, len(detail.Passengers))
	for _, p := range detail.Passengers {
		entry := gin.H{
			"id":              p.Passenger.ID,
			"first_name":      p.Passenger.FirstName,
			"last_name":       p.Passenger.LastName,
			"passport_number": p.Passenger.PassportNumber,
			"seat_number":     p.Passenger.SeatNumber,
			"is_registered":   p.IsRegistered,
		}
		if p.BoardingPass != nil {
			entry["boarding_pass"] = toPassResponse(p.BoardingPass)
		}
		passengers = append(passengers, entry)
	}

	c.JSON(http.StatusOK, gin.H{
		"flight":           toFlightResponse(&detail.Flight),
		"passengers":       passengers,
		"registered_count": detail.RegisteredCount,
		"free_seats":       detail.FreeSeatCount,
	})
}

func (h *FlightHandler) updateStatus(c *gin.Context) {
	id, ok := flightID(c)
	if !ok {
		return
	}
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	flight, err := h.service.AdvanceStatus(c.Request.Context(), id, domain.FlightStatus(req.Status))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFlightResponse(flight))
}

func flightID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func toFlightResponse(f *domain.Flight) flightResponse {
	return flightResponse{
		ID:              f.ID,
		Number:          f.Number,
		DepartureCity:   f.DepartureCity,
		DestinationCity: f.DestinationCity,
		DepartureTime:   f.DepartureTime.Format(time.RFC3339),
		ArrivalTime:     f.ArrivalTime.Format(time.RFC3339),
		Gate:            f.Gate,
		Status:          string(f.Status),
		Capacity:        f.Capacity,
	}
}
