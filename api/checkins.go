package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/aerodesk/aircheckin/internal/domain"
	"github.com/aerodesk/aircheckin/internal/service/checkin"
	"github.com/gin-gonic/gin"
)

type CheckinHandler struct {
	service checkin.CheckInUseCase
}

type checkInRequest struct {
	PassengerID    int64  `json:"passenger_id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	PassportNumber string `json:"passport_number"`
	Seat           string `json:"seat"`
}

type registerRequest struct {
	FlightID    int64  `json:"flight_id"`
	PassengerID int64  `json:"passenger_id"`
	Seat        string `json:"seat"`
}

type passResponse struct {
	ID          int64  `json:"id"`
	Number      string `json:"number"`
	PassengerID int64  `json:"passenger_id"`
	FlightID    int64  `json:"flight_id"`
	Seat        string `json:"seat"`
	Gate        string `json:"gate"`
	CheckInTime string `json:"check_in_time"`
	Status      string `json:"status"`
}

func NewCheckinHandler(service checkin.CheckInUseCase) *CheckinHandler {
	return &CheckinHandler{service: service}
}

func (h *CheckinHandler) Register(router *gin.RouterGroup) {
	router.GET("/flights/:id/seats", h.freeSeats)
	router.POST("/flights/:id/checkins", h.create)
	router.POST("/checkins/register", h.registerFromSearch)
	router.DELETE("/checkins/:id", h.cancel)
	router.GET("/agent/dashboard", h.dashboard)
}

func (h *CheckinHandler) freeSeats(c *gin.Context) {
	id, ok := flightID(c)
	if !ok {
		return
	}
	seats, err := h.service.FreeSeats(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"flight_id": id, "free_seats": seats})
}

func (h *CheckinHandler) create(c *gin.Context) {
	id, ok := flightID(c)
	if !ok {
		return
	}
	agent := agentFrom(c)
	if agent == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no agent in request"})
		return
	}

	var req checkInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pass, err := h.service.CheckIn(c.Request.Context(), checkin.CheckInInput{
		FlightID:       id,
		AgentID:        agent.ID,
		PassengerID:    req.PassengerID,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		PassportNumber: req.PassportNumber,
		Seat:           req.Seat,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toPassResponse(pass))
}

func (h *CheckinHandler) registerFromSearch(c *gin.Context) {
	agent := agentFrom(c)
	if agent == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no agent in request"})
		return
	}

	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.RegisterFromSearch(c.Request.Context(), checkin.RegisterInput{
		FlightID:    req.FlightID,
		AgentID:     agent.ID,
		PassengerID: req.PassengerID,
		Seat:        req.Seat,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	status := http.StatusCreated
	if result.AlreadyRegistered {
		status = http.StatusOK
	}
	c.JSON(status, gin.H{
		"boarding_pass":      toPassResponse(result.Pass),
		"already_registered": result.AlreadyRegistered,
	})
}

func (h *CheckinHandler) cancel(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	result, err := h.service.Cancel(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"boarding_pass": toPassResponse(result.Pass),
		"passenger":     result.PassengerName,
	})
}

// dashboard takes the date explicitly (?date=YYYY-MM-DD) and defaults to the
// server's current day.
func (h *CheckinHandler) dashboard(c *gin.Context) {
	agent := agentFrom(c)
	if agent == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no agent in request"})
		return
	}

	day := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, want YYYY-MM-DD"})
			return
		}
		day = parsed
	}

	data, err := h.service.Dashboard(c.Request.Context(), agent, day)
	if err != nil {
		abortWithError(c, err)
		return
	}

	flights := make([]flightResponse, 0, len(data.ActiveFlights))
	for _, f := range data.ActiveFlights {
		flights = append(flights, toFlightResponse(&f))
	}
	recent := make([]passResponse, 0, len(data.RecentCheckins))
	for _, p := range data.RecentCheckins {
		recent = append(recent, toPassResponse(&p))
	}

	c.JSON(http.StatusOK, gin.H{
		"agent":           gin.H{"agent_id": agent.AgentID, "workstation": agent.Workstation},
		"date":            day.Format("2006-01-02"),
		"active_flights":  flights,
		"recent_checkins": recent,
	})
}

func toPassResponse(p *domain.BoardingPass) passResponse {
	return passResponse{
		ID:          p.ID,
		Number:      p.Number,
		PassengerID: p.PassengerID,
		FlightID:    p.FlightID,
		Seat:        p.SeatNumber,
		Gate:        p.Gate,
		CheckInTime: p.CheckInTime.Format(time.RFC3339),
		Status:      string(p.Status),
	}
}
