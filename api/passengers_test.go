package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aerodesk/aircheckin/internal/domain"
	"github.com/aerodesk/aircheckin/internal/service/checkin"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestPassengerHandler_search(t *testing.T) {
	mockService := &MockCheckInUseCase{}
	handler := NewPassengerHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/v1/passengers?search=petrova", nil)

	summaries := []checkin.PassengerSummary{
		{
			Passenger:  domain.Passenger{ID: 3, FirstName: "Anna", LastName: "Petrova", PassportNumber: "4509123456"},
			Passes:     []domain.BoardingPass{*samplePass()},
			Registered: true,
		},
		{
			Passenger: domain.Passenger{ID: 4, FirstName: "Pavel", LastName: "Petrov"},
		},
	}
	mockService.On("SearchPassengers", c.Request.Context(), "petrova").Return(summaries, nil)

	handler.search(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response []struct {
		FirstName    string `json:"first_name"`
		IsRegistered bool   `json:"is_registered"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response, 2)
	assert.True(t, response[0].IsRegistered)
	assert.False(t, response[1].IsRegistered)

	mockService.AssertExpectations(t)
}
