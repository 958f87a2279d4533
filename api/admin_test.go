package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/service/airports"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestAirportHandler_create(t *testing.T) {
	input := airports.AirportInput{AirportCode: "LED", AirportName: "Pulkovo", City: "Saint Petersburg", Country: "Russia"}

	t.Run("created", func(t *testing.T) {
		mockService := &MockAirportUseCase{}
		handler := NewAirportHandler(mockService)
		mockService.On("Create", mock.Anything, input).Return(&domain.Airport{ID: 3, AirportCode: "LED"}, nil)

		c, w := newTestContext(http.MethodPost, "/api/admin/airports", input)
		handler.create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("duplicate code", func(t *testing.T) {
		mockService := &MockAirportUseCase{}
		handler := NewAirportHandler(mockService)
		mockService.On("Create", mock.Anything, input).Return(nil, domain.ErrAirportCodeTaken)

		c, w := newTestContext(http.MethodPost, "/api/admin/airports", input)
		handler.create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"message":"airport with this code already exists"}`, w.Body.String())
	})

	t.Run("missing fields", func(t *testing.T) {
		mockService := &MockAirportUseCase{}
		handler := NewAirportHandler(mockService)

		c, w := newTestContext(http.MethodPost, "/api/admin/airports", gin.H{"airport_code": "LED"})
		handler.create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestAirportHandler_delete(t *testing.T) {
	mockService := &MockAirportUseCase{}
	handler := NewAirportHandler(mockService)
	mockService.On("Delete", mock.Anything, int64(1)).Return(domain.ErrAirportHasFlights)

	c, w := newTestContext(http.MethodDelete, "/api/admin/airports/1", nil)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	handler.delete(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"cannot delete airport that is used in flights"}`, w.Body.String())
}

func TestAirportHandler_update_NotFound(t *testing.T) {
	mockService := &MockAirportUseCase{}
	handler := NewAirportHandler(mockService)
	input := airports.AirportInput{AirportCode: "LED", AirportName: "Pulkovo", City: "Saint Petersburg", Country: "Russia"}
	mockService.On("Update", mock.Anything, int64(99), input).Return(nil, domain.ErrAirportNotFound)

	c, w := newTestContext(http.MethodPut, "/api/admin/airports/99", input)
	c.Params = gin.Params{{Key: "id", Value: "99"}}
	handler.update(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDashboardHandler_stats(t *testing.T) {
	mockService := &MockDashboardUseCase{}
	handler := NewDashboardHandler(mockService)
	mockService.On("Stats", mock.Anything).Return(nil, errors.New("connection reset")).Once()
	mockService.On("Stats", mock.Anything).Return(&domain.DashboardStats{BookingCount: 4, TotalRevenueCents: 90000}, nil)

	c, w := newTestContext(http.MethodGet, "/api/admin/dashboard", nil)
	handler.stats(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"internal server error"}`, w.Body.String())

	c, w = newTestContext(http.MethodGet, "/api/admin/dashboard", nil)
	handler.stats(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total_revenue_cents":90000`)
}
