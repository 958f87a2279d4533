package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var (
	badRequest = []error{
		domain.ErrValidation,
		domain.ErrInvalidBookingStatus,
		domain.ErrBookingNotPending,
		domain.ErrBookingNotCancelable,
		domain.ErrNotEnoughSeats,
		domain.ErrSeatTaken,
		domain.ErrInvalidPaymentMethod,
		domain.ErrEmailTaken,
		domain.ErrAirportCodeTaken,
		domain.ErrInvalidAirport,
		domain.ErrWrongPassword,
		domain.ErrUserHasBookings,
		domain.ErrFlightHasBookings,
		domain.ErrAirportHasFlights,
	}
	notFound = []error{
		domain.ErrUserNotFound,
		domain.ErrFlightNotFound,
		domain.ErrAirportNotFound,
		domain.ErrBookingNotFound,
	}
)

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	for _, target := range badRequest {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}
	for _, target := range notFound {
		if errors.Is(err, target) {
			return http.StatusNotFound
		}
	}
	switch {
	case errors.Is(err, domain.ErrSeatLocked):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logrus.WithFields(logrus.Fields{
			"request_id": c.GetString(middleware.RequestIDKey),
			"path":       c.FullPath(),
		}).WithError(err).Error("unhandled error")
		c.AbortWithStatusJSON(status, gin.H{"message": "internal server error"})
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"message": err.Error()})
}

func respondBadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": message})
}

// bindJSON reports binding failures as 400 and returns false.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondBadRequest(c, "invalid request: "+err.Error())
		return false
	}
	return true
}

func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondBadRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}

// principal is set by middleware.Authenticate on every protected route.
func principal(c *gin.Context) (domain.Principal, bool) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "authentication required"})
	}
	return p, ok
}
