package api

import (
	"net/http"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Handlers struct {
	Auth      *AuthHandler
	Flights   *FlightHandler
	Bookings  *BookingHandler
	Payments  *PaymentHandler
	Users     *UserHandler
	Airports  *AirportHandler
	Dashboard *DashboardHandler
}

// HealthCheck reports an error when a backing store is unreachable.
type HealthCheck func(*gin.Context) error

// NewRouter mounts every REST route under /api. Admin routes share one group
// guarded by the admin role taken from the token.
func NewRouter(h Handlers, tokens middleware.TokenParser, limiter *middleware.RateLimiter, log logrus.FieldLogger, health HealthCheck) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(log), middleware.Recovery(log))

	r.GET("/health", func(c *gin.Context) {
		if health != nil {
			if err := health(c); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "message": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authenticate := middleware.Authenticate(tokens)
	api := r.Group("/api")

	authGroup := api.Group("/auth")
	if limiter != nil {
		authGroup.Use(limiter.Limit())
	}
	h.Auth.Register(authGroup, authenticate)

	h.Flights.Register(api.Group("/flights"))
	h.Bookings.Register(api.Group("/bookings", authenticate))
	h.Payments.Register(api.Group("/payments", authenticate))
	h.Users.Register(api.Group("/users", authenticate))

	admin := api.Group("/admin", authenticate, middleware.RequireRole(domain.RoleAdmin))
	h.Dashboard.RegisterAdmin(admin)
	h.Users.RegisterAdmin(admin.Group("/users"))
	h.Flights.RegisterAdmin(admin.Group("/flights"))
	h.Airports.RegisterAdmin(admin.Group("/airports"))
	h.Bookings.RegisterAdmin(admin.Group("/bookings"))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "route not found"})
	})
	return r
}
