package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/flightdesk/api"
	"github.com/Domenick1991/flightdesk/config"
	"github.com/Domenick1991/flightdesk/internal/auth"
	"github.com/Domenick1991/flightdesk/internal/bootstrap"
	"github.com/Domenick1991/flightdesk/internal/cache"
	"github.com/Domenick1991/flightdesk/internal/kafka"
	"github.com/Domenick1991/flightdesk/internal/middleware"
	"github.com/Domenick1991/flightdesk/internal/repository"
	"github.com/Domenick1991/flightdesk/internal/service/airports"
	"github.com/Domenick1991/flightdesk/internal/service/booking"
	"github.com/Domenick1991/flightdesk/internal/service/dashboard"
	"github.com/Domenick1991/flightdesk/internal/service/flights"
	"github.com/Domenick1991/flightdesk/internal/service/payment"
	"github.com/Domenick1991/flightdesk/internal/service/users"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("no .env file found, using process environment")
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	log := bootstrap.ConfigureLogger(cfg.Log)
	gin.SetMode(cfg.HTTP.Mode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := connectPostgres(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	if cfg.Database.RunMigrations {
		if err := repository.Migrate(ctx, pool); err != nil {
			log.Fatalf("migrate: %v", err)
		}
	}

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.FlightsCacheTTL)*time.Second)
	defer redisCache.Close()
	if err := redisCache.Ping(ctx); err != nil {
		log.WithError(err).Warn("redis unavailable, continuing without warm cache")
	}

	var publisher booking.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		producer := kafka.NewProducer(cfg.Kafka.Brokers)
		defer producer.Close()
		if err := producer.CheckConnection(ctx); err != nil {
			log.WithError(err).Warn("kafka unavailable, events will be retried per publish")
		}
		publisher = kafka.Retrying{Producer: producer, Attempts: cfg.Worker.PublishRetries}
	}

	userRepo := repository.NewUserRepository(pool)
	airportRepo := repository.NewAirportRepository(pool)
	flightRepo := repository.NewFlightRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)
	statsRepo := repository.NewStatsRepository(pool)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	hasher := auth.NewPasswordHasher(cfg.Auth.BcryptCost)

	bookingService := booking.NewBookingService(
		bookingRepo,
		redisCache,
		publisher,
		cfg.Kafka.BookingTopic,
		time.Duration(cfg.Booking.SeatLockSeconds)*time.Second,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithLogger(log),
	)
	userService := users.NewUserService(userRepo, bookingRepo, tokens, hasher)
	flightService := flights.NewFlightService(flightRepo, airportRepo, redisCache, log)
	airportService := airports.NewAirportService(airportRepo)
	paymentService := payment.NewPaymentService(bookingService, paymentRepo)
	dashboardService := dashboard.NewDashboardService(userRepo, flightRepo, bookingRepo, statsRepo)

	router := api.NewRouter(api.Handlers{
		Auth:      api.NewAuthHandler(userService),
		Flights:   api.NewFlightHandler(flightService),
		Bookings:  api.NewBookingHandler(bookingService),
		Payments:  api.NewPaymentHandler(paymentService),
		Users:     api.NewUserHandler(userService),
		Airports:  api.NewAirportHandler(airportService),
		Dashboard: api.NewDashboardHandler(dashboardService),
	},
		tokens,
		middleware.NewRateLimiter(cfg.Auth.LoginRatePerMin, cfg.Auth.LoginRateBurst),
		log,
		func(c *gin.Context) error {
			if err := pool.Ping(c.Request.Context()); err != nil {
				return fmt.Errorf("postgres: %w", err)
			}
			if err := redisCache.Ping(c.Request.Context()); err != nil {
				return fmt.Errorf("redis: %w", err)
			}
			return nil
		},
	)

	if err := bootstrap.Run(ctx, cfg.HTTP, bootstrap.NewHandler(cfg.HTTP, router)); err != nil {
		log.Fatalf("server error: %v", err)
	}
	log.Info("server stopped")
}

func connectPostgres(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
