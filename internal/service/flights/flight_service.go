package flights

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/repository"
	"github.com/sirupsen/logrus"
)

type FlightUseCase interface {
	List(ctx context.Context) ([]domain.Flight, error)
	Search(ctx context.Context, q domain.FlightSearch) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	Create(ctx context.Context, input FlightInput) (*domain.Flight, error)
	Update(ctx context.Context, id int64, input FlightInput) (*domain.Flight, error)
	Delete(ctx context.Context, id int64) error
}

type FlightCache interface {
	GetFlights(ctx context.Context) ([]domain.Flight, error)
	SetFlights(ctx context.Context, flights []domain.Flight) error
	InvalidateFlights(ctx context.Context) error
}

type FlightService struct {
	repo     repository.FlightRepository
	airports repository.AirportRepository
	cache    FlightCache
	log      logrus.FieldLogger
}

type FlightInput struct {
	Airline            string    `json:"airline" binding:"required"`
	FlightNumber       string    `json:"flight_number" binding:"required"`
	DepartureAirportID int64     `json:"departure_airport_id" binding:"required,min=1"`
	ArrivalAirportID   int64     `json:"arrival_airport_id" binding:"required,min=1"`
	DepartureTime      time.Time `json:"departure_time" binding:"required"`
	ArrivalTime        time.Time `json:"arrival_time" binding:"required"`
	PriceCents         int64     `json:"price_cents" binding:"min=0"`
	AvailableSeats     int       `json:"available_seats" binding:"min=0"`
}

// NewFlightService builds the flight catalogue service. cache may be nil.
func NewFlightService(repo repository.FlightRepository, airports repository.AirportRepository, cache FlightCache, log logrus.FieldLogger) *FlightService {
	return &FlightService{repo: repo, airports: airports, cache: cache, log: log}
}

// List serves the full catalogue from the cache when possible. Cache errors
// degrade to a database read.
func (s *FlightService) List(ctx context.Context) ([]domain.Flight, error) {
	if s.cache != nil {
		cached, err := s.cache.GetFlights(ctx)
		if err != nil {
			s.log.WithError(err).Warn("read flights cache")
		} else if cached != nil {
			return cached, nil
		}
	}

	flights, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetFlights(ctx, flights); err != nil {
			s.log.WithError(err).Warn("write flights cache")
		}
	}
	return flights, nil
}

func (s *FlightService) Search(ctx context.Context, q domain.FlightSearch) ([]domain.Flight, error) {
	if q.Passengers < 1 {
		q.Passengers = 1
	}
	q.From = strings.TrimSpace(q.From)
	q.To = strings.TrimSpace(q.To)
	return s.repo.Search(ctx, q)
}

func (s *FlightService) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *FlightService) Create(ctx context.Context, input FlightInput) (*domain.Flight, error) {
	flight, err := s.validate(ctx, input)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, flight); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return s.repo.GetByID(ctx, flight.ID)
}

func (s *FlightService) Update(ctx context.Context, id int64, input FlightInput) (*domain.Flight, error) {
	flight, err := s.validate(ctx, input)
	if err != nil {
		return nil, err
	}
	flight.ID = id
	if err := s.repo.Update(ctx, flight); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return s.repo.GetByID(ctx, id)
}

func (s *FlightService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *FlightService) validate(ctx context.Context, input FlightInput) (*domain.Flight, error) {
	if strings.TrimSpace(input.Airline) == "" || strings.TrimSpace(input.FlightNumber) == "" {
		return nil, fmt.Errorf("%w: airline and flight_number are required", domain.ErrValidation)
	}
	if input.DepartureAirportID == input.ArrivalAirportID {
		return nil, fmt.Errorf("%w: departure and arrival airports must differ", domain.ErrValidation)
	}
	if !input.ArrivalTime.After(input.DepartureTime) {
		return nil, fmt.Errorf("%w: arrival_time must be after departure_time", domain.ErrValidation)
	}
	if input.PriceCents < 0 || input.AvailableSeats < 0 {
		return nil, fmt.Errorf("%w: price and seats must not be negative", domain.ErrValidation)
	}
	for _, id := range []int64{input.DepartureAirportID, input.ArrivalAirportID} {
		if _, err := s.airports.GetByID(ctx, id); err != nil {
			if errors.Is(err, domain.ErrAirportNotFound) {
				return nil, domain.ErrInvalidAirport
			}
			return nil, err
		}
	}

	return &domain.Flight{
		Airline:            strings.TrimSpace(input.Airline),
		FlightNumber:       strings.TrimSpace(input.FlightNumber),
		DepartureAirportID: input.DepartureAirportID,
		ArrivalAirportID:   input.ArrivalAirportID,
		DepartureTime:      input.DepartureTime.UTC(),
		ArrivalTime:        input.ArrivalTime.UTC(),
		PriceCents:         input.PriceCents,
		AvailableSeats:     input.AvailableSeats,
	}, nil
}

func (s *FlightService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateFlights(ctx); err != nil {
		s.log.WithError(err).Warn("invalidate flights cache")
	}
}

var _ FlightUseCase = (*FlightService)(nil)
