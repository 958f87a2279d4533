package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/kafka"
	"github.com/Domenick1991/flightdesk/internal/repository"
	"github.com/sirupsen/logrus"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, principal domain.Principal, input CreateBookingInput) (*domain.Booking, error)
	ListUserBookings(ctx context.Context, userID int64) ([]domain.Booking, error)
	ListBookings(ctx context.Context) ([]domain.Booking, error)
	GetBooking(ctx context.Context, principal domain.Principal, id int64) (*domain.Booking, error)
	CancelBooking(ctx context.Context, principal domain.Principal, id int64) (*domain.Booking, error)
	UpdateBookingStatus(ctx context.Context, id int64, status string) (*domain.Booking, error)
	Transition(ctx context.Context, id int64, upd repository.StatusUpdate) (*domain.StatusChange, error)
	CompleteArrived(ctx context.Context, now time.Time) (int, error)
}

type Cache interface {
	AcquireSeatLock(ctx context.Context, flightID int64, seat string, ttl time.Duration) (bool, error)
	ReleaseSeatLock(ctx context.Context, flightID int64, seat string) error
	InvalidateFlights(ctx context.Context) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value any) error
}

type BookingService struct {
	bookings           repository.BookingRepository
	cache              Cache
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	holdTTL            time.Duration
	log                logrus.FieldLogger
}

type PassengerInput struct {
	FirstName      string `json:"first_name" binding:"required"`
	LastName       string `json:"last_name" binding:"required"`
	DocumentNumber string `json:"document_number" binding:"required"`
	DateOfBirth    string `json:"date_of_birth" binding:"required"`
	SeatNumber     string `json:"seat_number"`
}

type CreateBookingInput struct {
	FlightID   int64            `json:"flight_id" binding:"required,min=1"`
	Passengers []PassengerInput `json:"passengers" binding:"required,min=1,dive"`
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithLogger(log logrus.FieldLogger) BookingServiceOption {
	return func(s *BookingService) {
		s.log = log
	}
}

// NewBookingService wires the booking workflow. cache and producer may be nil.
func NewBookingService(
	bookings repository.BookingRepository,
	cache Cache,
	producer Producer,
	bookingTopic string,
	holdTTL time.Duration,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:     bookings,
		cache:        cache,
		producer:     producer,
		bookingTopic: bookingTopic,
		holdTTL:      holdTTL,
		log:          logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

const dateLayout = "2006-01-02"

func (input CreateBookingInput) toDomain(userID int64) (*domain.Booking, error) {
	if input.FlightID <= 0 {
		return nil, fmt.Errorf("%w: flight_id is required", domain.ErrValidation)
	}
	if len(input.Passengers) == 0 {
		return nil, fmt.Errorf("%w: at least one passenger is required", domain.ErrValidation)
	}

	booking := &domain.Booking{UserID: userID, FlightID: input.FlightID}
	seen := make(map[string]struct{}, len(input.Passengers))
	for i, p := range input.Passengers {
		if strings.TrimSpace(p.FirstName) == "" || strings.TrimSpace(p.LastName) == "" || strings.TrimSpace(p.DocumentNumber) == "" {
			return nil, fmt.Errorf("%w: passenger %d is missing required fields", domain.ErrValidation, i+1)
		}
		dob, err := time.Parse(dateLayout, p.DateOfBirth)
		if err != nil {
			return nil, fmt.Errorf("%w: passenger %d date_of_birth must be YYYY-MM-DD", domain.ErrValidation, i+1)
		}
		seat := strings.ToUpper(strings.TrimSpace(p.SeatNumber))
		if seat != "" {
			if _, dup := seen[seat]; dup {
				return nil, fmt.Errorf("%w: seat %s requested twice", domain.ErrValidation, seat)
			}
			seen[seat] = struct{}{}
		}
		booking.Passengers = append(booking.Passengers, domain.Passenger{
			FirstName:      strings.TrimSpace(p.FirstName),
			LastName:       strings.TrimSpace(p.LastName),
			DocumentNumber: strings.TrimSpace(p.DocumentNumber),
			DateOfBirth:    dob,
			SeatNumber:     seat,
		})
	}
	return booking, nil
}

func (s *BookingService) CreateBooking(ctx context.Context, principal domain.Principal, input CreateBookingInput) (*domain.Booking, error) {
	booking, err := input.toDomain(principal.UserID)
	if err != nil {
		return nil, err
	}

	release, err := s.lockSeats(ctx, booking)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}
	s.invalidateFlights(ctx)

	created, err := s.bookings.GetByID(ctx, booking.ID)
	if err != nil {
		s.log.WithError(err).WithField("booking_id", booking.ID).Warn("reload created booking")
		created = booking
	}

	email := ""
	if created.User != nil {
		email = created.User.Email
	}
	event := kafka.NewBookingEvent(kafka.EventBookingCreated, *created, "", email, len(booking.Passengers))
	if err := s.publish(ctx, event); err != nil {
		s.log.WithError(err).WithField("booking_id", booking.ID).Warn("failed to publish booking_created event")
	}
	return created, nil
}

// lockSeats takes a short-lived lock on every requested seat so two concurrent
// requests for the same seat cannot both pass the database check.
func (s *BookingService) lockSeats(ctx context.Context, booking *domain.Booking) (func(), error) {
	var held []string
	release := func() {
		for _, seat := range held {
			if err := s.cache.ReleaseSeatLock(ctx, booking.FlightID, seat); err != nil {
				s.log.WithError(err).Warnf("release seat lock %s", seat)
			}
		}
	}
	if s.cache == nil {
		return release, nil
	}

	for _, p := range booking.Passengers {
		if p.SeatNumber == "" {
			continue
		}
		ok, err := s.cache.AcquireSeatLock(ctx, booking.FlightID, p.SeatNumber, s.holdTTL)
		if err != nil {
			release()
			return nil, fmt.Errorf("acquire seat lock: %w", err)
		}
		if !ok {
			release()
			return nil, domain.ErrSeatLocked
		}
		held = append(held, p.SeatNumber)
	}
	return release, nil
}

func (s *BookingService) ListUserBookings(ctx context.Context, userID int64) ([]domain.Booking, error) {
	return s.bookings.ListByUser(ctx, userID)
}

func (s *BookingService) ListBookings(ctx context.Context) ([]domain.Booking, error) {
	return s.bookings.List(ctx)
}

// GetBooking hides bookings of other users behind ErrBookingNotFound.
func (s *BookingService) GetBooking(ctx context.Context, principal domain.Principal, id int64) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !principal.IsAdmin() && booking.UserID != principal.UserID {
		return nil, domain.ErrBookingNotFound
	}
	return booking, nil
}

func (s *BookingService) CancelBooking(ctx context.Context, principal domain.Principal, id int64) (*domain.Booking, error) {
	change, err := s.Transition(ctx, id, repository.StatusUpdate{
		Status: domain.BookingStatusCanceled,
		Guard: func(current domain.Booking) error {
			if current.UserID != principal.UserID {
				return domain.ErrBookingNotFound
			}
			if current.Status != domain.BookingStatusPending && current.Status != domain.BookingStatusConfirmed {
				return domain.ErrBookingNotCancelable
			}
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	return s.reload(ctx, change), nil
}

// UpdateBookingStatus is the administrative status change. Unknown statuses are
// rejected before anything is read or written.
func (s *BookingService) UpdateBookingStatus(ctx context.Context, id int64, status string) (*domain.Booking, error) {
	next, err := domain.ParseBookingStatus(status)
	if err != nil {
		return nil, err
	}
	change, err := s.Transition(ctx, id, repository.StatusUpdate{Status: next})
	if err != nil {
		return nil, err
	}
	return s.reload(ctx, change), nil
}

// Transition commits a status change together with its seat reconciliation and
// then runs the post-commit side effects. Side-effect failures are only logged.
func (s *BookingService) Transition(ctx context.Context, id int64, upd repository.StatusUpdate) (*domain.StatusChange, error) {
	change, err := s.bookings.UpdateStatus(ctx, id, upd)
	if err != nil {
		return nil, err
	}

	entry := s.log.WithFields(logrus.Fields{
		"booking_id": id,
		"from":       change.PreviousStatus,
		"to":         change.Booking.Status,
	})
	if change.SeatsAdjusted {
		entry = entry.WithField("available_seats", change.AvailableSeats)
		s.invalidateFlights(ctx)
	}
	entry.Info("booking status changed")

	email := ""
	if change.Booking.User != nil {
		email = change.Booking.User.Email
	}
	event := kafka.NewBookingEvent(kafka.EventBookingStatusChanged, change.Booking, change.PreviousStatus, email, change.Passengers)
	if err := s.publish(ctx, event); err != nil {
		entry.WithError(err).Warn("failed to publish booking_status_changed event")
	}
	return change, nil
}

var errNoLongerConfirmed = errors.New("booking is no longer confirmed")

// CompleteArrived moves confirmed bookings of flights that have landed to
// Completed and returns how many were moved.
func (s *BookingService) CompleteArrived(ctx context.Context, now time.Time) (int, error) {
	ids, err := s.bookings.ListCompletable(ctx, now)
	if err != nil {
		return 0, err
	}

	completed := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			return completed, ctx.Err()
		}
		_, err := s.Transition(ctx, id, repository.StatusUpdate{
			Status: domain.BookingStatusCompleted,
			Guard: func(current domain.Booking) error {
				if current.Status != domain.BookingStatusConfirmed {
					return errNoLongerConfirmed
				}
				return nil
			},
		})
		switch {
		case err == nil:
			completed++
		case errors.Is(err, errNoLongerConfirmed), errors.Is(err, domain.ErrBookingNotFound):
		default:
			s.log.WithError(err).WithField("booking_id", id).Error("complete booking")
		}
	}
	return completed, nil
}

func (s *BookingService) reload(ctx context.Context, change *domain.StatusChange) *domain.Booking {
	booking, err := s.bookings.GetByID(ctx, change.Booking.ID)
	if err != nil {
		s.log.WithError(err).WithField("booking_id", change.Booking.ID).Warn("reload booking")
		return &change.Booking
	}
	return booking
}

func (s *BookingService) invalidateFlights(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateFlights(ctx); err != nil {
		s.log.WithError(err).Warn("invalidate flights cache")
	}
}

func (s *BookingService) publish(ctx context.Context, event kafka.BookingEvent) error {
	if s.producer == nil || s.bookingTopic == "" {
		return nil
	}
	if err := s.producer.Publish(ctx, s.bookingTopic, event.Key(), event); err != nil {
		return err
	}
	if s.notificationsTopic != "" {
		return s.producer.Publish(ctx, s.notificationsTopic, event.Key(), event)
	}
	return nil
}

var _ BookingUseCase = (*BookingService)(nil)
