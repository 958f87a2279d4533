package payment

import (
	"context"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/repository"
	"github.com/google/uuid"
)

type PaymentUseCase interface {
	ProcessPayment(ctx context.Context, principal domain.Principal, input ProcessPaymentInput) (*domain.Payment, error)
	ListByBooking(ctx context.Context, principal domain.Principal, bookingID int64) ([]domain.Payment, error)
}

// Bookings is the slice of the booking workflow payments depend on.
type Bookings interface {
	GetBooking(ctx context.Context, principal domain.Principal, id int64) (*domain.Booking, error)
	Transition(ctx context.Context, id int64, upd repository.StatusUpdate) (*domain.StatusChange, error)
}

type ProcessPaymentInput struct {
	BookingID int64  `json:"booking_id" binding:"required,min=1"`
	Method    string `json:"payment_method" binding:"required"`
}

type PaymentService struct {
	bookings Bookings
	payments repository.PaymentRepository
	newTxID  func() string
}

func NewPaymentService(bookings Bookings, payments repository.PaymentRepository) *PaymentService {
	return &PaymentService{bookings: bookings, payments: payments, newTxID: uuid.NewString}
}

// ProcessPayment simulates a successful charge: the payment row and the
// Pending to Confirmed transition are committed together.
func (s *PaymentService) ProcessPayment(ctx context.Context, principal domain.Principal, input ProcessPaymentInput) (*domain.Payment, error) {
	method := domain.PaymentMethod(input.Method)
	if !method.Valid() {
		return nil, domain.ErrInvalidPaymentMethod
	}

	payment := &domain.Payment{
		Method:        method,
		Status:        domain.PaymentStatusCompleted,
		TransactionID: s.newTxID(),
	}
	_, err := s.bookings.Transition(ctx, input.BookingID, repository.StatusUpdate{
		Status:  domain.BookingStatusConfirmed,
		Payment: payment,
		Guard: func(current domain.Booking) error {
			if current.UserID != principal.UserID {
				return domain.ErrBookingNotFound
			}
			if current.Status != domain.BookingStatusPending {
				return domain.ErrBookingNotPending
			}
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *PaymentService) ListByBooking(ctx context.Context, principal domain.Principal, bookingID int64) ([]domain.Payment, error) {
	if _, err := s.bookings.GetBooking(ctx, principal, bookingID); err != nil {
		return nil, err
	}
	return s.payments.ListByBooking(ctx, bookingID)
}

var _ PaymentUseCase = (*PaymentService)(nil)
