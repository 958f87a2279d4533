package domain

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrFlightNotFound  = errors.New("flight not found")
	ErrAirportNotFound = errors.New("airport not found")
	ErrBookingNotFound = errors.New("booking not found")
)

var (
	ErrInvalidBookingStatus = errors.New("invalid booking status")
	ErrBookingNotPending    = errors.New("booking is not pending")
	ErrBookingNotCancelable = errors.New("booking cannot be canceled")
	ErrNotEnoughSeats       = errors.New("not enough available seats")
	ErrSeatTaken            = errors.New("seat is already taken")
	ErrSeatLocked           = errors.New("seat is being booked by another customer")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
)

var (
	ErrEmailTaken         = errors.New("email already in use")
	ErrAirportCodeTaken   = errors.New("airport with this code already exists")
	ErrInvalidAirport     = errors.New("invalid airport id(s)")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWrongPassword      = errors.New("current password is incorrect")
)

var (
	ErrUserHasBookings   = errors.New("cannot delete user with existing bookings")
	ErrFlightHasBookings = errors.New("cannot delete flight with existing bookings")
	ErrAirportHasFlights = errors.New("cannot delete airport that is used in flights")
	ErrValidation        = errors.New("validation error")
	ErrUnauthorized      = errors.New("authentication required")
	ErrForbidden         = errors.New("access denied")
)
