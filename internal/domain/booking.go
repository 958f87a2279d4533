package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "Pending"
	BookingStatusConfirmed BookingStatus = "Confirmed"
	BookingStatusCanceled  BookingStatus = "Canceled"
	BookingStatusCompleted BookingStatus = "Completed"
	BookingStatusRefunded  BookingStatus = "Refunded"
)

var BookingStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusConfirmed,
	BookingStatusCanceled,
	BookingStatusCompleted,
	BookingStatusRefunded,
}

// ParseBookingStatus accepts only the exact enumeration values.
func ParseBookingStatus(s string) (BookingStatus, error) {
	for _, st := range BookingStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", ErrInvalidBookingStatus
}

// Active reports whether the booking still holds its seats.
// Canceled and Refunded bookings have returned them to inventory.
func (s BookingStatus) Active() bool {
	return s != BookingStatusCanceled && s != BookingStatusRefunded
}

// ReconcileSeats returns the flight's available seat count after a booking with
// the given number of passengers moves from one status to another. The second
// result is false when the transition does not cross the active/inactive
// boundary and the flight row should be left alone.
func ReconcileSeats(from, to BookingStatus, available, passengers int) (int, bool) {
	switch {
	case from.Active() && !to.Active():
		return available + passengers, true
	case !from.Active() && to.Active():
		return max(0, available-passengers), true
	default:
		return available, false
	}
}

type Booking struct {
	ID              int64         `json:"id"`
	UserID          int64         `json:"user_id"`
	FlightID        int64         `json:"flight_id"`
	Status          BookingStatus `json:"status"`
	TotalPriceCents int64         `json:"total_price_cents"`
	BookingDate     time.Time     `json:"booking_date"`

	User       *UserSummary `json:"user,omitempty"`
	Flight     *Flight      `json:"flight,omitempty"`
	Passengers []Passenger  `json:"passengers,omitempty"`
	Payments   []Payment    `json:"payments,omitempty"`
}

type Passenger struct {
	ID             int64     `json:"id"`
	BookingID      int64     `json:"booking_id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	DocumentNumber string    `json:"document_number"`
	DateOfBirth    time.Time `json:"date_of_birth"`
	SeatNumber     string    `json:"seat_number"`
}

// StatusChange is the outcome of a committed status update.
type StatusChange struct {
	Booking        Booking
	PreviousStatus BookingStatus
	Passengers     int
	AvailableSeats int
	SeatsAdjusted  bool
}
