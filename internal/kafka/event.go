package kafka

import (
	"strconv"
	"time"

	"github.com/Domenick1991/flightdesk/internal/domain"
)

const (
	EventBookingCreated       = "booking_created"
	EventBookingStatusChanged = "booking_status_changed"
)

type BookingEvent struct {
	Type            string    `json:"type"`
	BookingID       int64     `json:"booking_id"`
	UserID          int64     `json:"user_id"`
	Email           string    `json:"email"`
	FlightID        int64     `json:"flight_id"`
	Status          string    `json:"status"`
	PreviousStatus  string    `json:"previous_status,omitempty"`
	Passengers      int       `json:"passengers"`
	TotalPriceCents int64     `json:"total_price_cents"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// NewBookingEvent builds an event from a booking; previous is empty for creations.
func NewBookingEvent(eventType string, b domain.Booking, previous domain.BookingStatus, email string, passengers int) BookingEvent {
	return BookingEvent{
		Type:            eventType,
		BookingID:       b.ID,
		UserID:          b.UserID,
		Email:           email,
		FlightID:        b.FlightID,
		Status:          string(b.Status),
		PreviousStatus:  string(previous),
		Passengers:      passengers,
		TotalPriceCents: b.TotalPriceCents,
		OccurredAt:      time.Now().UTC(),
	}
}

// Key partitions events by booking so one booking's history stays ordered.
func (e BookingEvent) Key() string {
	return strconv.FormatInt(e.BookingID, 10)
}
