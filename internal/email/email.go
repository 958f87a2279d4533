package email

import (
	"context"
	"fmt"

	"github.com/Domenick1991/flightdesk/internal/kafka"
	"github.com/sirupsen/logrus"
)

// Sender turns booking events into customer notifications. Delivery is a log line.
type Sender struct {
	log logrus.FieldLogger
}

func NewSender(log logrus.FieldLogger) *Sender {
	return &Sender{log: log}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	if event.Email == "" {
		s.log.WithField("booking_id", event.BookingID).Warn("booking event without recipient, skipped")
		return nil
	}
	s.log.WithFields(logrus.Fields{
		"to":         event.Email,
		"booking_id": event.BookingID,
		"type":       event.Type,
	}).Info(Subject(event))
	return nil
}

func Subject(event kafka.BookingEvent) string {
	switch event.Type {
	case kafka.EventBookingCreated:
		return fmt.Sprintf("Booking #%d received for flight %d", event.BookingID, event.FlightID)
	case kafka.EventBookingStatusChanged:
		return fmt.Sprintf("Booking #%d is now %s", event.BookingID, event.Status)
	default:
		return fmt.Sprintf("Booking #%d update", event.BookingID)
	}
}
