package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileSeats(t *testing.T) {
	testCases := []struct {
		name       string
		from, to   BookingStatus
		available  int
		passengers int
		want       int
		adjusted   bool
	}{
		{"confirmed to canceled returns seats", BookingStatusConfirmed, BookingStatusCanceled, 10, 3, 13, true},
		{"pending to refunded returns seats", BookingStatusPending, BookingStatusRefunded, 0, 2, 2, true},
		{"canceled to confirmed takes seats", BookingStatusCanceled, BookingStatusConfirmed, 13, 3, 10, true},
		{"refunded to pending floors at zero", BookingStatusRefunded, BookingStatusPending, 1, 3, 0, true},
		{"confirmed to completed keeps seats", BookingStatusConfirmed, BookingStatusCompleted, 10, 3, 10, false},
		{"pending to confirmed keeps seats", BookingStatusPending, BookingStatusConfirmed, 7, 2, 7, false},
		{"canceled to refunded keeps seats", BookingStatusCanceled, BookingStatusRefunded, 5, 4, 5, false},
		{"same status keeps seats", BookingStatusCanceled, BookingStatusCanceled, 5, 4, 5, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, adjusted := ReconcileSeats(tc.from, tc.to, tc.available, tc.passengers)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.adjusted, adjusted)
		})
	}
}

func TestReconcileSeats_RoundTrip(t *testing.T) {
	for _, available := range []int{0, 1, 10, 250} {
		canceled, _ := ReconcileSeats(BookingStatusConfirmed, BookingStatusCanceled, available, 3)
		back, _ := ReconcileSeats(BookingStatusCanceled, BookingStatusConfirmed, canceled, 3)
		assert.Equal(t, available, back)
	}
}

func TestParseBookingStatus(t *testing.T) {
	for _, st := range BookingStatuses {
		got, err := ParseBookingStatus(string(st))
		require.NoError(t, err)
		assert.Equal(t, st, got)
	}

	for _, raw := range []string{"Archived", "", "confirmed", "CANCELED", "  Canceled\n", "Confirmed "} {
		_, err := ParseBookingStatus(raw)
		assert.ErrorIs(t, err, ErrInvalidBookingStatus, raw)
	}
}

func TestBookingStatus_Active(t *testing.T) {
	assert.True(t, BookingStatusPending.Active())
	assert.True(t, BookingStatusConfirmed.Active())
	assert.True(t, BookingStatusCompleted.Active())
	assert.False(t, BookingStatusCanceled.Active())
	assert.False(t, BookingStatusRefunded.Active())
}

func TestWeekStart(t *testing.T) {
	// 2026-03-04 is a Wednesday
	wed := time.Date(2026, 3, 4, 15, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), WeekStart(wed))

	sunday := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, sunday, WeekStart(sunday))

	// late Saturday in UTC+3 is still Saturday in UTC
	msk := time.FixedZone("MSK", 3*60*60)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), WeekStart(time.Date(2026, 3, 8, 2, 0, 0, 0, msk)))
}

func TestPaymentMethod_Valid(t *testing.T) {
	assert.True(t, PaymentMethodCreditCard.Valid())
	assert.True(t, PaymentMethodBankTransfer.Valid())
	assert.True(t, PaymentMethodQRCode.Valid())
	assert.False(t, PaymentMethod("cash").Valid())
}

func TestUser_Role(t *testing.T) {
	assert.Equal(t, RoleAdmin, User{IsAdmin: true}.Role())
	assert.Equal(t, RoleUser, User{}.Role())
	assert.True(t, Principal{Role: RoleAdmin}.IsAdmin())
}
