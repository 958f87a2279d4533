package domain

import "time"

type StatusCount struct {
	Status BookingStatus `json:"status"`
	Count  int           `json:"count"`
}

type WeeklyBookings struct {
	Week         time.Time `json:"week"`
	Count        int       `json:"count"`
	RevenueCents int64     `json:"revenue_cents"`
}

type DashboardStats struct {
	UserCount         int              `json:"user_count"`
	FlightCount       int              `json:"flight_count"`
	BookingCount      int              `json:"booking_count"`
	TotalRevenueCents int64            `json:"total_revenue_cents"`
	BookingsByStatus  []StatusCount    `json:"bookings_by_status"`
	RecentBookings    []Booking        `json:"recent_bookings"`
	WeeklyBookings    []WeeklyBookings `json:"weekly_bookings"`
}

// WeekStart truncates t to midnight UTC of the preceding Sunday.
func WeekStart(t time.Time) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -int(day.Weekday()))
}
