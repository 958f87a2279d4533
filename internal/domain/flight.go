package domain

import "time"

type Airport struct {
	ID          int64  `json:"id"`
	AirportCode string `json:"airport_code"`
	AirportName string `json:"airport_name"`
	City        string `json:"city"`
	Country     string `json:"country"`

	DepartureFlights int `json:"departure_flights,omitempty"`
	ArrivalFlights   int `json:"arrival_flights,omitempty"`
}

type Flight struct {
	ID                 int64     `json:"id"`
	Airline            string    `json:"airline"`
	FlightNumber       string    `json:"flight_number"`
	DepartureAirportID int64     `json:"departure_airport_id"`
	ArrivalAirportID   int64     `json:"arrival_airport_id"`
	DepartureTime      time.Time `json:"departure_time"`
	ArrivalTime        time.Time `json:"arrival_time"`
	PriceCents         int64     `json:"price_cents"`
	AvailableSeats     int       `json:"available_seats"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	DepartureAirport *Airport `json:"departure_airport,omitempty"`
	ArrivalAirport   *Airport `json:"arrival_airport,omitempty"`
	BookingCount     int      `json:"booking_count,omitempty"`
}

type FlightSearch struct {
	From       string
	To         string
	Date       *time.Time
	Passengers int
}
