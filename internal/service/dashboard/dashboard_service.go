package dashboard

import (
	"context"
	"slices"
	"time"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/repository"
	"golang.org/x/sync/errgroup"
)

const (
	recentBookings = 5
	weeklyWindow   = 28 * 24 * time.Hour
)

type DashboardUseCase interface {
	Stats(ctx context.Context) (*domain.DashboardStats, error)
}

type DashboardService struct {
	users    repository.UserRepository
	flights  repository.FlightRepository
	bookings repository.BookingRepository
	stats    repository.StatsRepository
	now      func() time.Time
}

func NewDashboardService(
	users repository.UserRepository,
	flights repository.FlightRepository,
	bookings repository.BookingRepository,
	stats repository.StatsRepository,
) *DashboardService {
	return &DashboardService{users: users, flights: flights, bookings: bookings, stats: stats, now: time.Now}
}

// Stats runs the independent aggregate queries concurrently.
func (s *DashboardService) Stats(ctx context.Context) (*domain.DashboardStats, error) {
	var (
		out    domain.DashboardStats
		window []domain.Booking
	)
	since := s.now().UTC().Add(-weeklyWindow)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.UserCount, err = s.users.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		out.FlightCount, err = s.flights.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		out.BookingCount, err = s.stats.CountBookings(ctx)
		return err
	})
	g.Go(func() (err error) {
		out.TotalRevenueCents, err = s.stats.ConfirmedRevenue(ctx)
		return err
	})
	g.Go(func() (err error) {
		out.BookingsByStatus, err = s.stats.BookingsByStatus(ctx)
		return err
	})
	g.Go(func() (err error) {
		out.RecentBookings, err = s.bookings.Recent(ctx, recentBookings)
		return err
	})
	g.Go(func() (err error) {
		window, err = s.stats.BookingsSince(ctx, since)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out.WeeklyBookings = Weekly(window)
	return &out, nil
}

// Weekly buckets bookings by the Sunday that starts their week, oldest first.
// Revenue sums every booking in the bucket regardless of status.
func Weekly(bookings []domain.Booking) []domain.WeeklyBookings {
	index := make(map[time.Time]int)
	weeks := make([]domain.WeeklyBookings, 0)
	for _, b := range bookings {
		week := domain.WeekStart(b.BookingDate)
		i, ok := index[week]
		if !ok {
			i = len(weeks)
			index[week] = i
			weeks = append(weeks, domain.WeeklyBookings{Week: week})
		}
		weeks[i].Count++
		weeks[i].RevenueCents += b.TotalPriceCents
	}
	slices.SortFunc(weeks, func(a, b domain.WeeklyBookings) int {
		return a.Week.Compare(b.Week)
	})
	return weeks
}

var _ DashboardUseCase = (*DashboardService)(nil)
