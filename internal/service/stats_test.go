package service

import (
	"context"
	"testing"
	"time"

	"carbook-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func newTestStatsService(repo *MockStatsRepo, now time.Time) *statsService {
	svc := NewStatsService(repo).(*statsService)
	svc.now = func() time.Time { return now }
	return svc
}

func TestStatsService_GetDashboardStats(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 14, 30, 0, 0, time.Local)
	today := time.Date(2025, 6, 15, 0, 0, 0, 0, time.Local)
	tomorrow := today.AddDate(0, 0, 1)
	monthStart := time.Date(2025, 6, 1, 0, 0, 0, 0, time.Local)
	nextMonth := time.Date(2025, 7, 1, 0, 0, 0, 0, time.Local)
	windowStart := today.AddDate(0, 0, -6)

	t.Run("Aggregates and zero-filled trend", func(t *testing.T) {
		repo := new(MockStatsRepo)
		svc := newTestStatsService(repo, now)

		// Three bookings created today with advances 500, 0, 1000 (in cents).
		repo.On("CountAndRevenue", ctx, today, tomorrow).Return(int32(3), int64(1500), nil)
		repo.On("CountAndRevenue", ctx, monthStart, nextMonth).Return(int32(20), int64(84000), nil)
		repo.On("TopCars", ctx, int32(5)).Return([]domain.TopCar{
			{CarID: 2, Name: "Swift", Bookings: 9},
			{CarID: 5, Name: "Creta", Bookings: 4},
		}, nil)
		repo.On("CreationCountsByDay", ctx, windowStart, tomorrow).Return(map[string]int32{
			"2025-06-12": 2,
			"2025-06-15": 3,
		}, nil)

		stats, err := svc.GetDashboardStats(ctx)
		assert.NoError(t, err)
		assert.Equal(t, int32(3), stats.DailyBookings)
		assert.Equal(t, int64(1500), stats.DailyRevenueCents)
		assert.Equal(t, int32(20), stats.MonthlyBookings)
		assert.Equal(t, int64(84000), stats.MonthlyRevenueCents)
		assert.Len(t, stats.TopCars, 2)

		assert.Len(t, stats.BookingTrends, 7)
		assert.Equal(t, "2025-06-09", stats.BookingTrends[0].Date)
		assert.Equal(t, "2025-06-15", stats.BookingTrends[6].Date)
		assert.Equal(t, int32(0), stats.BookingTrends[0].Count)
		assert.Equal(t, int32(2), stats.BookingTrends[3].Count)
		assert.Equal(t, int32(3), stats.BookingTrends[6].Count)
	})

	t.Run("Empty ledger still yields seven trend entries", func(t *testing.T) {
		repo := new(MockStatsRepo)
		svc := newTestStatsService(repo, now)

		repo.On("CountAndRevenue", ctx, today, tomorrow).Return(int32(0), int64(0), nil)
		repo.On("CountAndRevenue", ctx, monthStart, nextMonth).Return(int32(0), int64(0), nil)
		repo.On("TopCars", ctx, int32(5)).Return([]domain.TopCar(nil), nil)
		repo.On("CreationCountsByDay", ctx, windowStart, tomorrow).Return(map[string]int32{}, nil)

		stats, err := svc.GetDashboardStats(ctx)
		assert.NoError(t, err)
		assert.NotNil(t, stats.TopCars)
		assert.Empty(t, stats.TopCars)
		assert.Len(t, stats.BookingTrends, 7)
		for _, point := range stats.BookingTrends {
			assert.Equal(t, int32(0), point.Count)
		}
	})
}
