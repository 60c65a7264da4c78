package service

import (
	"context"
	"time"

	"carbook-backend/internal/domain"
	"carbook-backend/internal/repository"
)

const (
	topCarsLimit   = 5
	trendWindow    = 7
	trendDayFormat = "2006-01-02"
)

type statsService struct {
	statsRepo repository.StatsRepository
	now       func() time.Time
}

func NewStatsService(statsRepo repository.StatsRepository) StatsService {
	return &statsService{statsRepo: statsRepo, now: time.Now}
}

// GetDashboardStats derives the dashboard numbers from the ledger. All
// windows are midnight-aligned in server-local time; the trend always has
// exactly trendWindow entries, zero-filled, oldest first.
func (s *statsService) GetDashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	now := s.now()
	today := domain.StartOfDay(now)
	tomorrow := today.AddDate(0, 0, 1)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local)
	nextMonth := monthStart.AddDate(0, 1, 0)

	dailyCount, dailyRevenue, err := s.statsRepo.CountAndRevenue(ctx, today, tomorrow)
	if err != nil {
		return nil, err
	}
	monthlyCount, monthlyRevenue, err := s.statsRepo.CountAndRevenue(ctx, monthStart, nextMonth)
	if err != nil {
		return nil, err
	}

	topCars, err := s.statsRepo.TopCars(ctx, topCarsLimit)
	if err != nil {
		return nil, err
	}
	if topCars == nil {
		topCars = []domain.TopCar{}
	}

	windowStart := today.AddDate(0, 0, -(trendWindow - 1))
	counts, err := s.statsRepo.CreationCountsByDay(ctx, windowStart, tomorrow)
	if err != nil {
		return nil, err
	}

	trends := make([]domain.TrendPoint, 0, trendWindow)
	for i := 0; i < trendWindow; i++ {
		day := windowStart.AddDate(0, 0, i).Format(trendDayFormat)
		trends = append(trends, domain.TrendPoint{Date: day, Count: counts[day]})
	}

	return &domain.DashboardStats{
		DailyBookings:       dailyCount,
		DailyRevenueCents:   dailyRevenue,
		MonthlyBookings:     monthlyCount,
		MonthlyRevenueCents: monthlyRevenue,
		TopCars:             topCars,
		BookingTrends:       trends,
	}, nil
}
