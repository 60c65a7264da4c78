package repository

import (
	"context"
	"time"

	"carbook-backend/internal/domain"
)

type CarRepository interface {
	Create(ctx context.Context, car *domain.Car) error
	GetByID(ctx context.Context, id int32) (*domain.Car, error)
	List(ctx context.Context, activeOnly bool) ([]domain.Car, error)
	Update(ctx context.Context, car *domain.Car) error
	// AdjustStock changes stock by delta in a single statement, floored at 0.
	AdjustStock(ctx context.Context, id int32, delta int32) error
	SetBooked(ctx context.Context, id int32, booked bool) error
}

type BookingRepository interface {
	// Create inserts the booking and fills in its internal id. A violation of
	// the live-overlap exclusion constraint comes back as domain.ErrDateConflict.
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int32) (*domain.Booking, error)
	GetByReference(ctx context.Context, ref string) (*domain.Booking, error)
	// Update persists all mutable fields; date changes that collide with
	// another live booking come back as domain.ErrDateConflict.
	Update(ctx context.Context, b *domain.Booking) error
	Delete(ctx context.Context, id int32) error
	List(ctx context.Context, status string, page, pageSize int32) ([]domain.Booking, int32, error)
	// CountOverlapping counts live bookings for the car whose ranges overlap
	// [start, end) under the half-open rule, excluding excludeID when non-zero.
	CountOverlapping(ctx context.Context, carID int32, start, end time.Time, excludeID int32) (int32, error)
	// HasConfirmedCovering reports whether a confirmed booking for the car
	// covers the given day (inclusive range), excluding excludeID when non-zero.
	HasConfirmedCovering(ctx context.Context, carID int32, day time.Time, excludeID int32) (bool, error)
}

type StatsRepository interface {
	// CountAndRevenue returns the number of bookings created in [from, to)
	// and the sum of their advance payments, any status.
	CountAndRevenue(ctx context.Context, from, to time.Time) (int32, int64, error)
	// TopCars ranks cars by confirmed+completed booking count, descending.
	TopCars(ctx context.Context, limit int32) ([]domain.TopCar, error)
	// CreationCountsByDay groups bookings created in [from, to) by calendar
	// day, keyed "2006-01-02". Days with no bookings are absent.
	CreationCountsByDay(ctx context.Context, from, to time.Time) (map[string]int32, error)
}
