package service

import (
	"context"
	"time"

	"carbook-backend/internal/domain"
)

// CreateBookingInput carries everything CreateBooking needs. TotalDays is
// derived, never supplied by callers.
type CreateBookingInput struct {
	CarID               int32
	CustomerID          *int32
	CustomerName        string
	CustomerEmail       string
	CustomerPhone       string
	StartDate           time.Time
	EndDate             time.Time
	TotalPriceCents     int32
	AdvancePaymentCents int32
	PaymentMethod       domain.PaymentMethod
	Notes               string
}

// BookingUpdate is a partial update; nil fields are left untouched.
type BookingUpdate struct {
	CustomerName        *string
	CustomerEmail       *string
	CustomerPhone       *string
	StartDate           *time.Time
	EndDate             *time.Time
	TotalPriceCents     *int32
	AdvancePaymentCents *int32
	PaymentStatus       *domain.PaymentStatus
	PaymentMethod       *domain.PaymentMethod
	Notes               *string
}

type BookingService interface {
	// CheckAvailability reports whether the car is free of live bookings
	// overlapping [start, end) under the half-open rule. excludeRef, when
	// non-empty, removes that booking from the conflict set. No side effects.
	CheckAvailability(ctx context.Context, carID int32, start, end time.Time, excludeRef string) (bool, error)
	CreateBooking(ctx context.Context, in CreateBookingInput) (*domain.Booking, error)
	GetBooking(ctx context.Context, ref string) (*domain.Booking, error)
	ListBookings(ctx context.Context, status string, page, pageSize int32) ([]domain.Booking, int32, error)
	UpdateStatus(ctx context.Context, ref string, status domain.BookingStatus, paymentStatus *domain.PaymentStatus) (*domain.Booking, error)
	UpdateBooking(ctx context.Context, ref string, upd BookingUpdate) (*domain.Booking, error)
	// DeleteBooking hard-deletes the record. Inventory is deliberately left
	// untouched: delete is an admin corrective action, not a cancellation.
	DeleteBooking(ctx context.Context, ref string) error
	// RecomputeBookedFlags re-derives every car's booked flag from the ledger
	// and returns how many cars drifted. Run by the nightly reconcile job.
	RecomputeBookedFlags(ctx context.Context) (int, error)
}

type CarService interface {
	CreateCar(ctx context.Context, car *domain.Car) error
	GetCar(ctx context.Context, id int32) (*domain.Car, error)
	ListCars(ctx context.Context, activeOnly bool) ([]domain.Car, error)
	UpdateCar(ctx context.Context, car *domain.Car) error
}

type StatsService interface {
	GetDashboardStats(ctx context.Context) (*domain.DashboardStats, error)
}
