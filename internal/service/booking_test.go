package service

import (
	"context"
	"testing"
	"time"

	"carbook-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func newTestBookingService(bookingRepo *MockBookingRepo, carRepo *MockCarRepo, now time.Time) *bookingService {
	svc := NewBookingService(bookingRepo, carRepo).(*bookingService)
	svc.now = func() time.Time { return now }
	return svc
}

func validInput() CreateBookingInput {
	return CreateBookingInput{
		CarID:               1,
		CustomerName:        "Asha Verma",
		CustomerEmail:       "asha@example.com",
		CustomerPhone:       "+91-9999999999",
		StartDate:           date(2025, 6, 1),
		EndDate:             date(2025, 6, 3),
		TotalPriceCents:     900000,
		AdvancePaymentCents: 50000,
		PaymentMethod:       domain.PaymentMethodUPI,
	}
}

func TestBookingService_CreateBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		bookingRepo := new(MockBookingRepo)
		carRepo := new(MockCarRepo)
		svc := newTestBookingService(bookingRepo, carRepo, date(2025, 5, 20))

		carRepo.On("GetByID", ctx, int32(1)).Return(&domain.Car{ID: 1, Stock: 1}, nil)
		bookingRepo.On("CountOverlapping", ctx, int32(1), date(2025, 6, 1), date(2025, 6, 3), int32(0)).Return(int32(0), nil)
		bookingRepo.On("Create", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil)
		carRepo.On("AdjustStock", ctx, int32(1), int32(-1)).Return(nil)

		booking, err := svc.CreateBooking(ctx, validInput())
		assert.NoError(t, err)
		assert.NotNil(t, booking)
		assert.Equal(t, domain.BookingStatusPending, booking.Status)
		assert.Equal(t, domain.PaymentStatusPartial, booking.PaymentStatus)
		assert.Equal(t, int32(3), booking.TotalDays)
		assert.Regexp(t, `^BK-20250520-[0-9A-F]{8}$`, booking.Reference)
		carRepo.AssertCalled(t, "AdjustStock", ctx, int32(1), int32(-1))
	})

	t.Run("Unpaid when no advance", func(t *testing.T) {
		bookingRepo := new(MockBookingRepo)
		carRepo := new(MockCarRepo)
		svc := newTestBookingService(bookingRepo, carRepo, date(2025, 5, 20))

		carRepo.On("GetByID", ctx, int32(1)).Return(&domain.Car{ID: 1, Stock: 2}, nil)
		bookingRepo.On("CountOverlapping", ctx, int32(1), mock.Anything, mock.Anything, int32(0)).Return(int32(0), nil)
		bookingRepo.On("Create", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil)
		carRepo.On("AdjustStock", ctx, int32(1), int32(-1)).Return(nil)

		in := validInput()
		in.AdvancePaymentCents = 0
		booking, err := svc.CreateBooking(ctx, in)
		assert.NoError(t, err)
		assert.Equal(t, domain.PaymentStatusUnpaid, booking.PaymentStatus)
	})

	t.Run("Missing customer name", func(t *testing.T) {
		svc := newTestBookingService(new(MockBookingRepo), new(MockCarRepo), date(2025, 5, 20))

		in := validInput()
		in.CustomerName = "  "
		booking, err := svc.CreateBooking(ctx, in)
		assert.Nil(t, booking)
		var validationErr *domain.ValidationError
		assert.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "customer_name", validationErr.Field)
	})

	t.Run("Advance above total rejected", func(t *testing.T) {
		svc := newTestBookingService(new(MockBookingRepo), new(MockCarRepo), date(2025, 5, 20))

		in := validInput()
		in.AdvancePaymentCents = in.TotalPriceCents + 1
		_, err := svc.CreateBooking(ctx, in)
		var validationErr *domain.ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})

	t.Run("Car not found", func(t *testing.T) {
		bookingRepo := new(MockBookingRepo)
		carRepo := new(MockCarRepo)
		svc := newTestBookingService(bookingRepo, carRepo, date(2025, 5, 20))

		carRepo.On("GetByID", ctx, int32(1)).Return(nil, domain.ErrCarNotFound)

		_, err := svc.CreateBooking(ctx, validInput())
		assert.ErrorIs(t, err, domain.ErrCarNotFound)
	})

	t.Run("Out of stock", func(t *testing.T) {
		bookingRepo := new(MockBookingRepo)
		carRepo := new(MockCarRepo)
		svc := newTestBookingService(bookingRepo, carRepo, date(2025, 5, 20))

		carRepo.On("GetByID", ctx, int32(1)).Return(&domain.Car{ID: 1, Stock: 0}, nil)

		_, err := svc.CreateBooking(ctx, validInput())
		assert.ErrorIs(t, err, domain.ErrOutOfStock)
		bookingRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Overlapping live booking rejected", func(t *testing.T) {
		bookingRepo := new(MockBookingRepo)
		carRepo := new(MockCarRepo)
		svc := newTestBookingService(bookingRepo, carRepo, date(2025, 5, 20))

		carRepo.On("GetByID", ctx, int32(1)).Return(&domain.Car{ID: 1, Stock: 1}, nil)
		bookingRepo.On("CountOverlapping", ctx, int32(1), mock.Anything, mock.Anything, int32(0)).Return(int32(1), nil)

		in := validInput()
		in.StartDate = date(2025, 6, 2)
		in.EndDate = date(2025, 6, 4)
		_, err := svc.CreateBooking(ctx, in)
		assert.ErrorIs(t, err, domain.ErrDateConflict)
		carRepo.AssertNotCalled(t, "AdjustStock", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Racing insert surfaces conflict from constraint", func(t *testing.T) {
		bookingRepo := new(MockBookingRepo)
		carRepo := new(MockCarRepo)
		svc := newTestBookingService(bookingRepo, carRepo, date(2025, 5, 20))

		carRepo.On("GetByID", ctx, int32(1)).Return(&domain.Car{ID: 1, Stock: 1}, nil)
		bookingRepo.On("CountOverlapping", ctx, int32(1), mock.Anything, mock.Anything, int32(0)).Return(int32(0), nil)
		bookingRepo.On("Create", ctx, mock.AnythingOfType("*domain.Booking")).Return(domain.ErrDateConflict)

		_, err := svc.CreateBooking(ctx, validInput())
		assert.ErrorIs(t, err, domain.ErrDateConflict)
		carRepo.AssertNotCalled(t, "AdjustStock", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestBookingService_CheckAvailability(t *testing.T) {
	ctx := context.Background()

	t.Run("Available when no overlap", func(t *testing.T) {
		bookingRepo := new(MockBookingRepo)
		svc := newTestBookingService(bookingRepo, new(MockCarRepo), date(2025, 5, 20))

		bookingRepo.On("CountOverlapping", ctx, int32(7), date(2025, 8, 15), date(2025, 8, 20), int32(0)).Return(int32(0), nil)

		available, err := svc.CheckAvailability(ctx, 7, date(2025, 8, 15), date(2025, 8, 20), "")
		assert.NoError(t, err)
		assert.True(t, available)
	})

	t.Run("Exclude booking resolves reference to id", func(t *testing.T) {
		bookingRepo := new(MockBookingRepo)
		svc := newTestBookingService(bookingRepo, new(MockCarRepo), date(2025, 5, 20))

		bookingRepo.On("GetByReference", ctx, "BK-20250520-AAAA1111").Return(&domain.Booking{ID: 42, CarID: 7}, nil)
		bookingRepo.On("CountOverlapping", ctx, int32(7), date(2025, 8, 10), date(2025, 8, 15), int32(42)).Return(int32(0), nil)

		available, err := svc.CheckAvailability(ctx, 7, date(2025, 8, 10), date(2025, 8, 15), "BK-20250520-AAAA1111")
		assert.NoError(t, err)
		assert.True(t, available)
	})

	t.Run("Inverted range is rejected, not reported available", func(t *testing.T) {
		bookingRepo := new(MockBookingRepo)
		svc := newTestBookingService(bookingRepo, new(MockCarRepo), date(2025, 5, 20))

		available, err := svc.CheckAvailability(ctx, 7, date(2025, 8, 20), date(2025, 8, 15), "")
		assert.False(t, available)
		var validationErr *domain.ValidationError
		assert.ErrorAs(t, err, &validationErr)
		bookingRepo.AssertNotCalled(t, "CountOverlapping", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestBookingService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("Confirm covering today sets booked flag", func(t *testing.T) {
		bookingRepo := new(MockBookingRepo)
		carRepo := new(MockCarRepo)
		// today = 2025-07-01, inside the booking range
		svc := newTestBookingService(bookingRepo, carRepo, date(2025, 7, 1))

		booking := &domain.Booking{
			ID: 5, Reference: "BK-1", CarID: 3,
			StartDate: date(2025, 7, 1), EndDate: date(2025, 7, 2),
			Status: domain.BookingStatusPending,
		}
		bookingRepo.On("GetByReference", ctx, "BK-1").Return(booking, nil)
		bookingRepo.On("Update", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil)
		carRepo.On("SetBooked", ctx, int32(3), true).Return(nil)

		updated, err := svc.UpdateStatus(ctx, "BK-1", domain.BookingStatusConfirmed, nil)
		assert.NoError(t, err)
		assert.Equal(t, domain.BookingStatusConfirmed, updated.Status)
		carRepo.AssertCalled(t, "SetBooked", ctx, int32(3), true)
	})

	t.Run("Confirm outside today leaves booked flag alone", func(t *testing.T) {
		bookingRepo := new(MockBookingRepo)
		carRepo := new(MockCarRepo)
		svc := newTestBookingService(bookingRepo, carRepo, date(2025, 6, 1))

		booking := &domain.Booking{
			ID: 5, Reference: "BK-1", CarID: 3,
			StartDate: date(2025, 7, 1), EndDate: date(2025, 7, 2),
			Status: domain.BookingStatusPending,
		}
		bookingRepo.On("GetByReference", ctx, "BK-1").Return(booking, nil)
		bookingRepo.On("Update", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil)

		_, err := svc.UpdateStatus(ctx, "BK-1", domain.BookingStatusConfirmed, nil)
		assert.NoError(t, err)
		carRepo.AssertNotCalled(t, "SetBooked", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Cancel returns stock and rederives booked flag", func(t *testing.T) {
		bookingRepo := new(MockBookingRepo)
		carRepo := new(MockCarRepo)
		svc := newTestBookingService(bookingRepo, carRepo, date(2025, 7, 1))

		booking := &domain.Booking{
			ID: 5, Reference: "BK-1", CarID: 3,
			StartDate: date(2025, 7, 1), EndDate: date(2025, 7, 2),
			Status: domain.BookingStatusConfirmed,
		}
		bookingRepo.On("GetByReference", ctx, "BK-1").Return(booking, nil)
		bookingRepo.On("Update", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil)
		carRepo.On("AdjustStock", ctx, int32(3), int32(1)).Return(nil)
		// No other confirmed booking covers today.
		bookingRepo.On("HasConfirmedCovering", ctx, int32(3), date(2025, 7, 1), int32(5)).Return(false, nil)
		carRepo.On("SetBooked", ctx, int32(3), false).Return(nil)

		updated, err := svc.UpdateStatus(ctx, "BK-1", domain.BookingStatusCancelled, nil)
		assert.NoError(t, err)
		assert.Equal(t, domain.BookingStatusCancelled, updated.Status)
		carRepo.AssertCalled(t, "AdjustStock", ctx, int32(3), int32(1))
		carRepo.AssertCalled(t, "SetBooked", ctx, int32(3), false)
	})

	t.Run("Complete has no inventory effect", func(t *testing.T) {
		bookingRepo := new(MockBookingRepo)
		carRepo := new(MockCarRepo)
		svc := newTestBookingService(bookingRepo, carRepo, date(2025, 7, 10))

		booking := &domain.Booking{
			ID: 5, Reference: "BK-1", CarID: 3,
			StartDate: date(2025, 7, 1), EndDate: date(2025, 7, 2),
			Status: domain.BookingStatusConfirmed,
		}
		bookingRepo.On("GetByReference", ctx, "BK-1").Return(booking, nil)
		bookingRepo.On("Update", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil)

		_, err := svc.UpdateStatus(ctx, "BK-1", domain.BookingStatusCompleted, nil)
		assert.NoError(t, err)
		carRepo.AssertNotCalled(t, "AdjustStock", mock.Anything, mock.Anything, mock.Anything)
		carRepo.AssertNotCalled(t, "SetBooked", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Illegal transition is a hard error", func(t *testing.T) {
		bookingRepo := new(MockBookingRepo)
		svc := newTestBookingService(bookingRepo, new(MockCarRepo), date(2025, 7, 1))

		booking := &domain.Booking{ID: 5, Reference: "BK-1", CarID: 3, Status: domain.BookingStatusCompleted}
		bookingRepo.On("GetByReference", ctx, "BK-1").Return(booking, nil)

		_, err := svc.UpdateStatus(ctx, "BK-1", domain.BookingStatusPending, nil)
		var transitionErr *domain.TransitionError
		assert.ErrorAs(t, err, &transitionErr)
		bookingRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Payment status updates without status change", func(t *testing.T) {
		bookingRepo := new(MockBookingRepo)
		carRepo := new(MockCarRepo)
		svc := newTestBookingService(bookingRepo, carRepo, date(2025, 7, 1))

		booking := &domain.Booking{
			ID: 5, Reference: "BK-1", CarID: 3,
			Status:        domain.BookingStatusConfirmed,
			PaymentStatus: domain.PaymentStatusPartial,
			StartDate:     date(2025, 8, 1), EndDate: date(2025, 8, 2),
		}
		bookingRepo.On("GetByReference", ctx, "BK-1").Return(booking, nil)
		bookingRepo.On("Update", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil)

		paid := domain.PaymentStatusPaid
		updated, err := svc.UpdateStatus(ctx, "BK-1", domain.BookingStatusConfirmed, &paid)
		assert.NoError(t, err)
		assert.Equal(t, domain.PaymentStatusPaid, updated.PaymentStatus)
		assert.Equal(t, domain.BookingStatusConfirmed, updated.Status)
		carRepo.AssertNotCalled(t, "AdjustStock", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestBookingService_UpdateBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("Date change reruns availability excluding self", func(t *testing.T) {
		bookingRepo := new(MockBookingRepo)
		svc := newTestBookingService(bookingRepo, new(MockCarRepo), date(2025, 7, 1))

		booking := &domain.Booking{
			ID: 9, Reference: "BK-2", CarID: 4,
			StartDate: date(2025, 8, 1), EndDate: date(2025, 8, 5),
			TotalDays: 5, TotalPriceCents: 100000,
			Status: domain.BookingStatusPending,
		}
		bookingRepo.On("GetByReference", ctx, "BK-2").Return(booking, nil)
		bookingRepo.On("CountOverlapping", ctx, int32(4), date(2025, 8, 3), date(2025, 8, 6), int32(9)).Return(int32(0), nil)
		bookingRepo.On("Update", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil)

		start, end := date(2025, 8, 3), date(2025, 8, 6)
		updated, err := svc.UpdateBooking(ctx, "BK-2", BookingUpdate{StartDate: &start, EndDate: &end})
		assert.NoError(t, err)
		assert.Equal(t, int32(4), updated.TotalDays)
	})

	t.Run("Date change colliding with another live booking", func(t *testing.T) {
		bookingRepo := new(MockBookingRepo)
		svc := newTestBookingService(bookingRepo, new(MockCarRepo), date(2025, 7, 1))

		booking := &domain.Booking{
			ID: 9, Reference: "BK-2", CarID: 4,
			StartDate: date(2025, 8, 1), EndDate: date(2025, 8, 5),
			TotalPriceCents: 100000,
			Status:          domain.BookingStatusPending,
		}
		bookingRepo.On("GetByReference", ctx, "BK-2").Return(booking, nil)
		bookingRepo.On("CountOverlapping", ctx, int32(4), mock.Anything, mock.Anything, int32(9)).Return(int32(1), nil)

		start, end := date(2025, 8, 3), date(2025, 8, 6)
		_, err := svc.UpdateBooking(ctx, "BK-2", BookingUpdate{StartDate: &start, EndDate: &end})
		assert.ErrorIs(t, err, domain.ErrDateConflict)
		bookingRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Notes only update skips availability", func(t *testing.T) {
		bookingRepo := new(MockBookingRepo)
		svc := newTestBookingService(bookingRepo, new(MockCarRepo), date(2025, 7, 1))

		booking := &domain.Booking{
			ID: 9, Reference: "BK-2", CarID: 4,
			StartDate: date(2025, 8, 1), EndDate: date(2025, 8, 5),
			TotalPriceCents: 100000,
			Status:          domain.BookingStatusPending,
		}
		bookingRepo.On("GetByReference", ctx, "BK-2").Return(booking, nil)
		bookingRepo.On("Update", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil)

		notes := "customer asked for child seat"
		updated, err := svc.UpdateBooking(ctx, "BK-2", BookingUpdate{Notes: &notes})
		assert.NoError(t, err)
		assert.Equal(t, notes, updated.Notes)
		bookingRepo.AssertNotCalled(t, "CountOverlapping", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestBookingService_DeleteBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("Delete leaves inventory untouched", func(t *testing.T) {
		bookingRepo := new(MockBookingRepo)
		carRepo := new(MockCarRepo)
		svc := newTestBookingService(bookingRepo, carRepo, date(2025, 7, 1))

		booking := &domain.Booking{ID: 11, Reference: "BK-3", CarID: 2, Status: domain.BookingStatusPending}
		bookingRepo.On("GetByReference", ctx, "BK-3").Return(booking, nil)
		bookingRepo.On("Delete", ctx, int32(11)).Return(nil)

		err := svc.DeleteBooking(ctx, "BK-3")
		assert.NoError(t, err)
		carRepo.AssertNotCalled(t, "AdjustStock", mock.Anything, mock.Anything, mock.Anything)
		carRepo.AssertNotCalled(t, "SetBooked", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestBookingService_RecomputeBookedFlags(t *testing.T) {
	ctx := context.Background()

	t.Run("Flips drifted flags only", func(t *testing.T) {
		bookingRepo := new(MockBookingRepo)
		carRepo := new(MockCarRepo)
		svc := newTestBookingService(bookingRepo, carRepo, date(2025, 7, 1))

		carRepo.On("List", ctx, false).Return([]domain.Car{
			{ID: 1, IsBooked: true},  // ledger says not covered -> drift
			{ID: 2, IsBooked: false}, // matches ledger
		}, nil)
		bookingRepo.On("HasConfirmedCovering", ctx, int32(1), date(2025, 7, 1), int32(0)).Return(false, nil)
		bookingRepo.On("HasConfirmedCovering", ctx, int32(2), date(2025, 7, 1), int32(0)).Return(false, nil)
		carRepo.On("SetBooked", ctx, int32(1), false).Return(nil)

		drifted, err := svc.RecomputeBookedFlags(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 1, drifted)
		carRepo.AssertNotCalled(t, "SetBooked", ctx, int32(2), mock.Anything)
	})
}
