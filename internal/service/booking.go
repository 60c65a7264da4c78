package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"carbook-backend/internal/domain"
	"carbook-backend/internal/logger"
	"carbook-backend/internal/repository"

	"github.com/google/uuid"
)

type bookingService struct {
	bookingRepo repository.BookingRepository
	carRepo     repository.CarRepository
	now         func() time.Time
}

func NewBookingService(bookingRepo repository.BookingRepository, carRepo repository.CarRepository) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		carRepo:     carRepo,
		now:         time.Now,
	}
}

func (s *bookingService) CheckAvailability(ctx context.Context, carID int32, start, end time.Time, excludeRef string) (bool, error) {
	// An inverted range can never overlap anything under the half-open rule,
	// so it would always look available. Reject it instead.
	if end.Before(start) {
		return false, domain.NewValidationError("end_date", "must not be before start_date")
	}
	var excludeID int32
	if excludeRef != "" {
		b, err := s.bookingRepo.GetByReference(ctx, excludeRef)
		if err != nil {
			return false, err
		}
		excludeID = b.ID
	}
	return s.isAvailable(ctx, carID, start, end, excludeID)
}

func (s *bookingService) isAvailable(ctx context.Context, carID int32, start, end time.Time, excludeID int32) (bool, error) {
	count, err := s.bookingRepo.CountOverlapping(ctx, carID, start, end, excludeID)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

func (s *bookingService) CreateBooking(ctx context.Context, in CreateBookingInput) (*domain.Booking, error) {
	if err := validateCreate(in); err != nil {
		return nil, err
	}

	car, err := s.carRepo.GetByID(ctx, in.CarID)
	if err != nil {
		return nil, err
	}
	if car.Stock <= 0 {
		return nil, domain.ErrOutOfStock
	}

	available, err := s.isAvailable(ctx, in.CarID, in.StartDate, in.EndDate, 0)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, domain.ErrDateConflict
	}

	booking := &domain.Booking{
		Reference:           newBookingReference(s.now()),
		CarID:               in.CarID,
		CustomerID:          in.CustomerID,
		CustomerName:        in.CustomerName,
		CustomerEmail:       in.CustomerEmail,
		CustomerPhone:       in.CustomerPhone,
		StartDate:           in.StartDate,
		EndDate:             in.EndDate,
		TotalDays:           domain.RentalDays(in.StartDate, in.EndDate),
		TotalPriceCents:     in.TotalPriceCents,
		AdvancePaymentCents: in.AdvancePaymentCents,
		Status:              domain.BookingStatusPending,
		PaymentStatus:       domain.DerivePaymentStatus(in.AdvancePaymentCents),
		PaymentMethod:       in.PaymentMethod,
		Notes:               in.Notes,
	}

	// The exclusion constraint backstops the availability check here: if a
	// racing request slipped in between check and insert, Create returns
	// ErrDateConflict instead of committing a double booking.
	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, err
	}

	if err := s.carRepo.AdjustStock(ctx, in.CarID, -1); err != nil {
		// The booking committed; the decrement did not. Not atomic by design,
		// the reconcile job and admin stock edits are the recovery path.
		logger.Error("stock decrement failed after booking insert", "car_id", in.CarID, "booking", booking.Reference, "error", err)
		return nil, err
	}

	logger.Info("booking created", "booking", booking.Reference, "car_id", in.CarID, "start", in.StartDate.Format("2006-01-02"), "end", in.EndDate.Format("2006-01-02"))
	return booking, nil
}

func (s *bookingService) GetBooking(ctx context.Context, ref string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByReference(ctx, ref)
	if err != nil {
		return nil, err
	}
	if car, err := s.carRepo.GetByID(ctx, booking.CarID); err == nil {
		booking.Car = car
	}
	return booking, nil
}

func (s *bookingService) ListBookings(ctx context.Context, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	if status != "" && !domain.BookingStatus(status).Valid() {
		return nil, 0, domain.NewValidationError("status", "unknown booking status")
	}
	return s.bookingRepo.List(ctx, status, page, pageSize)
}

func (s *bookingService) UpdateStatus(ctx context.Context, ref string, status domain.BookingStatus, paymentStatus *domain.PaymentStatus) (*domain.Booking, error) {
	if !status.Valid() {
		return nil, domain.NewValidationError("status", "unknown booking status")
	}
	if paymentStatus != nil && !paymentStatus.Valid() {
		return nil, domain.NewValidationError("payment_status", "unknown payment status")
	}

	booking, err := s.bookingRepo.GetByReference(ctx, ref)
	if err != nil {
		return nil, err
	}

	changed := status != booking.Status
	if changed && !booking.Status.CanTransitionTo(status) {
		return nil, &domain.TransitionError{From: booking.Status, To: status}
	}

	prev := booking.Status
	booking.Status = status
	if paymentStatus != nil {
		booking.PaymentStatus = *paymentStatus
	}
	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, err
	}

	if changed {
		if err := s.applyInventoryEffects(ctx, booking, prev); err != nil {
			return nil, err
		}
		logger.Info("booking status changed", "booking", booking.Reference, "from", prev, "to", status)
	}
	return booking, nil
}

// applyInventoryEffects keeps the car's stock and booked flag in lockstep
// with the ledger after a status change.
//
//   - confirmed: set the booked flag if the range covers today
//   - cancelled: return the unit and re-derive the flag from the remaining
//     confirmed bookings
//   - completed: nothing; the unit was consumed at creation and stays consumed
func (s *bookingService) applyInventoryEffects(ctx context.Context, booking *domain.Booking, prev domain.BookingStatus) error {
	today := domain.StartOfDay(s.now())

	switch booking.Status {
	case domain.BookingStatusConfirmed:
		if booking.Covers(today) {
			return s.carRepo.SetBooked(ctx, booking.CarID, true)
		}
	case domain.BookingStatusCancelled:
		if err := s.carRepo.AdjustStock(ctx, booking.CarID, 1); err != nil {
			return err
		}
		covered, err := s.bookingRepo.HasConfirmedCovering(ctx, booking.CarID, today, booking.ID)
		if err != nil {
			return err
		}
		return s.carRepo.SetBooked(ctx, booking.CarID, covered)
	}
	return nil
}

func (s *bookingService) UpdateBooking(ctx context.Context, ref string, upd BookingUpdate) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByReference(ctx, ref)
	if err != nil {
		return nil, err
	}

	start, end := booking.StartDate, booking.EndDate
	if upd.StartDate != nil {
		start = *upd.StartDate
	}
	if upd.EndDate != nil {
		end = *upd.EndDate
	}
	datesChanged := !start.Equal(booking.StartDate) || !end.Equal(booking.EndDate)
	if datesChanged {
		if end.Before(start) {
			return nil, domain.NewValidationError("end_date", "must not be before start_date")
		}
		available, err := s.isAvailable(ctx, booking.CarID, start, end, booking.ID)
		if err != nil {
			return nil, err
		}
		if !available {
			return nil, domain.ErrDateConflict
		}
		booking.StartDate = start
		booking.EndDate = end
		booking.TotalDays = domain.RentalDays(start, end)
	}

	if upd.CustomerName != nil {
		booking.CustomerName = *upd.CustomerName
	}
	if upd.CustomerEmail != nil {
		booking.CustomerEmail = *upd.CustomerEmail
	}
	if upd.CustomerPhone != nil {
		booking.CustomerPhone = *upd.CustomerPhone
	}
	if upd.TotalPriceCents != nil {
		booking.TotalPriceCents = *upd.TotalPriceCents
	}
	if upd.AdvancePaymentCents != nil {
		booking.AdvancePaymentCents = *upd.AdvancePaymentCents
	}
	if upd.PaymentStatus != nil {
		if !upd.PaymentStatus.Valid() {
			return nil, domain.NewValidationError("payment_status", "unknown payment status")
		}
		booking.PaymentStatus = *upd.PaymentStatus
	}
	if upd.PaymentMethod != nil {
		if !upd.PaymentMethod.Valid() {
			return nil, domain.NewValidationError("payment_method", "unknown payment method")
		}
		booking.PaymentMethod = *upd.PaymentMethod
	}
	if upd.Notes != nil {
		booking.Notes = *upd.Notes
	}

	if booking.AdvancePaymentCents < 0 || booking.AdvancePaymentCents > booking.TotalPriceCents {
		return nil, domain.NewValidationError("advance_payment", "must be between 0 and total price")
	}

	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *bookingService) DeleteBooking(ctx context.Context, ref string) error {
	booking, err := s.bookingRepo.GetByReference(ctx, ref)
	if err != nil {
		return err
	}
	if err := s.bookingRepo.Delete(ctx, booking.ID); err != nil {
		return err
	}
	logger.Warn("booking hard-deleted, inventory left untouched", "booking", ref, "car_id", booking.CarID)
	return nil
}

func (s *bookingService) RecomputeBookedFlags(ctx context.Context) (int, error) {
	cars, err := s.carRepo.List(ctx, false)
	if err != nil {
		return 0, err
	}

	today := domain.StartOfDay(s.now())
	drifted := 0
	for i := range cars {
		car := &cars[i]
		covered, err := s.bookingRepo.HasConfirmedCovering(ctx, car.ID, today, 0)
		if err != nil {
			return drifted, err
		}
		if covered == car.IsBooked {
			continue
		}
		if err := s.carRepo.SetBooked(ctx, car.ID, covered); err != nil {
			return drifted, err
		}
		drifted++
		logger.Warn("booked flag drifted from ledger", "car_id", car.ID, "was", car.IsBooked, "now", covered)
	}
	return drifted, nil
}

func validateCreate(in CreateBookingInput) error {
	if in.CarID <= 0 {
		return domain.NewValidationError("car_id", "required")
	}
	if strings.TrimSpace(in.CustomerName) == "" {
		return domain.NewValidationError("customer_name", "required")
	}
	if strings.TrimSpace(in.CustomerEmail) == "" {
		return domain.NewValidationError("customer_email", "required")
	}
	if strings.TrimSpace(in.CustomerPhone) == "" {
		return domain.NewValidationError("customer_phone", "required")
	}
	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return domain.NewValidationError("dates", "start_date and end_date are required")
	}
	if in.EndDate.Before(in.StartDate) {
		return domain.NewValidationError("end_date", "must not be before start_date")
	}
	if in.TotalPriceCents <= 0 {
		return domain.NewValidationError("total_price", "required")
	}
	if in.AdvancePaymentCents < 0 || in.AdvancePaymentCents > in.TotalPriceCents {
		return domain.NewValidationError("advance_payment", "must be between 0 and total price")
	}
	if !in.PaymentMethod.Valid() {
		return domain.NewValidationError("payment_method", "unknown payment method")
	}
	return nil
}

// newBookingReference builds the customer-facing booking id, e.g.
// BK-20250601-3F9A21C4. The uuid suffix keeps it unique without a sequence.
func newBookingReference(t time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("BK-%s-%s", t.Format("20060102"), suffix)
}
