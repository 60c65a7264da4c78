package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

// transitions is the allowed status graph. Completed and cancelled are
// terminal; anything not listed here is rejected with a TransitionError.
var transitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusCompleted, BookingStatusCancelled},
}

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled, BookingStatusCompleted:
		return true
	}
	return false
}

// Live reports whether the status counts against availability.
func (s BookingStatus) Live() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed
}

func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusUnpaid  PaymentStatus = "unpaid"
	PaymentStatusPartial PaymentStatus = "partial"
	PaymentStatusPaid    PaymentStatus = "paid"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusUnpaid, PaymentStatusPartial, PaymentStatusPaid:
		return true
	}
	return false
}

// DerivePaymentStatus gives the initial payment status for a new booking.
func DerivePaymentStatus(advancePaymentCents int32) PaymentStatus {
	if advancePaymentCents > 0 {
		return PaymentStatusPartial
	}
	return PaymentStatusUnpaid
}

type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodUPI          PaymentMethod = "upi"
	PaymentMethodBankTransfer PaymentMethod = "bank-transfer"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodUPI, PaymentMethodBankTransfer:
		return true
	}
	return false
}

// Booking is one reservation in the ledger. Reference is the human-readable
// booking id shown to customers; ID is internal. The customer contact fields
// are a snapshot taken at booking time and stay valid even for anonymous
// bookings (CustomerID nil).
type Booking struct {
	ID                  int32         `json:"id"`
	Reference           string        `json:"reference"`
	CarID               int32         `json:"car_id"`
	Car                 *Car          `json:"car,omitempty"` // populated on detail fetches
	CustomerID          *int32        `json:"customer_id,omitempty"`
	CustomerName        string        `json:"customer_name"`
	CustomerEmail       string        `json:"customer_email"`
	CustomerPhone       string        `json:"customer_phone"`
	StartDate           time.Time     `json:"start_date"`
	EndDate             time.Time     `json:"end_date"`
	TotalDays           int32         `json:"total_days"`
	TotalPriceCents     int32         `json:"total_price_cents"`
	AdvancePaymentCents int32         `json:"advance_payment_cents"`
	Status              BookingStatus `json:"status"`
	PaymentStatus       PaymentStatus `json:"payment_status"`
	PaymentMethod       PaymentMethod `json:"payment_method"`
	Notes               string        `json:"notes"`
	CreatedOn           time.Time     `json:"created_on"`
	UpdatedOn           time.Time     `json:"updated_on"`
}

// Covers reports whether day falls inside the booking's inclusive date range.
// Used for the car's booked flag ("a confirmed booking covers today").
func (b *Booking) Covers(day time.Time) bool {
	d := StartOfDay(day)
	return !d.Before(StartOfDay(b.StartDate)) && !d.After(StartOfDay(b.EndDate))
}

// RentalDays counts days in the inclusive range, minimum 1 (equal dates are a
// one-day rental). This is the pricing count, not the overlap rule. The
// calendar dates are re-anchored to UTC midnights before subtracting so a
// daylight-saving transition (23- or 25-hour day) cannot skew the count.
func RentalDays(start, end time.Time) int32 {
	sy, sm, sd := start.Date()
	ey, em, ed := end.Date()
	s := time.Date(sy, sm, sd, 0, 0, 0, 0, time.UTC)
	e := time.Date(ey, em, ed, 0, 0, 0, 0, time.UTC)
	days := int32(e.Sub(s).Hours()/24) + 1
	if days < 1 {
		days = 1
	}
	return days
}

// Overlaps applies the half-open comparison used for availability: a booking
// ending on day X does not clash with one starting on day X, even though both
// days are billed. Symmetric in its two ranges.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && e1.After(s2)
}

// StartOfDay truncates t to midnight in server-local time. All stats windows
// and coverage checks align on these boundaries.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Local().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}
