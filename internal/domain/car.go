package domain

import "time"

// Car is one rentable car model in the fleet. Stock counts physical units
// available for new bookings; IsBooked is a derived flag cached from the
// booking ledger (see BookingRepository.HasConfirmedCovering) and must never
// be treated as ground truth.
type Car struct {
	ID               int32     `json:"id"`
	Name             string    `json:"name"`
	Brand            string    `json:"brand"`
	PricePerDayCents int32     `json:"price_per_day_cents"`
	Stock            int32     `json:"stock"`
	IsBooked         bool      `json:"is_booked"`
	IsActive         bool      `json:"is_active"`
	CreatedOn        time.Time `json:"created_on"`
	UpdatedOn        time.Time `json:"updated_on"`
}
