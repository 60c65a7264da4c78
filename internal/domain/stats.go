package domain

// TopCar is one row of the top-cars ranking: bookings counted over confirmed
// and completed statuses only.
type TopCar struct {
	CarID    int32  `json:"car_id"`
	Name     string `json:"name"`
	Bookings int32  `json:"bookings"`
}

// TrendPoint is one day of the 7-day creation trend. Date is "2006-01-02".
type TrendPoint struct {
	Date  string `json:"date"`
	Count int32  `json:"count"`
}

// DashboardStats is the read-only aggregate derived from the booking ledger.
// Revenue sums advance payments of bookings created in the window, any status.
type DashboardStats struct {
	DailyBookings       int32        `json:"daily_bookings"`
	DailyRevenueCents   int64        `json:"daily_revenue_cents"`
	MonthlyBookings     int32        `json:"monthly_bookings"`
	MonthlyRevenueCents int64        `json:"monthly_revenue_cents"`
	TopCars             []TopCar     `json:"top_cars"`
	BookingTrends       []TrendPoint `json:"booking_trends"`
}
