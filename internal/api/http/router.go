package http

import (
	"carbook-backend/internal/security"
	"carbook-backend/internal/service"

	"github.com/gorilla/mux"
)

// NewRouter wires the public booking surface and the token-guarded back
// office under /api/v1.
func NewRouter(
	carSvc service.CarService,
	bookingSvc service.BookingService,
	statsSvc service.StatsService,
	validator security.TokenValidator,
) *mux.Router {
	carHandler := NewCarHandler(carSvc)
	bookingHandler := NewBookingHandler(bookingSvc)
	statsHandler := NewStatsHandler(statsSvc)

	router := mux.NewRouter()
	api := router.PathPrefix("/api/v1").Subrouter()

	// Public catalog and booking flow
	api.HandleFunc("/cars", carHandler.ListCars).Methods("GET")
	api.HandleFunc("/cars/{id:[0-9]+}", carHandler.GetCar).Methods("GET")
	api.HandleFunc("/availability", bookingHandler.CheckAvailability).Methods("GET")
	api.HandleFunc("/bookings", bookingHandler.CreateBooking).Methods("POST")
	api.HandleFunc("/bookings/{ref}", bookingHandler.GetBooking).Methods("GET")

	// Admin back office
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(AdminAuth(validator))
	admin.HandleFunc("/cars", carHandler.CreateCar).Methods("POST")
	admin.HandleFunc("/cars/{id:[0-9]+}", carHandler.UpdateCar).Methods("PATCH")
	admin.HandleFunc("/bookings", bookingHandler.ListBookings).Methods("GET")
	admin.HandleFunc("/bookings/{ref}/status", bookingHandler.UpdateStatus).Methods("PATCH")
	admin.HandleFunc("/bookings/{ref}", bookingHandler.UpdateBooking).Methods("PATCH")
	admin.HandleFunc("/bookings/{ref}", bookingHandler.DeleteBooking).Methods("DELETE")
	admin.HandleFunc("/stats", statsHandler.GetStats).Methods("GET")

	return router
}
