package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"carbook-backend/internal/domain"
	"carbook-backend/internal/service"

	"github.com/gorilla/mux"
)

const dateFormat = "2006-01-02"

type BookingHandler struct {
	svc service.BookingService
}

func NewBookingHandler(svc service.BookingService) *BookingHandler {
	return &BookingHandler{svc: svc}
}

type createBookingRequest struct {
	CarID               int32  `json:"car_id"`
	CustomerID          *int32 `json:"customer_id,omitempty"`
	CustomerName        string `json:"customer_name"`
	CustomerEmail       string `json:"customer_email"`
	CustomerPhone       string `json:"customer_phone"`
	StartDate           string `json:"start_date"`
	EndDate             string `json:"end_date"`
	TotalPriceCents     int32  `json:"total_price_cents"`
	AdvancePaymentCents int32  `json:"advance_payment_cents"`
	PaymentMethod       string `json:"payment_method"`
	Notes               string `json:"notes"`
}

type bookingResponse struct {
	ID                  int32       `json:"id"`
	Reference           string      `json:"reference"`
	CarID               int32       `json:"car_id"`
	Car                 *domain.Car `json:"car,omitempty"`
	CustomerID          *int32      `json:"customer_id,omitempty"`
	CustomerName        string      `json:"customer_name"`
	CustomerEmail       string      `json:"customer_email"`
	CustomerPhone       string      `json:"customer_phone"`
	StartDate           string      `json:"start_date"`
	EndDate             string      `json:"end_date"`
	TotalDays           int32       `json:"total_days"`
	TotalPriceCents     int32       `json:"total_price_cents"`
	AdvancePaymentCents int32       `json:"advance_payment_cents"`
	Status              string      `json:"status"`
	PaymentStatus       string      `json:"payment_status"`
	PaymentMethod       string      `json:"payment_method"`
	Notes               string      `json:"notes"`
	CreatedOn           time.Time   `json:"created_on"`
	UpdatedOn           time.Time   `json:"updated_on"`
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		ID:                  b.ID,
		Reference:           b.Reference,
		CarID:               b.CarID,
		Car:                 b.Car,
		CustomerID:          b.CustomerID,
		CustomerName:        b.CustomerName,
		CustomerEmail:       b.CustomerEmail,
		CustomerPhone:       b.CustomerPhone,
		StartDate:           b.StartDate.Format(dateFormat),
		EndDate:             b.EndDate.Format(dateFormat),
		TotalDays:           b.TotalDays,
		TotalPriceCents:     b.TotalPriceCents,
		AdvancePaymentCents: b.AdvancePaymentCents,
		Status:              string(b.Status),
		PaymentStatus:       string(b.PaymentStatus),
		PaymentMethod:       string(b.PaymentMethod),
		Notes:               b.Notes,
		CreatedOn:           b.CreatedOn,
		UpdatedOn:           b.UpdatedOn,
	}
}

func (h *BookingHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	carID, err := strconv.ParseInt(q.Get("car_id"), 10, 32)
	if err != nil || carID <= 0 {
		writeError(w, domain.NewValidationError("car_id", "must be a positive integer"))
		return
	}
	start, err := time.ParseInLocation(dateFormat, q.Get("start_date"), time.Local)
	if err != nil {
		writeError(w, domain.NewValidationError("start_date", "must be YYYY-MM-DD"))
		return
	}
	end, err := time.ParseInLocation(dateFormat, q.Get("end_date"), time.Local)
	if err != nil {
		writeError(w, domain.NewValidationError("end_date", "must be YYYY-MM-DD"))
		return
	}

	available, err := h.svc.CheckAvailability(r.Context(), int32(carID), start, end, q.Get("exclude_booking"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"available": available})
}

func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.NewValidationError("body", "malformed JSON"))
		return
	}

	in := service.CreateBookingInput{
		CarID:               req.CarID,
		CustomerID:          req.CustomerID,
		CustomerName:        req.CustomerName,
		CustomerEmail:       req.CustomerEmail,
		CustomerPhone:       req.CustomerPhone,
		TotalPriceCents:     req.TotalPriceCents,
		AdvancePaymentCents: req.AdvancePaymentCents,
		PaymentMethod:       domain.PaymentMethod(req.PaymentMethod),
		Notes:               req.Notes,
	}

	var err error
	if in.StartDate, err = time.ParseInLocation(dateFormat, req.StartDate, time.Local); err != nil {
		writeError(w, domain.NewValidationError("start_date", "must be YYYY-MM-DD"))
		return
	}
	if in.EndDate, err = time.ParseInLocation(dateFormat, req.EndDate, time.Local); err != nil {
		writeError(w, domain.NewValidationError("end_date", "must be YYYY-MM-DD"))
		return
	}

	booking, err := h.svc.CreateBooking(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toBookingResponse(booking))
}

func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	ref := mux.Vars(r)["ref"]
	booking, err := h.svc.GetBooking(r.Context(), ref)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingResponse(booking))
}

type listBookingsResponse struct {
	Bookings []bookingResponse `json:"bookings"`
	Total    int32             `json:"total"`
}

func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.ParseInt(q.Get("page"), 10, 32)
	pageSize, _ := strconv.ParseInt(q.Get("page_size"), 10, 32)

	bookings, total, err := h.svc.ListBookings(r.Context(), q.Get("status"), int32(page), int32(pageSize))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := listBookingsResponse{Bookings: make([]bookingResponse, 0, len(bookings)), Total: total}
	for i := range bookings {
		resp.Bookings = append(resp.Bookings, toBookingResponse(&bookings[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

type updateStatusRequest struct {
	Status        string  `json:"status"`
	PaymentStatus *string `json:"payment_status,omitempty"`
}

func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ref := mux.Vars(r)["ref"]

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.NewValidationError("body", "malformed JSON"))
		return
	}

	var paymentStatus *domain.PaymentStatus
	if req.PaymentStatus != nil {
		ps := domain.PaymentStatus(*req.PaymentStatus)
		paymentStatus = &ps
	}

	booking, err := h.svc.UpdateStatus(r.Context(), ref, domain.BookingStatus(req.Status), paymentStatus)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingResponse(booking))
}

type updateBookingRequest struct {
	CustomerName        *string `json:"customer_name,omitempty"`
	CustomerEmail       *string `json:"customer_email,omitempty"`
	CustomerPhone       *string `json:"customer_phone,omitempty"`
	StartDate           *string `json:"start_date,omitempty"`
	EndDate             *string `json:"end_date,omitempty"`
	TotalPriceCents     *int32  `json:"total_price_cents,omitempty"`
	AdvancePaymentCents *int32  `json:"advance_payment_cents,omitempty"`
	PaymentStatus       *string `json:"payment_status,omitempty"`
	PaymentMethod       *string `json:"payment_method,omitempty"`
	Notes               *string `json:"notes,omitempty"`
}

func (h *BookingHandler) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	ref := mux.Vars(r)["ref"]

	var req updateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.NewValidationError("body", "malformed JSON"))
		return
	}

	upd := service.BookingUpdate{
		CustomerName:        req.CustomerName,
		CustomerEmail:       req.CustomerEmail,
		CustomerPhone:       req.CustomerPhone,
		TotalPriceCents:     req.TotalPriceCents,
		AdvancePaymentCents: req.AdvancePaymentCents,
		Notes:               req.Notes,
	}
	if req.StartDate != nil {
		start, err := time.ParseInLocation(dateFormat, *req.StartDate, time.Local)
		if err != nil {
			writeError(w, domain.NewValidationError("start_date", "must be YYYY-MM-DD"))
			return
		}
		upd.StartDate = &start
	}
	if req.EndDate != nil {
		end, err := time.ParseInLocation(dateFormat, *req.EndDate, time.Local)
		if err != nil {
			writeError(w, domain.NewValidationError("end_date", "must be YYYY-MM-DD"))
			return
		}
		upd.EndDate = &end
	}
	if req.PaymentStatus != nil {
		ps := domain.PaymentStatus(*req.PaymentStatus)
		upd.PaymentStatus = &ps
	}
	if req.PaymentMethod != nil {
		pm := domain.PaymentMethod(*req.PaymentMethod)
		upd.PaymentMethod = &pm
	}

	booking, err := h.svc.UpdateBooking(r.Context(), ref, upd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingResponse(booking))
}

func (h *BookingHandler) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	ref := mux.Vars(r)["ref"]
	if err := h.svc.DeleteBooking(r.Context(), ref); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": ref})
}
