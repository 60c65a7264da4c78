package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"carbook-backend/internal/domain"
	"carbook-backend/internal/service"

	"github.com/gorilla/mux"
)

type CarHandler struct {
	svc service.CarService
}

func NewCarHandler(svc service.CarService) *CarHandler {
	return &CarHandler{svc: svc}
}

// ListCars serves the public catalog: active cars only, unless the admin
// passes include_inactive=true.
func (h *CarHandler) ListCars(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("include_inactive") != "true"
	cars, err := h.svc.ListCars(r.Context(), activeOnly)
	if err != nil {
		writeError(w, err)
		return
	}
	if cars == nil {
		cars = []domain.Car{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"cars": cars})
}

func (h *CarHandler) GetCar(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		writeError(w, domain.NewValidationError("id", "must be an integer"))
		return
	}
	car, err := h.svc.GetCar(r.Context(), int32(id))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, car)
}

type createCarRequest struct {
	Name             string `json:"name"`
	Brand            string `json:"brand"`
	PricePerDayCents int32  `json:"price_per_day_cents"`
	Stock            int32  `json:"stock"`
	IsActive         *bool  `json:"is_active,omitempty"`
}

func (h *CarHandler) CreateCar(w http.ResponseWriter, r *http.Request) {
	var req createCarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.NewValidationError("body", "malformed JSON"))
		return
	}

	car := &domain.Car{
		Name:             req.Name,
		Brand:            req.Brand,
		PricePerDayCents: req.PricePerDayCents,
		Stock:            req.Stock,
		IsActive:         true,
	}
	if req.IsActive != nil {
		car.IsActive = *req.IsActive
	}

	if err := h.svc.CreateCar(r.Context(), car); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, car)
}

type updateCarRequest struct {
	Name             *string `json:"name,omitempty"`
	Brand            *string `json:"brand,omitempty"`
	PricePerDayCents *int32  `json:"price_per_day_cents,omitempty"`
	Stock            *int32  `json:"stock,omitempty"`
	IsActive         *bool   `json:"is_active,omitempty"`
}

// UpdateCar is the direct admin edit path: stock and visibility changes land
// here, never booked-flag changes.
func (h *CarHandler) UpdateCar(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		writeError(w, domain.NewValidationError("id", "must be an integer"))
		return
	}

	var req updateCarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.NewValidationError("body", "malformed JSON"))
		return
	}

	car, err := h.svc.GetCar(r.Context(), int32(id))
	if err != nil {
		writeError(w, err)
		return
	}

	if req.Name != nil {
		car.Name = *req.Name
	}
	if req.Brand != nil {
		car.Brand = *req.Brand
	}
	if req.PricePerDayCents != nil {
		car.PricePerDayCents = *req.PricePerDayCents
	}
	if req.Stock != nil {
		car.Stock = *req.Stock
	}
	if req.IsActive != nil {
		car.IsActive = *req.IsActive
	}

	if err := h.svc.UpdateCar(r.Context(), car); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, car)
}
