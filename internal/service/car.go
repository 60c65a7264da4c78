package service

import (
	"context"
	"strings"

	"carbook-backend/internal/domain"
	"carbook-backend/internal/logger"
	"carbook-backend/internal/repository"
)

type carService struct {
	carRepo repository.CarRepository
}

func NewCarService(carRepo repository.CarRepository) CarService {
	return &carService{carRepo: carRepo}
}

func (s *carService) CreateCar(ctx context.Context, car *domain.Car) error {
	if strings.TrimSpace(car.Name) == "" {
		return domain.NewValidationError("name", "required")
	}
	if car.Stock < 0 {
		return domain.NewValidationError("stock", "must not be negative")
	}
	if err := s.carRepo.Create(ctx, car); err != nil {
		return err
	}
	logger.Info("car created", "car_id", car.ID, "name", car.Name, "stock", car.Stock)
	return nil
}

func (s *carService) GetCar(ctx context.Context, id int32) (*domain.Car, error) {
	return s.carRepo.GetByID(ctx, id)
}

func (s *carService) ListCars(ctx context.Context, activeOnly bool) ([]domain.Car, error) {
	return s.carRepo.List(ctx, activeOnly)
}

// UpdateCar covers the direct admin edit path (stock, visibility, pricing).
// The booked flag is not settable here; only the lifecycle coordinator and
// the reconcile job touch it.
func (s *carService) UpdateCar(ctx context.Context, car *domain.Car) error {
	if strings.TrimSpace(car.Name) == "" {
		return domain.NewValidationError("name", "required")
	}
	if car.Stock < 0 {
		return domain.NewValidationError("stock", "must not be negative")
	}
	return s.carRepo.Update(ctx, car)
}
