package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"carbook-backend/internal/domain"
	"carbook-backend/internal/repository"
)

type carRepository struct {
	db *sql.DB
}

func NewCarRepository(db *sql.DB) repository.CarRepository {
	return &carRepository{db: db}
}

func (r *carRepository) Create(ctx context.Context, car *domain.Car) error {
	query := `INSERT INTO cars (name, brand, price_per_day_cents, stock, is_booked, is_active, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query, car.Name, car.Brand, car.PricePerDayCents, car.Stock, car.IsBooked, car.IsActive, now, now).Scan(&car.ID)
}

func (r *carRepository) GetByID(ctx context.Context, id int32) (*domain.Car, error) {
	car := &domain.Car{}
	query := `SELECT id, name, COALESCE(brand, ''), price_per_day_cents, stock, is_booked, is_active, created_on, updated_on FROM cars WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&car.ID, &car.Name, &car.Brand, &car.PricePerDayCents, &car.Stock, &car.IsBooked, &car.IsActive, &car.CreatedOn, &car.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCarNotFound
	}
	if err != nil {
		return nil, err
	}
	return car, nil
}

func (r *carRepository) List(ctx context.Context, activeOnly bool) ([]domain.Car, error) {
	query := `SELECT id, name, COALESCE(brand, ''), price_per_day_cents, stock, is_booked, is_active, created_on, updated_on FROM cars`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cars []domain.Car
	for rows.Next() {
		var car domain.Car
		if err := rows.Scan(&car.ID, &car.Name, &car.Brand, &car.PricePerDayCents, &car.Stock, &car.IsBooked, &car.IsActive, &car.CreatedOn, &car.UpdatedOn); err != nil {
			return nil, err
		}
		cars = append(cars, car)
	}
	return cars, rows.Err()
}

func (r *carRepository) Update(ctx context.Context, car *domain.Car) error {
	query := `UPDATE cars SET name=$1, brand=$2, price_per_day_cents=$3, stock=$4, is_active=$5, updated_on=$6 WHERE id=$7`
	res, err := r.db.ExecContext(ctx, query, car.Name, car.Brand, car.PricePerDayCents, car.Stock, car.IsActive, time.Now(), car.ID)
	if err != nil {
		return err
	}
	return requireRow(res, domain.ErrCarNotFound)
}

// AdjustStock runs as one statement so concurrent adjustments serialize on
// the row; GREATEST keeps the non-negativity invariant.
func (r *carRepository) AdjustStock(ctx context.Context, id int32, delta int32) error {
	query := `UPDATE cars SET stock = GREATEST(stock + $1, 0), updated_on = $2 WHERE id = $3`
	res, err := r.db.ExecContext(ctx, query, delta, time.Now(), id)
	if err != nil {
		return err
	}
	return requireRow(res, domain.ErrCarNotFound)
}

func (r *carRepository) SetBooked(ctx context.Context, id int32, booked bool) error {
	query := `UPDATE cars SET is_booked = $1, updated_on = $2 WHERE id = $3`
	res, err := r.db.ExecContext(ctx, query, booked, time.Now(), id)
	if err != nil {
		return err
	}
	return requireRow(res, domain.ErrCarNotFound)
}

func requireRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
