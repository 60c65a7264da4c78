package postgres

import (
	"context"
	"database/sql"
	"time"

	"carbook-backend/internal/domain"
	"carbook-backend/internal/repository"
)

type statsRepository struct {
	db *sql.DB
}

func NewStatsRepository(db *sql.DB) repository.StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) CountAndRevenue(ctx context.Context, from, to time.Time) (int32, int64, error) {
	query := `SELECT count(*), COALESCE(SUM(advance_payment_cents), 0)
	          FROM bookings WHERE created_on >= $1 AND created_on < $2`
	var count int32
	var revenue int64
	err := r.db.QueryRowContext(ctx, query, from, to).Scan(&count, &revenue)
	return count, revenue, err
}

func (r *statsRepository) TopCars(ctx context.Context, limit int32) ([]domain.TopCar, error) {
	query := `SELECT c.id, c.name, count(b.id) AS bookings
	          FROM bookings b
	          JOIN cars c ON c.id = b.car_id
	          WHERE b.status IN ('confirmed', 'completed')
	          GROUP BY c.id, c.name
	          ORDER BY bookings DESC, c.id
	          LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cars []domain.TopCar
	for rows.Next() {
		var tc domain.TopCar
		if err := rows.Scan(&tc.CarID, &tc.Name, &tc.Bookings); err != nil {
			return nil, err
		}
		cars = append(cars, tc)
	}
	return cars, rows.Err()
}

// CreationCountsByDay buckets creations into calendar days in the app's own
// zone rather than in SQL. Rendering the day with to_char would use the
// database session's TimeZone, and a UTC session paired with a local-time
// server puts late-evening or early-morning creations on the wrong key.
func (r *statsRepository) CreationCountsByDay(ctx context.Context, from, to time.Time) (map[string]int32, error) {
	query := `SELECT created_on FROM bookings WHERE created_on >= $1 AND created_on < $2`
	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int32)
	for rows.Next() {
		var createdOn time.Time
		if err := rows.Scan(&createdOn); err != nil {
			return nil, err
		}
		counts[domain.StartOfDay(createdOn).Format("2006-01-02")]++
	}
	return counts, rows.Err()
}
