package postgres

import (
	"context"
	"database/sql"

	"carbook-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.CarRepository
	repository.BookingRepository
	repository.StatsRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                db,
		CarRepository:     NewCarRepository(db),
		BookingRepository: NewBookingRepository(db),
		StatsRepository:   NewStatsRepository(db),
	}
}

// Migrate creates the schema. The exclusion constraint on bookings is what
// closes the check-then-act race between the availability check and the
// insert: two racing creates for overlapping live bookings cannot both
// commit. daterange is half-open, matching the overlap rule in the service.
func Migrate(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS btree_gist`,
		`CREATE TABLE IF NOT EXISTS cars (
			id                  SERIAL PRIMARY KEY,
			name                TEXT NOT NULL,
			brand               TEXT NOT NULL DEFAULT '',
			price_per_day_cents INTEGER NOT NULL DEFAULT 0,
			stock               INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
			is_booked           BOOLEAN NOT NULL DEFAULT FALSE,
			is_active           BOOLEAN NOT NULL DEFAULT TRUE,
			created_on          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_on          TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS bookings (
			id                    SERIAL PRIMARY KEY,
			reference             TEXT NOT NULL UNIQUE,
			car_id                INTEGER NOT NULL REFERENCES cars(id),
			customer_id           INTEGER,
			customer_name         TEXT NOT NULL,
			customer_email        TEXT NOT NULL,
			customer_phone        TEXT NOT NULL,
			start_date            DATE NOT NULL,
			end_date              DATE NOT NULL,
			total_days            INTEGER NOT NULL CHECK (total_days >= 1),
			total_price_cents     INTEGER NOT NULL,
			advance_payment_cents INTEGER NOT NULL DEFAULT 0,
			status                TEXT NOT NULL DEFAULT 'pending',
			payment_status        TEXT NOT NULL DEFAULT 'unpaid',
			payment_method        TEXT NOT NULL,
			notes                 TEXT NOT NULL DEFAULT '',
			created_on            TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_on            TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CHECK (start_date <= end_date),
			CHECK (advance_payment_cents >= 0 AND advance_payment_cents <= total_price_cents)
		)`,
		`ALTER TABLE bookings DROP CONSTRAINT IF EXISTS bookings_no_live_overlap`,
		`ALTER TABLE bookings ADD CONSTRAINT bookings_no_live_overlap
			EXCLUDE USING gist (car_id WITH =, daterange(start_date, end_date) WITH &&)
			WHERE (status IN ('pending', 'confirmed'))`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_car_status ON bookings (car_id, status)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_created_on ON bookings (created_on)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
