package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"carbook-backend/internal/domain"
	"carbook-backend/internal/repository"

	"github.com/lib/pq"
)

const bookingColumns = `id, reference, car_id, customer_id, customer_name, customer_email, customer_phone,
	start_date, end_date, total_days, total_price_cents, advance_payment_cents,
	status, payment_status, payment_method, COALESCE(notes, ''), created_on, updated_on`

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	query := `INSERT INTO bookings (reference, car_id, customer_id, customer_name, customer_email, customer_phone,
	            start_date, end_date, total_days, total_price_cents, advance_payment_cents,
	            status, payment_status, payment_method, notes, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	          RETURNING id`
	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		b.Reference, b.CarID, b.CustomerID, b.CustomerName, b.CustomerEmail, b.CustomerPhone,
		b.StartDate, b.EndDate, b.TotalDays, b.TotalPriceCents, b.AdvancePaymentCents,
		b.Status, b.PaymentStatus, b.PaymentMethod, b.Notes, now, now).Scan(&b.ID)
	if err != nil {
		return mapConflict(err)
	}
	b.CreatedOn = now
	b.UpdatedOn = now
	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id int32) (*domain.Booking, error) {
	query := fmt.Sprintf(`SELECT %s FROM bookings WHERE id = $1`, bookingColumns)
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *bookingRepository) GetByReference(ctx context.Context, ref string) (*domain.Booking, error) {
	query := fmt.Sprintf(`SELECT %s FROM bookings WHERE reference = $1`, bookingColumns)
	return r.scanOne(r.db.QueryRowContext(ctx, query, ref))
}

func (r *bookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	query := `UPDATE bookings SET customer_name=$1, customer_email=$2, customer_phone=$3,
	            start_date=$4, end_date=$5, total_days=$6, total_price_cents=$7, advance_payment_cents=$8,
	            status=$9, payment_status=$10, payment_method=$11, notes=$12, updated_on=$13
	          WHERE id=$14`
	// Stamp on the struct so callers return the same updated_on the row got.
	now := time.Now()
	res, err := r.db.ExecContext(ctx, query,
		b.CustomerName, b.CustomerEmail, b.CustomerPhone,
		b.StartDate, b.EndDate, b.TotalDays, b.TotalPriceCents, b.AdvancePaymentCents,
		b.Status, b.PaymentStatus, b.PaymentMethod, b.Notes, now, b.ID)
	if err != nil {
		return mapConflict(err)
	}
	if err := requireRow(res, domain.ErrBookingNotFound); err != nil {
		return err
	}
	b.UpdatedOn = now
	return nil
}

func (r *bookingRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res, domain.ErrBookingNotFound)
}

func (r *bookingRepository) List(ctx context.Context, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	query := fmt.Sprintf(`SELECT %s FROM bookings`, bookingColumns)
	countQuery := `SELECT count(*) FROM bookings`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = $1`
		countQuery += ` WHERE status = $1`
		args = append(args, status)
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY created_on DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, count, rows.Err()
}

// CountOverlapping applies the half-open comparison on stored boundaries:
// start_date < $end AND end_date > $start. A booking ending on day X never
// clashes with one starting on day X.
func (r *bookingRepository) CountOverlapping(ctx context.Context, carID int32, start, end time.Time, excludeID int32) (int32, error) {
	query := `SELECT count(*) FROM bookings
	          WHERE car_id = $1
	            AND status IN ('pending', 'confirmed')
	            AND start_date < $2 AND end_date > $3
	            AND ($4 = 0 OR id <> $4)`
	var count int32
	err := r.db.QueryRowContext(ctx, query, carID, end, start, excludeID).Scan(&count)
	return count, err
}

func (r *bookingRepository) HasConfirmedCovering(ctx context.Context, carID int32, day time.Time, excludeID int32) (bool, error) {
	query := `SELECT EXISTS (
	            SELECT 1 FROM bookings
	            WHERE car_id = $1
	              AND status = 'confirmed'
	              AND start_date <= $2 AND end_date >= $2
	              AND ($3 = 0 OR id <> $3))`
	var exists bool
	err := r.db.QueryRowContext(ctx, query, carID, day, excludeID).Scan(&exists)
	return exists, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *bookingRepository) scanOne(row *sql.Row) (*domain.Booking, error) {
	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	b := &domain.Booking{}
	err := row.Scan(&b.ID, &b.Reference, &b.CarID, &b.CustomerID, &b.CustomerName, &b.CustomerEmail, &b.CustomerPhone,
		&b.StartDate, &b.EndDate, &b.TotalDays, &b.TotalPriceCents, &b.AdvancePaymentCents,
		&b.Status, &b.PaymentStatus, &b.PaymentMethod, &b.Notes, &b.CreatedOn, &b.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// mapConflict turns an exclusion-constraint violation (two live bookings for
// the same car with overlapping ranges) into the domain conflict error.
func mapConflict(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23P01" {
		return domain.ErrDateConflict
	}
	return err
}
