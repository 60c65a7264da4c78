package jobs

import (
	"context"
	"time"

	"carbook-backend/internal/logger"
)

// CompletePastBookings moves confirmed bookings whose end date has passed to
// completed. Completion has no inventory effect, so a single ledger update
// suffices; the booked flags are re-derived by ReconcileBookedFlags right
// after in the nightly run.
func (jr *JobRunner) CompletePastBookings() {
	jr.runWithRecovery("CompletePastBookings", func() {
		ctx := context.Background()

		query := `
			UPDATE bookings
			SET status = 'completed',
			    updated_on = NOW()
			WHERE status = 'confirmed'
			  AND end_date < $1
			RETURNING id, reference, car_id, end_date
		`

		rows, err := jr.db.QueryContext(ctx, query, time.Now().Format("2006-01-02"))
		if err != nil {
			logger.Error("Failed to complete past bookings", "error", err)
			return
		}
		defer rows.Close()

		count := 0
		for rows.Next() {
			var id, carID int
			var reference, endDate string
			if err := rows.Scan(&id, &reference, &carID, &endDate); err != nil {
				logger.Error("Failed to scan completed booking", "error", err)
				continue
			}
			count++
			logger.Debug("Marked booking as completed",
				"booking_id", id,
				"reference", reference,
				"car_id", carID,
				"end_date", endDate)
		}

		if err := rows.Err(); err != nil {
			logger.Error("Error iterating completed bookings", "error", err)
			return
		}

		logger.Info("Marked past bookings as completed", "count", count)
	})
}

// ReconcileBookedFlags re-derives every car's booked flag from the ledger.
// The flag is a cache, never ground truth; this is the audit/repair path.
func (jr *JobRunner) ReconcileBookedFlags() {
	jr.runWithRecovery("ReconcileBookedFlags", func() {
		drifted, err := jr.booking.RecomputeBookedFlags(context.Background())
		if err != nil {
			logger.Error("Failed to reconcile booked flags", "error", err)
			return
		}
		logger.Info("Reconciled booked flags", "drifted", drifted)
	})
}
