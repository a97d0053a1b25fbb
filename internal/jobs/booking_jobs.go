package jobs

import (
	"context"
	"fmt"
	"time"

	"driveline-backend/internal/domain"
	"driveline-backend/internal/logger"
)

// MarkOverdueBookings raises a LATE_RETURN alert for every ACTIVE booking past
// its scheduled return. The booking stays ACTIVE until staff completes it at
// the counter; the alert upsert refreshes the overdue duration on each run
// without piling up duplicate rows.
func (jr *JobRunner) MarkOverdueBookings() {
	jr.runWithRecovery("MarkOverdueBookings", func() {
		ctx := context.Background()
		now := time.Now()

		overdue, err := jr.store.ListOverdueActive(ctx, now)
		if err != nil {
			logger.Error("Failed to list overdue bookings", "error", err)
			return
		}

		count := 0
		for i := range overdue {
			b := &overdue[i]
			hoursOverdue := int(now.Sub(b.ScheduledReturnAt).Hours())
			err := jr.store.AlertRepository.Upsert(ctx, &domain.StaffAlert{
				BookingID: b.ID,
				Type:      domain.AlertTypeLateReturn,
				Message:   fmt.Sprintf("Vehicle not returned: %dh past the scheduled return", hoursOverdue),
			})
			if err != nil {
				logger.Error("Failed to raise late-return alert", "booking_id", b.ID, "error", err)
				continue
			}
			count++
			logger.Debug("Late-return alert raised",
				"booking_id", b.ID,
				"customer_id", b.CustomerID,
				"scheduled_return_at", b.ScheduledReturnAt,
				"hours_overdue", hoursOverdue)
		}

		logger.Info("Overdue bookings flagged", "count", count)
	})
}

// SweepStaleDepositHolds flags deposit holds still authorized on bookings that
// reached a terminal status more than the configured number of days ago. A
// hold that old means the release or capture never happened and card networks
// will start dropping the authorization.
func (jr *JobRunner) SweepStaleDepositHolds() {
	jr.runWithRecovery("SweepStaleDepositHolds", func() {
		ctx := context.Background()
		threshold := time.Now().AddDate(0, 0, -jr.config.Billing.StaleHoldDays)

		query := `
			SELECT id, deposit_cents, status, updated_at
			FROM bookings
			WHERE status IN ('completed', 'cancelled')
			  AND deposit_hold_authorized
			  AND deposit_cents > 0
			  AND updated_at < $1
			  AND NOT EXISTS (
			      SELECT 1 FROM ledger_entries
			      WHERE ledger_entries.booking_id = bookings.id
			        AND ledger_entries.type IN ('DEPOSIT_RELEASE', 'DEPOSIT_CAPTURE')
			  )
		`
		rows, err := jr.db.QueryContext(ctx, query, threshold)
		if err != nil {
			logger.Error("Failed to query stale deposit holds", "error", err)
			return
		}
		defer rows.Close()

		count := 0
		for rows.Next() {
			var (
				id           int64
				depositCents int64
				status       string
				updatedAt    time.Time
			)
			if err := rows.Scan(&id, &depositCents, &status, &updatedAt); err != nil {
				logger.Error("Failed to scan stale deposit hold", "error", err)
				continue
			}
			err := jr.store.AlertRepository.Upsert(ctx, &domain.StaffAlert{
				BookingID: id,
				Type:      domain.AlertTypeStaleDepositHold,
				Message: fmt.Sprintf("Deposit hold still authorized %d days after the booking went %s",
					int(time.Since(updatedAt).Hours()/24), status),
			})
			if err != nil {
				logger.Error("Failed to raise stale-hold alert", "booking_id", id, "error", err)
				continue
			}
			count++
		}
		if err := rows.Err(); err != nil {
			logger.Error("Error iterating stale deposit holds", "error", err)
			return
		}

		logger.Info("Stale deposit holds flagged", "count", count)
	})
}
