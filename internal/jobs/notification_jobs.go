package jobs

import (
	"context"
	"time"

	"driveline-backend/internal/logger"
)

// SendPickupReminders emails customers whose CONFIRMED booking picks up within
// the next 24 hours. The (booking, stage) notification key keeps repeated runs
// from re-mailing anyone.
func (jr *JobRunner) SendPickupReminders() {
	jr.runWithRecovery("SendPickupReminders", func() {
		ctx := context.Background()
		now := time.Now()

		upcoming, err := jr.store.ListUpcomingPickups(ctx, now, now.Add(24*time.Hour))
		if err != nil {
			logger.Error("Failed to list upcoming pickups", "error", err)
			return
		}

		sent := 0
		for i := range upcoming {
			b := &upcoming[i]
			if err := jr.services.Notifier.SendPickupReminder(ctx, b); err != nil {
				logger.Error("Failed to send pickup reminder", "booking_id", b.ID, "error", err)
				continue
			}
			sent++
		}

		logger.Info("Pickup reminders processed", "candidates", len(upcoming), "sent", sent)
	})
}
