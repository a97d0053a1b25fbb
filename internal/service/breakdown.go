package service

import (
	"context"
	"fmt"
	"time"

	"driveline-backend/internal/domain"
	"driveline-backend/internal/logger"
	"driveline-backend/internal/pricing"
	"driveline-backend/internal/repository"
)

type breakdownService struct {
	bookingRepo repository.BookingRepository
	rateSheets  repository.RateSheetRepository
	alertRepo   repository.AlertRepository
	cutover     time.Time
}

// NewBreakdownService wires the reconciliation view. cutover is the instant
// from which bookings are guaranteed itemized at write time.
func NewBreakdownService(bookingRepo repository.BookingRepository, rateSheets repository.RateSheetRepository, alertRepo repository.AlertRepository, cutover time.Time) BreakdownService {
	return &breakdownService{bookingRepo: bookingRepo, rateSheets: rateSheets, alertRepo: alertRepo, cutover: cutover}
}

func (s *breakdownService) GetBreakdown(ctx context.Context, bookingID int64) (*pricing.ReconciledBreakdown, error) {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	// Reconcile against the sheet that was in force when the booking was
	// priced, not today's rates.
	sheet, err := s.rateSheets.EffectiveAt(ctx, b.CreatedAt)
	if err != nil {
		return nil, err
	}

	res, err := pricing.Reconcile(b, sheet, s.cutover)
	if err != nil {
		return nil, err
	}

	if res.Classification == pricing.ClassificationIntegrityError {
		logger.Error("Booking breakdown failed integrity reconciliation",
			"booking_id", b.ID,
			"delta_cents", res.DeltaCents,
			"persisted_subtotal_cents", res.PersistedSubtotalCents)
		if alertErr := s.alertRepo.Upsert(ctx, &domain.StaffAlert{
			BookingID: b.ID,
			Type:      domain.AlertTypeReconMismatch,
			Message: fmt.Sprintf("Persisted subtotal differs from recomputed charges by %s on a post-cutover booking",
				pricing.FormatCents(res.DeltaCents)),
		}); alertErr != nil {
			logger.Error("Failed to raise reconciliation alert", "booking_id", b.ID, "error", alertErr)
		}
	}
	return res, nil
}
