package pricing

import (
	"fmt"
	"time"

	"driveline-backend/internal/domain"
)

// Classification tags the delta between a booking's persisted subtotal and
// the recomputed itemization.
type Classification string

const (
	// ClassificationExact means the recomputed lines reproduce the persisted
	// subtotal to the cent.
	ClassificationExact Classification = "EXACT"
	// ClassificationInferredCharge means the delta pattern-matched a known
	// historical charge (unrecorded additional drivers).
	ClassificationInferredCharge Classification = "INFERRED_CHARGE"
	// ClassificationManualAdjustment is the pre-cutover bucket for deltas
	// that match no known pattern; shown to staff as an unattributed legacy
	// amount, never hidden.
	ClassificationManualAdjustment Classification = "MANUAL_ADJUSTMENT"
	// ClassificationIntegrityError flags a nonzero delta on a booking
	// created at or after the itemization cutover. Those records must have
	// been itemized at write time, so the delta indicates a billing bug or
	// corrupted row and must be surfaced loudly.
	ClassificationIntegrityError Classification = "DATA_INTEGRITY_ERROR"
)

// ReconciledBreakdown is a recomputed itemization plus the classification of
// any difference against the persisted subtotal. Tax and total are always the
// persisted values: tax was a downstream function of whatever subtotal was
// actually charged, and is never recomputed here.
type ReconciledBreakdown struct {
	Breakdown

	PersistedSubtotalCents int64          `json:"persisted_subtotal_cents"`
	DeltaCents             int64          `json:"delta_cents"`
	Classification         Classification `json:"classification"`
	InferredLabel          string         `json:"inferred_label,omitempty"`
	InferredAmountCents    int64          `json:"inferred_amount_cents,omitempty"`
	Note                   string         `json:"note,omitempty"`
}

// driverInferenceTolerance allows one cent of integer-rounding slack when
// matching a delta against candidate driver charges.
const driverInferenceTolerance = 1

// maxInferredDrivers bounds the pattern search. Widening it risks
// false-positive matches on unrelated deltas.
const maxInferredDrivers = 4

// Reconcile recomputes the itemized charges for a persisted booking from its
// flat columns and child rows, then classifies the difference between the
// recomputed and persisted subtotals. The booking is never mutated; the
// result is display- and audit-oriented only.
func Reconcile(b *domain.Booking, sheet *RateSheet, cutover time.Time) (*ReconciledBreakdown, error) {
	trip := TripParams{
		DailyRateCents:        b.DailyRateCents,
		TotalDays:             b.TotalDays,
		ProtectionPlan:        b.ProtectionPlan,
		VehicleCategory:       b.VehicleCategory,
		YoungDriverFeeCents:   b.YoungDriverFeeCents,
		DifferentDropoffCents: b.DifferentDropoffCents,
		UpgradeDailyFeeCents:  b.UpgradeDailyFeeCents,
		DeliveryFeeCents:      b.DeliveryFeeCents,
		LateReturnFeeCents:    ResolveLateFee(LateFeeResult{FeeCents: b.LateReturnFeeCents}, b.LateFeeOverrideCents),
	}
	for _, a := range b.Addons {
		trip.Addons = append(trip.Addons, AddonSelection{
			Code:           a.AddonCode,
			Label:          a.Label,
			UnitPriceCents: a.UnitPriceCents,
			Quantity:       a.Quantity,
		})
	}
	for _, d := range b.AdditionalDrivers {
		trip.AdditionalDrivers = append(trip.AdditionalDrivers, DriverEntry{
			Name:             d.Name,
			Band:             d.AgeBand,
			FeeOverrideCents: d.FeeOverrideCents,
		})
	}

	computed, err := Compute(trip, sheet)
	if err != nil {
		return nil, fmt.Errorf("reconcile booking %d: %w", b.ID, err)
	}

	res := &ReconciledBreakdown{
		Breakdown:              *computed,
		PersistedSubtotalCents: b.SubtotalCents,
		DeltaCents:             b.SubtotalCents - computed.SubtotalCents,
	}

	switch {
	case res.DeltaCents == 0:
		res.Classification = ClassificationExact

	case res.DeltaCents > 0 && len(b.AdditionalDrivers) == 0 && b.CreatedAt.Before(cutover):
		// Inference only applies to legacy records; at or after the cutover
		// any delta is an integrity error even when it happens to match a
		// driver-fee pattern.
		if label, ok := inferDriverCharge(res.DeltaCents, b.TotalDays, sheet); ok {
			res.Classification = ClassificationInferredCharge
			res.InferredLabel = label
			res.InferredAmountCents = res.DeltaCents
			res.addLine(Line{Label: label, UnitCents: res.DeltaCents, Quantity: 1, AmountCents: res.DeltaCents})
		} else {
			classifyUnmatched(res, b.CreatedAt, cutover)
		}

	default:
		// Negative deltas and bookings that already carry driver rows are
		// never pattern-matched.
		classifyUnmatched(res, b.CreatedAt, cutover)
	}

	// Persisted tax and total stand as charged.
	res.Taxes = []TaxLine{{Name: "Tax (as charged)", AmountCents: b.TaxCents}}
	res.TotalCents = b.TotalCents

	return res, nil
}

func classifyUnmatched(res *ReconciledBreakdown, createdAt, cutover time.Time) {
	if !createdAt.Before(cutover) {
		res.Classification = ClassificationIntegrityError
		res.Note = fmt.Sprintf("unexplained %s delta on a booking required to be itemized at write time", FormatCents(res.DeltaCents))
		return
	}
	res.Classification = ClassificationManualAdjustment
	res.Note = "unattributed legacy amount; booking predates itemized charge storage"
	res.addLine(Line{Label: "Manual Adjustment (legacy)", UnitCents: res.DeltaCents, Quantity: 1, AmountCents: res.DeltaCents})
}

// inferDriverCharge tests whether delta equals an additional-driver charge at
// either age-band rate for one to four drivers, within one cent. Rates scan
// in a fixed order (standard, then young), then ascending count; the first
// match wins.
func inferDriverCharge(deltaCents int64, totalDays int, sheet *RateSheet) (string, bool) {
	bands := []struct {
		band  domain.AgeBand
		title string
	}{
		{domain.AgeBandStandard, "Standard"},
		{domain.AgeBandYoung, "Young"},
	}
	for _, bd := range bands {
		rate := sheet.DriverDailyRates[bd.band]
		if rate <= 0 {
			continue
		}
		for n := 1; n <= maxInferredDrivers; n++ {
			candidate := rate * int64(totalDays) * int64(n)
			if absCents(deltaCents-candidate) <= driverInferenceTolerance {
				label := fmt.Sprintf("Additional Drivers, %s (%d x %s/day x %dd)",
					bd.title, n, FormatCents(rate), totalDays)
				return label, true
			}
		}
	}
	return "", false
}
