package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"driveline-backend/internal/domain"
	"driveline-backend/internal/pricing"
	"driveline-backend/internal/repository"
)

type rateSheetRepository struct {
	db *sql.DB
}

func NewRateSheetRepository(db *sql.DB) repository.RateSheetRepository {
	return &rateSheetRepository{db: db}
}

// protectionRateRow mirrors the JSONB shape stored in rate_sheets.protection_rates.
type protectionRateRow struct {
	Plan           string `json:"plan"`
	Category       string `json:"category"`
	DailyRateCents int64  `json:"daily_rate_cents"`
}

// EffectiveAt loads the newest rate-sheet version whose effective_from is not
// after the given instant. Calculations must always use the sheet effective
// at booking time, never blindly the current one.
func (r *rateSheetRepository) EffectiveAt(ctx context.Context, at time.Time) (*pricing.RateSheet, error) {
	query := `SELECT version, effective_from,
		license_recovery_per_day_cents, facility_charge_per_day_cents,
		protection_rates, driver_daily_rates, young_driver_fee_cents,
		late_grace_minutes, late_fee_variant, late_hourly_percent_bps,
		delivery_brackets, taxes
	FROM rate_sheets WHERE effective_from <= $1
	ORDER BY effective_from DESC LIMIT 1`

	var (
		sheet           pricing.RateSheet
		protectionJSON  []byte
		driverRatesJSON []byte
		deliveryJSON    []byte
		taxesJSON       []byte
		lateVariant     string
	)
	err := r.db.QueryRowContext(ctx, query, at).Scan(
		&sheet.Version, &sheet.EffectiveFrom,
		&sheet.LicenseRecoveryPerDayCents, &sheet.FacilityChargePerDayCents,
		&protectionJSON, &driverRatesJSON, &sheet.YoungDriverFeeCents,
		&sheet.LatePolicy.GraceMinutes, &lateVariant, &sheet.LatePolicy.HourlyPercentBps,
		&deliveryJSON, &taxesJSON)
	if err != nil {
		return nil, fmt.Errorf("load rate sheet effective at %s: %w", at.Format(time.RFC3339), err)
	}
	sheet.LatePolicy.Variant = pricing.LateFeeVariant(lateVariant)

	var protectionRows []protectionRateRow
	if err := json.Unmarshal(protectionJSON, &protectionRows); err != nil {
		return nil, fmt.Errorf("parse protection rates for sheet %s: %w", sheet.Version, err)
	}
	sheet.ProtectionDailyRates = make(map[pricing.PlanKey]int64, len(protectionRows))
	for _, row := range protectionRows {
		sheet.ProtectionDailyRates[pricing.PlanKey{Plan: row.Plan, Category: row.Category}] = row.DailyRateCents
	}

	if err := json.Unmarshal(driverRatesJSON, &sheet.DriverDailyRates); err != nil {
		return nil, fmt.Errorf("parse driver rates for sheet %s: %w", sheet.Version, err)
	}
	if err := json.Unmarshal(deliveryJSON, &sheet.DeliveryBrackets); err != nil {
		return nil, fmt.Errorf("parse delivery brackets for sheet %s: %w", sheet.Version, err)
	}
	if err := json.Unmarshal(taxesJSON, &sheet.Taxes); err != nil {
		return nil, fmt.Errorf("parse taxes for sheet %s: %w", sheet.Version, err)
	}

	if sheet.DriverDailyRates == nil {
		sheet.DriverDailyRates = map[domain.AgeBand]int64{}
	}
	return &sheet, nil
}
