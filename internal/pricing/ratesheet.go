package pricing

import (
	"time"

	"driveline-backend/internal/domain"
)

// ProtectionPlanNone means no protection line is added to the breakdown.
const ProtectionPlanNone = "none"

// PlanKey identifies a protection daily rate by plan tier and vehicle
// category.
type PlanKey struct {
	Plan     string
	Category string
}

type LateFeeVariant string

const (
	// LateFeeHourlyPercent bills a percentage of the daily rate per started
	// hour, uncapped.
	LateFeeHourlyPercent LateFeeVariant = "HOURLY_PERCENT"
	// LateFeeTieredDay bills the hourly percentage for the first two hours,
	// then a flat full-day charge from hour three onward.
	LateFeeTieredDay LateFeeVariant = "TIERED_DAY"
)

// LateFeePolicy is the late-return billing policy carried on a rate sheet.
// The variant is rate-sheet data, not a branch the caller selects.
type LateFeePolicy struct {
	GraceMinutes     int            `json:"grace_minutes"`
	Variant          LateFeeVariant `json:"variant"`
	HourlyPercentBps int64          `json:"hourly_percent_bps"` // percent of daily rate, basis points
}

// DeliveryBracket maps distances up to and including MaxKm to a flat fee.
// Brackets are ordered ascending by MaxKm and are contiguous from zero; any
// distance beyond the last bracket is ineligible for delivery.
type DeliveryBracket struct {
	MaxKm    float64 `json:"max_km"`
	FeeCents int64   `json:"fee_cents"`
}

// TaxRate is one named percentage component applied to the subtotal.
type TaxRate struct {
	Name    string `json:"name"`
	RateBps int64  `json:"rate_bps"`
}

// RateSheet is the versioned, immutable set of pricing constants effective
// over a time window. It is always passed explicitly into calculations;
// callers select the version effective at booking pickup or creation time.
type RateSheet struct {
	Version       string    `json:"version"`
	EffectiveFrom time.Time `json:"effective_from"`

	// Per-day regulatory surcharges, charged on every rental regardless of
	// vehicle price.
	LicenseRecoveryPerDayCents int64 `json:"license_recovery_per_day_cents"`
	FacilityChargePerDayCents  int64 `json:"facility_charge_per_day_cents"`

	ProtectionDailyRates map[PlanKey]int64        `json:"-"`
	DriverDailyRates     map[domain.AgeBand]int64 `json:"driver_daily_rates"`
	YoungDriverFeeCents  int64                    `json:"young_driver_fee_cents"`

	LatePolicy       LateFeePolicy     `json:"late_policy"`
	DeliveryBrackets []DeliveryBracket `json:"delivery_brackets"`
	Taxes            []TaxRate         `json:"taxes"`
}

// ProtectionDailyRate resolves the daily rate for a plan/category pair.
// Unknown pairs resolve to zero rather than failing: historical bookings may
// reference retired plans.
func (rs *RateSheet) ProtectionDailyRate(plan, category string) int64 {
	if plan == "" || plan == ProtectionPlanNone {
		return 0
	}
	if rate, ok := rs.ProtectionDailyRates[PlanKey{Plan: plan, Category: category}]; ok {
		return rate
	}
	return 0
}

// DriverDailyRate resolves the additional-driver daily rate for an age band,
// falling back to the standard band for unknown values.
func (rs *RateSheet) DriverDailyRate(band domain.AgeBand) int64 {
	if rate, ok := rs.DriverDailyRates[band]; ok {
		return rate
	}
	return rs.DriverDailyRates[domain.AgeBandStandard]
}
