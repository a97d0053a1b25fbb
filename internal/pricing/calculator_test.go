package pricing

import (
	"testing"
	"time"

	"driveline-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func testRateSheet() *RateSheet {
	return &RateSheet{
		Version:                    "2024-06",
		EffectiveFrom:              time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		LicenseRecoveryPerDayCents: 250, // $2.50/day
		FacilityChargePerDayCents:  175, // $1.75/day
		ProtectionDailyRates: map[PlanKey]int64{
			{Plan: "basic", Category: "economy"}:   1299,
			{Plan: "basic", Category: "suv"}:       1599,
			{Plan: "premium", Category: "economy"}: 2499,
			{Plan: "premium", Category: "suv"}:     2999,
		},
		DriverDailyRates: map[domain.AgeBand]int64{
			domain.AgeBandStandard: 1499,
			domain.AgeBandYoung:    2499,
		},
		YoungDriverFeeCents: 2500,
		LatePolicy: LateFeePolicy{
			GraceMinutes:     30,
			Variant:          LateFeeTieredDay,
			HourlyPercentBps: 2500, // 25% of daily rate per hour
		},
		DeliveryBrackets: []DeliveryBracket{
			{MaxKm: 10, FeeCents: 0},
			{MaxKm: 50, FeeCents: 4900},
		},
		Taxes: []TaxRate{
			{Name: "State Sales Tax", RateBps: 625},
			{Name: "County Surtax", RateBps: 100},
		},
	}
}

func sumLines(b *Breakdown) int64 {
	var total int64
	for _, l := range b.Lines {
		total += l.AmountCents
	}
	return total
}

func sumTaxes(b *Breakdown) int64 {
	var total int64
	for _, t := range b.Taxes {
		total += t.AmountCents
	}
	return total
}

func findLine(t *testing.T, b *Breakdown, label string) Line {
	t.Helper()
	for _, l := range b.Lines {
		if l.Label == label {
			return l
		}
	}
	t.Fatalf("line %q not found", label)
	return Line{}
}

func TestCompute_Invariants(t *testing.T) {
	sheet := testRateSheet()

	trips := []TripParams{
		{DailyRateCents: 5000, TotalDays: 3, ProtectionPlan: "basic", VehicleCategory: "economy"},
		{DailyRateCents: 8999, TotalDays: 7, ProtectionPlan: "premium", VehicleCategory: "suv",
			YoungDriverFeeCents: 2500, UpgradeDailyFeeCents: 1000, DeliveryFeeCents: 4900},
		{DailyRateCents: 12345, TotalDays: 1, ProtectionPlan: ProtectionPlanNone,
			Addons: []AddonSelection{{Code: "gps", Label: "GPS Unit", UnitPriceCents: 999, Quantity: 2}},
			AdditionalDrivers: []DriverEntry{
				{Name: "Pat", Band: domain.AgeBandStandard},
				{Name: "Sam", Band: domain.AgeBandYoung, FeeOverrideCents: 3000},
			}},
	}

	for _, trip := range trips {
		b, err := Compute(trip, sheet)
		assert.NoError(t, err)
		assert.Equal(t, b.SubtotalCents, sumLines(b), "subtotal must equal sum of lines")
		assert.Equal(t, b.TotalCents, b.SubtotalCents+sumTaxes(b), "total must equal subtotal plus taxes")
	}
}

func TestCompute_LineRules(t *testing.T) {
	sheet := testRateSheet()

	t.Run("Vehicle and regulatory lines always present", func(t *testing.T) {
		b, err := Compute(TripParams{DailyRateCents: 5000, TotalDays: 3}, sheet)
		assert.NoError(t, err)

		vehicle := findLine(t, b, "Vehicle Rental")
		assert.Equal(t, int64(15000), vehicle.AmountCents)

		license := findLine(t, b, "Vehicle Licensing Recovery Fee")
		assert.Equal(t, int64(750), license.AmountCents) // $2.50 * 3

		facility := findLine(t, b, "Customer Facility Charge")
		assert.Equal(t, int64(525), facility.AmountCents) // $1.75 * 3
	})

	t.Run("Protection line multiplied by days", func(t *testing.T) {
		b, err := Compute(TripParams{DailyRateCents: 5000, TotalDays: 4, ProtectionPlan: "basic", VehicleCategory: "suv"}, sheet)
		assert.NoError(t, err)
		plan := findLine(t, b, "Protection Plan (basic)")
		assert.Equal(t, int64(1599), plan.UnitCents)
		assert.Equal(t, int64(6396), plan.AmountCents)
	})

	t.Run("No protection line for plan none", func(t *testing.T) {
		b, err := Compute(TripParams{DailyRateCents: 5000, TotalDays: 4, ProtectionPlan: ProtectionPlanNone}, sheet)
		assert.NoError(t, err)
		for _, l := range b.Lines {
			assert.NotContains(t, l.Label, "Protection")
		}
	})

	t.Run("Unknown plan category pair falls back to zero rate", func(t *testing.T) {
		b, err := Compute(TripParams{DailyRateCents: 5000, TotalDays: 4, ProtectionPlan: "retired-gold", VehicleCategory: "economy"}, sheet)
		assert.NoError(t, err)
		for _, l := range b.Lines {
			assert.NotContains(t, l.Label, "Protection")
		}
	})

	t.Run("Addons are flat, never multiplied by days", func(t *testing.T) {
		b, err := Compute(TripParams{
			DailyRateCents: 5000, TotalDays: 7,
			Addons: []AddonSelection{{Code: "child-seat", Label: "Child Seat", UnitPriceCents: 1500, Quantity: 2}},
		}, sheet)
		assert.NoError(t, err)
		seat := findLine(t, b, "Child Seat")
		assert.Equal(t, int64(3000), seat.AmountCents)
	})

	t.Run("Driver override used as total", func(t *testing.T) {
		b, err := Compute(TripParams{
			DailyRateCents: 5000, TotalDays: 5,
			AdditionalDrivers: []DriverEntry{{Name: "Lee", Band: domain.AgeBandStandard, FeeOverrideCents: 2000}},
		}, sheet)
		assert.NoError(t, err)
		drv := findLine(t, b, "Additional Driver (Lee)")
		assert.Equal(t, int64(2000), drv.AmountCents)
		assert.Equal(t, 1, drv.Quantity)
	})

	t.Run("Driver without override billed per day", func(t *testing.T) {
		b, err := Compute(TripParams{
			DailyRateCents: 5000, TotalDays: 5,
			AdditionalDrivers: []DriverEntry{{Name: "Lee", Band: domain.AgeBandYoung}},
		}, sheet)
		assert.NoError(t, err)
		drv := findLine(t, b, "Additional Driver (Lee)")
		assert.Equal(t, int64(2499*5), drv.AmountCents)
	})

	t.Run("Upgrade fee multiplied by days, dropoff flat", func(t *testing.T) {
		b, err := Compute(TripParams{
			DailyRateCents: 5000, TotalDays: 3,
			UpgradeDailyFeeCents:  1000,
			DifferentDropoffCents: 7500,
		}, sheet)
		assert.NoError(t, err)
		assert.Equal(t, int64(3000), findLine(t, b, "Vehicle Upgrade").AmountCents)
		assert.Equal(t, int64(7500), findLine(t, b, "Different Drop-off Fee").AmountCents)
	})
}

func TestCompute_Taxes(t *testing.T) {
	sheet := testRateSheet()

	b, err := Compute(TripParams{DailyRateCents: 5000, TotalDays: 3}, sheet)
	assert.NoError(t, err)

	// Subtotal: 15000 + 750 + 525 = 16275.
	assert.Equal(t, int64(16275), b.SubtotalCents)
	assert.Len(t, b.Taxes, 2)
	// 6.25% of 16275 = 1017.1875 -> 1017; 1% = 162.75 -> 163.
	assert.Equal(t, int64(1017), b.Taxes[0].AmountCents)
	assert.Equal(t, int64(163), b.Taxes[1].AmountCents)
	assert.Equal(t, int64(16275+1017+163), b.TotalCents)
}

func TestCompute_ContractViolations(t *testing.T) {
	sheet := testRateSheet()

	t.Run("Negative daily rate", func(t *testing.T) {
		_, err := Compute(TripParams{DailyRateCents: -1, TotalDays: 3}, sheet)
		assert.ErrorIs(t, err, ErrInvalidDailyRate)
	})

	t.Run("Zero days", func(t *testing.T) {
		_, err := Compute(TripParams{DailyRateCents: 5000, TotalDays: 0}, sheet)
		assert.ErrorIs(t, err, ErrInvalidDuration)
	})

	t.Run("Negative addon price", func(t *testing.T) {
		_, err := Compute(TripParams{
			DailyRateCents: 5000, TotalDays: 3,
			Addons: []AddonSelection{{Code: "gps", UnitPriceCents: -100, Quantity: 1}},
		}, sheet)
		assert.ErrorIs(t, err, ErrNegativeAmount)
	})
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "$14.99", FormatCents(1499))
	assert.Equal(t, "$0.05", FormatCents(5))
	assert.Equal(t, "-$5.00", FormatCents(-500))
	assert.Equal(t, "$100.00", FormatCents(10000))
}
