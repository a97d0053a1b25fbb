package pricing

import (
	"errors"
	"fmt"

	"driveline-backend/internal/domain"
)

var (
	ErrInvalidDailyRate = errors.New("pricing: daily rate must not be negative")
	ErrInvalidDuration  = errors.New("pricing: rental duration must be at least one day")
	ErrNegativeAmount   = errors.New("pricing: line amounts must not be negative")
)

// AddonSelection is one flat-priced extra. The unit price already covers the
// whole rental; it is never multiplied by days.
type AddonSelection struct {
	Code           string
	Label          string
	UnitPriceCents int64
	Quantity       int
}

// DriverEntry is one additional driver. A positive FeeOverrideCents is a
// staff-entered total and replaces the rate-sheet daily rate entirely.
type DriverEntry struct {
	Name             string
	Band             domain.AgeBand
	FeeOverrideCents int64
}

// TripParams are the inputs to a price computation. Fee fields are amounts in
// integer cents resolved by the caller (from the rate sheet at checkout, from
// the persisted columns during reconciliation); each is included only when
// positive.
type TripParams struct {
	DailyRateCents  int64
	TotalDays       int
	ProtectionPlan  string
	VehicleCategory string

	Addons            []AddonSelection
	AdditionalDrivers []DriverEntry

	YoungDriverFeeCents   int64 // flat, young primary driver
	DifferentDropoffCents int64 // flat
	UpgradeDailyFeeCents  int64 // per day
	DeliveryFeeCents      int64 // flat, from the delivery bracket policy
	LateReturnFeeCents    int64 // flat, billed at return
}

// Line is one labeled charge in a breakdown. AmountCents is always
// UnitCents extended by Quantity, already rounded to the cent.
type Line struct {
	Label       string `json:"label"`
	UnitCents   int64  `json:"unit_cents"`
	Quantity    int    `json:"quantity"`
	AmountCents int64  `json:"amount_cents"`
}

// TaxLine is one named tax component applied to the subtotal.
type TaxLine struct {
	Name        string `json:"name"`
	RateBps     int64  `json:"rate_bps"`
	AmountCents int64  `json:"amount_cents"`
}

// Breakdown is a fully itemized price. Invariants, exact in integer cents:
// SubtotalCents equals the sum of line amounts, and TotalCents equals
// SubtotalCents plus the sum of tax amounts.
type Breakdown struct {
	Lines         []Line    `json:"lines"`
	SubtotalCents int64     `json:"subtotal_cents"`
	Taxes         []TaxLine `json:"taxes"`
	TotalCents    int64     `json:"total_cents"`
}

// Compute produces the itemized breakdown for a trip against a rate sheet.
// It is pure: no I/O, safe for concurrent use.
func Compute(trip TripParams, sheet *RateSheet) (*Breakdown, error) {
	if trip.DailyRateCents < 0 {
		return nil, ErrInvalidDailyRate
	}
	if trip.TotalDays < 1 {
		return nil, ErrInvalidDuration
	}

	days := int64(trip.TotalDays)
	b := &Breakdown{}

	b.addLine(Line{
		Label:       "Vehicle Rental",
		UnitCents:   trip.DailyRateCents,
		Quantity:    trip.TotalDays,
		AmountCents: trip.DailyRateCents * days,
	})

	if rate := sheet.ProtectionDailyRate(trip.ProtectionPlan, trip.VehicleCategory); rate > 0 {
		b.addLine(Line{
			Label:       fmt.Sprintf("Protection Plan (%s)", trip.ProtectionPlan),
			UnitCents:   rate,
			Quantity:    trip.TotalDays,
			AmountCents: rate * days,
		})
	}

	for _, a := range trip.Addons {
		if a.UnitPriceCents < 0 {
			return nil, ErrNegativeAmount
		}
		if a.Quantity < 1 {
			continue
		}
		label := a.Label
		if label == "" {
			label = a.Code
		}
		b.addLine(Line{
			Label:       label,
			UnitCents:   a.UnitPriceCents,
			Quantity:    a.Quantity,
			AmountCents: a.UnitPriceCents * int64(a.Quantity),
		})
	}

	for _, d := range trip.AdditionalDrivers {
		if d.FeeOverrideCents < 0 {
			return nil, ErrNegativeAmount
		}
		label := "Additional Driver"
		if d.Name != "" {
			label = fmt.Sprintf("Additional Driver (%s)", d.Name)
		}
		if d.FeeOverrideCents > 0 {
			// Override is a total, not a rate.
			b.addLine(Line{Label: label, UnitCents: d.FeeOverrideCents, Quantity: 1, AmountCents: d.FeeOverrideCents})
			continue
		}
		rate := sheet.DriverDailyRate(d.Band)
		if rate <= 0 {
			continue
		}
		b.addLine(Line{Label: label, UnitCents: rate, Quantity: trip.TotalDays, AmountCents: rate * days})
	}

	if trip.YoungDriverFeeCents > 0 {
		b.addFlatLine("Young Driver Fee", trip.YoungDriverFeeCents)
	}
	if trip.DifferentDropoffCents > 0 {
		b.addFlatLine("Different Drop-off Fee", trip.DifferentDropoffCents)
	}
	if trip.UpgradeDailyFeeCents > 0 {
		b.addLine(Line{
			Label:       "Vehicle Upgrade",
			UnitCents:   trip.UpgradeDailyFeeCents,
			Quantity:    trip.TotalDays,
			AmountCents: trip.UpgradeDailyFeeCents * days,
		})
	}
	if trip.DeliveryFeeCents > 0 {
		b.addFlatLine("Delivery Fee", trip.DeliveryFeeCents)
	}
	if trip.LateReturnFeeCents > 0 {
		b.addFlatLine("Late Return Fee", trip.LateReturnFeeCents)
	}

	// Regulatory surcharges apply to every rental at their own per-day
	// constants, independent of the vehicle price.
	b.addLine(Line{
		Label:       "Vehicle Licensing Recovery Fee",
		UnitCents:   sheet.LicenseRecoveryPerDayCents,
		Quantity:    trip.TotalDays,
		AmountCents: sheet.LicenseRecoveryPerDayCents * days,
	})
	b.addLine(Line{
		Label:       "Customer Facility Charge",
		UnitCents:   sheet.FacilityChargePerDayCents,
		Quantity:    trip.TotalDays,
		AmountCents: sheet.FacilityChargePerDayCents * days,
	})

	b.applyTaxes(sheet.Taxes)
	return b, nil
}

func (b *Breakdown) addLine(l Line) {
	b.Lines = append(b.Lines, l)
	b.SubtotalCents += l.AmountCents
}

func (b *Breakdown) addFlatLine(label string, amountCents int64) {
	b.addLine(Line{Label: label, UnitCents: amountCents, Quantity: 1, AmountCents: amountCents})
}

func (b *Breakdown) applyTaxes(rates []TaxRate) {
	b.TotalCents = b.SubtotalCents
	for _, t := range rates {
		amount := percentOfCents(b.SubtotalCents, t.RateBps)
		b.Taxes = append(b.Taxes, TaxLine{Name: t.Name, RateBps: t.RateBps, AmountCents: amount})
		b.TotalCents += amount
	}
}
