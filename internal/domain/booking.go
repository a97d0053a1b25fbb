package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusActive    BookingStatus = "active"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// IsTerminal reports whether the status admits no further transitions.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled
}

// AgeBand buckets a driver for rate-sheet lookups.
type AgeBand string

const (
	AgeBandStandard AgeBand = "standard"
	AgeBandYoung    AgeBand = "young"
)

// Booking is the flat persisted record for one rental. Every monetary column
// is integer cents, snapshotted at checkout; the itemized view is recomputed
// from these columns and the child rows, never stored.
type Booking struct {
	ID               int64  `json:"id"`
	CustomerID       int64  `json:"customer_id"`
	PickupLocationID int64  `json:"pickup_location_id"`
	VehicleID        *int64 `json:"vehicle_id,omitempty"`
	VehicleCategory  string `json:"vehicle_category"`

	Status BookingStatus `json:"status"`

	DailyRateCents int64   `json:"daily_rate_cents"`
	TotalDays      int     `json:"total_days"`
	ProtectionPlan string  `json:"protection_plan"`
	DriverAgeBand  AgeBand `json:"driver_age_band"`

	YoungDriverFeeCents   int64  `json:"young_driver_fee_cents"`
	DifferentDropoffCents int64  `json:"different_dropoff_fee_cents"`
	UpgradeDailyFeeCents  int64  `json:"upgrade_daily_fee_cents"`
	DeliveryFeeCents      int64  `json:"delivery_fee_cents"`
	LateReturnFeeCents    int64  `json:"late_return_fee_cents"`
	LateFeeOverrideCents  *int64 `json:"late_fee_override_cents,omitempty"`

	SubtotalCents int64 `json:"subtotal_cents"`
	TaxCents      int64 `json:"tax_cents"`
	TotalCents    int64 `json:"total_cents"`
	DepositCents  int64 `json:"deposit_cents"`

	DepositHoldAuthorized bool `json:"deposit_hold_authorized"`
	PaymentHoldAuthorized bool `json:"payment_hold_authorized"`

	DeliveryRequested  bool    `json:"delivery_requested"`
	DeliveryDistanceKm float64 `json:"delivery_distance_km"`
	DropoffLocationID  *int64  `json:"dropoff_location_id,omitempty"`

	ScheduledPickupAt time.Time  `json:"scheduled_pickup_at"`
	ScheduledReturnAt time.Time  `json:"scheduled_return_at"`
	ActualReturnAt    *time.Time `json:"actual_return_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`

	Addons            []BookingAddon     `json:"addons,omitempty"`
	AdditionalDrivers []AdditionalDriver `json:"additional_drivers,omitempty"`
}

// BookingAddon is a flat-priced extra attached to a booking. The unit price
// covers the whole rental regardless of its length.
type BookingAddon struct {
	ID             int64  `json:"id"`
	BookingID      int64  `json:"booking_id"`
	AddonCode      string `json:"addon_code"`
	Label          string `json:"label"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	Quantity       int    `json:"quantity"`
}

// AdditionalDriver is an extra named driver on the booking. A positive
// FeeOverrideCents is a staff-entered total replacing the rate-sheet charge.
type AdditionalDriver struct {
	ID               int64   `json:"id"`
	BookingID        int64   `json:"booking_id"`
	Name             string  `json:"name"`
	AgeBand          AgeBand `json:"age_band"`
	FeeOverrideCents int64   `json:"fee_override_cents"`
}
