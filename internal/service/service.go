package service

import (
	"context"
	"time"

	"driveline-backend/internal/domain"
	"driveline-backend/internal/pricing"
)

// CheckoutQuoteRequest carries the customer-entered trip parameters for the
// checkout pricing call site.
type CheckoutQuoteRequest struct {
	DailyRateCents        int64
	TotalDays             int
	ProtectionPlan        string
	VehicleCategory       string
	DriverAgeBand         domain.AgeBand
	Addons                []pricing.AddonSelection
	AdditionalDrivers     []pricing.DriverEntry
	DifferentDropoffCents int64
	UpgradeDailyFeeCents  int64
	DeliveryDistanceKm    float64
	DeliveryRequested     bool
	PickupAt              time.Time
}

type QuoteService interface {
	// QuoteCheckout prices a trip using the rate sheet effective at pickup time.
	QuoteCheckout(ctx context.Context, req CheckoutQuoteRequest) (*pricing.Breakdown, error)
	// RequoteProtection reprices an existing booking with a different
	// protection plan, holding everything else fixed.
	RequoteProtection(ctx context.Context, bookingID int64, newPlan string) (*pricing.Breakdown, error)
	// RequoteAddons reprices an existing booking with a replacement add-on
	// selection.
	RequoteAddons(ctx context.Context, bookingID int64, addons []pricing.AddonSelection) (*pricing.Breakdown, error)
}

// CreateBookingRequest is the checkout submission; the service computes and
// snapshots the price itself rather than trusting client-side math.
type CreateBookingRequest struct {
	CustomerID       int64
	PickupLocationID int64
	Quote            CheckoutQuoteRequest
	ScheduledReturn  time.Time
	DepositCents     int64
}

type BookingService interface {
	CreateBooking(ctx context.Context, req CreateBookingRequest) (*domain.Booking, error)
	GetBooking(ctx context.Context, id int64) (*domain.Booking, error)
	ListBookings(ctx context.Context, status domain.BookingStatus, page, pageSize int32) ([]domain.Booking, int32, error)

	// Status transitions. Each is idempotent: re-invoking with the same
	// target status does not duplicate financial or loyalty effects.
	Confirm(ctx context.Context, bookingID, staffID int64, source, reason string) (*domain.Booking, error)
	Activate(ctx context.Context, bookingID, staffID int64, source, reason string) (*domain.Booking, error)
	Complete(ctx context.Context, bookingID, staffID int64, source, reason string, actualReturn time.Time) (*domain.Booking, error)
	Cancel(ctx context.Context, bookingID, staffID int64, source, reason string) (*domain.Booking, error)

	// OverrideLateFee records a staff late-fee override; the computed fee is
	// retained for audit comparison.
	OverrideLateFee(ctx context.Context, bookingID, staffID int64, overrideCents int64, reason string) (*domain.Booking, error)
}

type BreakdownService interface {
	// GetBreakdown reconciles a persisted booking's itemized charges using
	// the rate sheet effective at booking creation time.
	GetBreakdown(ctx context.Context, bookingID int64) (*pricing.ReconciledBreakdown, error)
}

// DispatchReadiness is the boolean-with-reasons result of the readiness gate.
type DispatchReadiness struct {
	IsReady             bool     `json:"is_ready"`
	MissingRequirements []string `json:"missing_requirements"`
}

// DispatchResult reports a dispatch attempt. Link is the signed driver-portal
// URL token for the run.
type DispatchResult struct {
	Link     string   `json:"link"`
	Bypassed bool     `json:"bypassed"`
	Missing  []string `json:"missing,omitempty"`
}

type DispatchService interface {
	CheckReadiness(ctx context.Context, bookingID int64) (*DispatchReadiness, error)
	// Dispatch enforces the readiness gate. With bypass set the dispatch
	// proceeds anyway, but an audit record listing the missing requirements
	// is written and a staff alert raised; bypass is never silent.
	Dispatch(ctx context.Context, bookingID, staffID int64, bypass bool, reason string) (*DispatchResult, error)
}

// DeliveryQuoteResult pairs the billing-relevant haversine quote with the
// display-only routed estimate.
type DeliveryQuoteResult struct {
	Location       *domain.Location      `json:"location"`
	DistanceKm     float64               `json:"distance_km"`
	Quote          pricing.DeliveryQuote `json:"quote"`
	RoutedKm       float64               `json:"routed_km,omitempty"`
	RoutedDuration time.Duration         `json:"routed_duration,omitempty"`
}

type DeliveryService interface {
	// QuoteDelivery selects the nearest delivering branch and maps the
	// haversine distance onto the fee brackets.
	QuoteDelivery(ctx context.Context, lat, lng float64) (*DeliveryQuoteResult, error)
}

type LoyaltyService interface {
	AwardForBooking(ctx context.Context, b *domain.Booking) error
	ReverseForBooking(ctx context.Context, b *domain.Booking) error
	Balance(ctx context.Context, customerID int64) (int64, error)
}

type NotificationService interface {
	// NotifyStage fires the customer notification for a status stage.
	// Idempotent on (bookingID, stage); failures are logged, never returned,
	// so they cannot fail the surrounding status transition.
	NotifyStage(ctx context.Context, b *domain.Booking, stage string)
	SendPickupReminder(ctx context.Context, b *domain.Booking) error
	SendDispatchLink(ctx context.Context, b *domain.Booking, link string) error
}

type EmailService interface {
	Send(ctx context.Context, to, toName, subject, plainText string) error
}

// DistanceEstimator returns a routed driving distance and duration between
// two points. Display-only; billing uses the haversine distance.
type DistanceEstimator interface {
	RoutedDistance(ctx context.Context, fromLat, fromLng, toLat, toLng float64) (km float64, duration time.Duration, err error)
}
