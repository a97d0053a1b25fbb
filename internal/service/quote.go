package service

import (
	"context"
	"errors"

	"driveline-backend/internal/domain"
	"driveline-backend/internal/pricing"
	"driveline-backend/internal/repository"
)

var ErrDeliveryOutOfRange = errors.New("delivery distance exceeds the served radius")

type quoteService struct {
	bookingRepo repository.BookingRepository
	rateSheets  repository.RateSheetRepository
}

func NewQuoteService(bookingRepo repository.BookingRepository, rateSheets repository.RateSheetRepository) QuoteService {
	return &quoteService{bookingRepo: bookingRepo, rateSheets: rateSheets}
}

func (s *quoteService) QuoteCheckout(ctx context.Context, req CheckoutQuoteRequest) (*pricing.Breakdown, error) {
	sheet, err := s.rateSheets.EffectiveAt(ctx, req.PickupAt)
	if err != nil {
		return nil, err
	}
	trip, err := buildTripParams(req, sheet)
	if err != nil {
		return nil, err
	}
	return pricing.Compute(trip, sheet)
}

func (s *quoteService) RequoteProtection(ctx context.Context, bookingID int64, newPlan string) (*pricing.Breakdown, error) {
	b, sheet, err := s.loadForRequote(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	trip := tripFromBooking(b)
	trip.ProtectionPlan = newPlan
	return pricing.Compute(trip, sheet)
}

func (s *quoteService) RequoteAddons(ctx context.Context, bookingID int64, addons []pricing.AddonSelection) (*pricing.Breakdown, error) {
	b, sheet, err := s.loadForRequote(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	trip := tripFromBooking(b)
	trip.Addons = addons
	return pricing.Compute(trip, sheet)
}

// loadForRequote pins the requote to the rate sheet that priced the booking
// originally, so changing one selection never silently repriced the rest.
func (s *quoteService) loadForRequote(ctx context.Context, bookingID int64) (*domain.Booking, *pricing.RateSheet, error) {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}
	sheet, err := s.rateSheets.EffectiveAt(ctx, b.CreatedAt)
	if err != nil {
		return nil, nil, err
	}
	return b, sheet, nil
}

// buildTripParams resolves the rate-sheet-derived fee amounts for a checkout
// request. The young-driver fee keys off the primary driver's age band and the
// delivery fee comes from the bracket policy; both land in the trip as plain
// cent amounts so the calculator stays policy-free.
func buildTripParams(req CheckoutQuoteRequest, sheet *pricing.RateSheet) (pricing.TripParams, error) {
	trip := pricing.TripParams{
		DailyRateCents:        req.DailyRateCents,
		TotalDays:             req.TotalDays,
		ProtectionPlan:        req.ProtectionPlan,
		VehicleCategory:       req.VehicleCategory,
		Addons:                req.Addons,
		AdditionalDrivers:     req.AdditionalDrivers,
		DifferentDropoffCents: req.DifferentDropoffCents,
		UpgradeDailyFeeCents:  req.UpgradeDailyFeeCents,
	}
	if req.DriverAgeBand == domain.AgeBandYoung {
		trip.YoungDriverFeeCents = sheet.YoungDriverFeeCents
	}
	if req.DeliveryRequested {
		quote := pricing.ComputeDeliveryFee(req.DeliveryDistanceKm, sheet.DeliveryBrackets)
		if !quote.Eligible {
			return pricing.TripParams{}, ErrDeliveryOutOfRange
		}
		trip.DeliveryFeeCents = quote.FeeCents
	}
	return trip, nil
}

// tripFromBooking rebuilds trip parameters from the persisted columns and
// child rows of an existing booking.
func tripFromBooking(b *domain.Booking) pricing.TripParams {
	trip := pricing.TripParams{
		DailyRateCents:        b.DailyRateCents,
		TotalDays:             b.TotalDays,
		ProtectionPlan:        b.ProtectionPlan,
		VehicleCategory:       b.VehicleCategory,
		YoungDriverFeeCents:   b.YoungDriverFeeCents,
		DifferentDropoffCents: b.DifferentDropoffCents,
		UpgradeDailyFeeCents:  b.UpgradeDailyFeeCents,
		DeliveryFeeCents:      b.DeliveryFeeCents,
		LateReturnFeeCents:    pricing.ResolveLateFee(pricing.LateFeeResult{FeeCents: b.LateReturnFeeCents}, b.LateFeeOverrideCents),
	}
	for _, a := range b.Addons {
		trip.Addons = append(trip.Addons, pricing.AddonSelection{
			Code:           a.AddonCode,
			Label:          a.Label,
			UnitPriceCents: a.UnitPriceCents,
			Quantity:       a.Quantity,
		})
	}
	for _, d := range b.AdditionalDrivers {
		trip.AdditionalDrivers = append(trip.AdditionalDrivers, pricing.DriverEntry{
			Name:             d.Name,
			Band:             d.AgeBand,
			FeeOverrideCents: d.FeeOverrideCents,
		})
	}
	return trip
}
