package unit

import (
	"context"
	"testing"
	"time"

	"driveline-backend/internal/domain"
	"driveline-backend/internal/pricing"
	"driveline-backend/internal/service"

	"github.com/stretchr/testify/assert"
)

func TestQuoteService_QuoteCheckout(t *testing.T) {
	ctx := context.Background()
	pickup := time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)

	newSvc := func() (*MockBookingRepo, *MockRateSheetRepo, service.QuoteService) {
		bookingRepo := new(MockBookingRepo)
		rateSheets := new(MockRateSheetRepo)
		return bookingRepo, rateSheets, service.NewQuoteService(bookingRepo, rateSheets)
	}

	t.Run("Young primary driver picks up the flat fee", func(t *testing.T) {
		_, rateSheets, svc := newSvc()
		rateSheets.On("EffectiveAt", ctx, pickup).Return(testRateSheet(), nil)

		breakdown, err := svc.QuoteCheckout(ctx, service.CheckoutQuoteRequest{
			DailyRateCents:  4500,
			TotalDays:       2,
			ProtectionPlan:  pricing.ProtectionPlanNone,
			VehicleCategory: "economy",
			DriverAgeBand:   domain.AgeBandYoung,
			PickupAt:        pickup,
		})
		assert.NoError(t, err)

		var youngFee int64
		for _, line := range breakdown.Lines {
			if line.Label == "Young Driver Fee" {
				youngFee = line.AmountCents
			}
		}
		assert.Equal(t, int64(2500), youngFee)
	})

	t.Run("Delivery distance maps onto the bracket fee", func(t *testing.T) {
		_, rateSheets, svc := newSvc()
		rateSheets.On("EffectiveAt", ctx, pickup).Return(testRateSheet(), nil)

		breakdown, err := svc.QuoteCheckout(ctx, service.CheckoutQuoteRequest{
			DailyRateCents:     4500,
			TotalDays:          2,
			ProtectionPlan:     pricing.ProtectionPlanNone,
			VehicleCategory:    "economy",
			DriverAgeBand:      domain.AgeBandStandard,
			DeliveryRequested:  true,
			DeliveryDistanceKm: 23.4,
			PickupAt:           pickup,
		})
		assert.NoError(t, err)

		var deliveryFee int64
		for _, line := range breakdown.Lines {
			if line.Label == "Delivery Fee" {
				deliveryFee = line.AmountCents
			}
		}
		assert.Equal(t, int64(4900), deliveryFee)
	})

	t.Run("Delivery beyond the last bracket is rejected", func(t *testing.T) {
		_, rateSheets, svc := newSvc()
		rateSheets.On("EffectiveAt", ctx, pickup).Return(testRateSheet(), nil)

		_, err := svc.QuoteCheckout(ctx, service.CheckoutQuoteRequest{
			DailyRateCents:     4500,
			TotalDays:          2,
			VehicleCategory:    "economy",
			DriverAgeBand:      domain.AgeBandStandard,
			DeliveryRequested:  true,
			DeliveryDistanceKm: 50.01,
			PickupAt:           pickup,
		})
		assert.ErrorIs(t, err, service.ErrDeliveryOutOfRange)
	})
}

func TestQuoteService_Requote(t *testing.T) {
	ctx := context.Background()

	bookingRepo := new(MockBookingRepo)
	rateSheets := new(MockRateSheetRepo)
	svc := service.NewQuoteService(bookingRepo, rateSheets)

	b := activeBooking()
	bookingRepo.On("GetByID", ctx, b.ID).Return(b, nil)
	// The requote must be priced against the sheet effective when the booking
	// was created, not pickup or now.
	rateSheets.On("EffectiveAt", ctx, b.CreatedAt).Return(testRateSheet(), nil)

	t.Run("Protection change holds everything else fixed", func(t *testing.T) {
		breakdown, err := svc.RequoteProtection(ctx, b.ID, "basic")
		assert.NoError(t, err)

		var protection int64
		for _, line := range breakdown.Lines {
			if line.Label == "Protection Plan (basic)" {
				protection = line.AmountCents
			}
		}
		// 1299/day over the original 3 days.
		assert.Equal(t, int64(3897), protection)
		assert.Equal(t, b.SubtotalCents+3897, breakdown.SubtotalCents)
	})

	t.Run("Add-on requote replaces the selection wholesale", func(t *testing.T) {
		breakdown, err := svc.RequoteAddons(ctx, b.ID, []pricing.AddonSelection{
			{Code: "gps", Label: "GPS Unit", UnitPriceCents: 999, Quantity: 1},
			{Code: "child_seat", Label: "Child Seat", UnitPriceCents: 1500, Quantity: 2},
		})
		assert.NoError(t, err)

		// Add-ons are flat for the whole rental, never multiplied by days.
		assert.Equal(t, b.SubtotalCents+999+3000, breakdown.SubtotalCents)
	})

	rateSheets.AssertNotCalled(t, "EffectiveAt", ctx, b.ScheduledPickupAt)
}
