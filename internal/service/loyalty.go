package service

import (
	"context"
	"time"

	"driveline-backend/internal/domain"
	"driveline-backend/internal/logger"
	"driveline-backend/internal/repository"
)

type loyaltyService struct {
	loyaltyRepo  repository.LoyaltyRepository
	settingsRepo repository.SettingsRepository
}

func NewLoyaltyService(loyaltyRepo repository.LoyaltyRepository, settingsRepo repository.SettingsRepository) LoyaltyService {
	return &loyaltyService{loyaltyRepo: loyaltyRepo, settingsRepo: settingsRepo}
}

// pointsFor computes the award base: the pre-tax subtotal with flat add-on
// purchases stripped out, in whole dollars.
func pointsFor(b *domain.Booking, settings *domain.LoyaltySettings) int64 {
	base := b.SubtotalCents
	for _, a := range b.Addons {
		base -= a.UnitPriceCents * int64(a.Quantity)
	}
	if base < 0 {
		base = 0
	}
	return (base / 100) * settings.PointsPerDollar
}

func (s *loyaltyService) AwardForBooking(ctx context.Context, b *domain.Booking) error {
	earned, err := s.loyaltyRepo.HasEntry(ctx, b.ID, domain.LoyaltyTypeEarn)
	if err != nil {
		return err
	}
	if earned {
		return nil
	}

	settings, err := s.settingsRepo.LoyaltySettings(ctx)
	if err != nil {
		return err
	}
	points := pointsFor(b, settings)
	if points <= 0 {
		return nil
	}

	entry := &domain.LoyaltyEntry{
		CustomerID: b.CustomerID,
		BookingID:  b.ID,
		Points:     points,
		Type:       domain.LoyaltyTypeEarn,
	}
	if settings.ExpirationEnabled {
		expires := time.Now().AddDate(0, settings.ExpirationMonths, 0)
		entry.ExpiresAt = &expires
	}
	if err := s.loyaltyRepo.Create(ctx, entry); err != nil {
		return err
	}
	logger.Info("Loyalty points awarded", "booking_id", b.ID, "customer_id", b.CustomerID, "points", points)
	return nil
}

// ReverseForBooking backs out an earlier award. It is a no-op unless an EARN
// entry exists without a matching REVERSE, so replays and cancellations of
// never-completed bookings write nothing.
func (s *loyaltyService) ReverseForBooking(ctx context.Context, b *domain.Booking) error {
	earned, err := s.loyaltyRepo.HasEntry(ctx, b.ID, domain.LoyaltyTypeEarn)
	if err != nil {
		return err
	}
	if !earned {
		return nil
	}
	reversed, err := s.loyaltyRepo.HasEntry(ctx, b.ID, domain.LoyaltyTypeReverse)
	if err != nil {
		return err
	}
	if reversed {
		return nil
	}

	settings, err := s.settingsRepo.LoyaltySettings(ctx)
	if err != nil {
		return err
	}
	points := pointsFor(b, settings)
	if points <= 0 {
		return nil
	}

	entry := &domain.LoyaltyEntry{
		CustomerID: b.CustomerID,
		BookingID:  b.ID,
		Points:     -points,
		Type:       domain.LoyaltyTypeReverse,
	}
	if err := s.loyaltyRepo.Create(ctx, entry); err != nil {
		return err
	}
	logger.Info("Loyalty points reversed", "booking_id", b.ID, "customer_id", b.CustomerID, "points", points)
	return nil
}

func (s *loyaltyService) Balance(ctx context.Context, customerID int64) (int64, error) {
	return s.loyaltyRepo.Balance(ctx, customerID)
}
