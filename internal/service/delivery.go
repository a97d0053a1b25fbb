package service

import (
	"context"
	"errors"
	"time"

	"driveline-backend/internal/domain"
	"driveline-backend/internal/logger"
	"driveline-backend/internal/pricing"
	"driveline-backend/internal/repository"
)

var ErrNoDeliveringBranch = errors.New("no active delivering branch available")

type deliveryService struct {
	locationRepo repository.LocationRepository
	rateSheets   repository.RateSheetRepository
	estimator    DistanceEstimator // optional, nil disables routed estimates
}

func NewDeliveryService(locationRepo repository.LocationRepository, rateSheets repository.RateSheetRepository, estimator DistanceEstimator) DeliveryService {
	return &deliveryService{locationRepo: locationRepo, rateSheets: rateSheets, estimator: estimator}
}

func (s *deliveryService) QuoteDelivery(ctx context.Context, lat, lng float64) (*DeliveryQuoteResult, error) {
	locations, err := s.locationRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	var candidates []domain.Location
	for _, loc := range locations {
		if loc.Delivers {
			candidates = append(candidates, loc)
		}
	}

	nearest, distanceKm := pricing.NearestLocation(lat, lng, candidates)
	if nearest == nil {
		return nil, ErrNoDeliveringBranch
	}

	sheet, err := s.rateSheets.EffectiveAt(ctx, time.Now())
	if err != nil {
		return nil, err
	}

	result := &DeliveryQuoteResult{
		Location:   nearest,
		DistanceKm: distanceKm,
		Quote:      pricing.ComputeDeliveryFee(distanceKm, sheet.DeliveryBrackets),
	}

	// Routed distance is a nicety for the customer-facing estimate; a routing
	// outage never fails the quote.
	if s.estimator != nil {
		routedKm, duration, err := s.estimator.RoutedDistance(ctx, nearest.Lat, nearest.Lng, lat, lng)
		if err != nil {
			logger.Warn("Routed distance lookup failed", "location_id", nearest.ID, "error", err)
		} else {
			result.RoutedKm = routedKm
			result.RoutedDuration = duration
		}
	}

	return result, nil
}
