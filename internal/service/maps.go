package service

import (
	"context"
	"fmt"
	"time"

	"googlemaps.github.io/maps"
)

type googleDistanceEstimator struct {
	client *maps.Client
}

// NewGoogleDistanceEstimator builds the routed-distance source backing
// customer-facing delivery estimates.
func NewGoogleDistanceEstimator(apiKey string) (DistanceEstimator, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &googleDistanceEstimator{client: client}, nil
}

func (e *googleDistanceEstimator) RoutedDistance(ctx context.Context, fromLat, fromLng, toLat, toLng float64) (float64, time.Duration, error) {
	r := &maps.DirectionsRequest{
		Origin:      fmt.Sprintf("%f,%f", fromLat, fromLng),
		Destination: fmt.Sprintf("%f,%f", toLat, toLng),
		Mode:        maps.TravelModeDriving,
	}

	routes, _, err := e.client.Directions(ctx, r)
	if err != nil {
		return 0, 0, fmt.Errorf("maps api error: %w", err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return 0, 0, fmt.Errorf("no route found")
	}

	leg := routes[0].Legs[0]
	return float64(leg.Distance.Meters) / 1000.0, leg.Duration, nil
}
