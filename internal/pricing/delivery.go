package pricing

import (
	"math"

	"driveline-backend/internal/domain"
)

// DeliveryQuote maps a delivery distance onto a fee bracket. Eligible is
// false when the distance lies beyond the last bracket; the fee is then zero.
type DeliveryQuote struct {
	Eligible bool             `json:"eligible"`
	FeeCents int64            `json:"fee_cents"`
	Bracket  *DeliveryBracket `json:"bracket,omitempty"`
}

// ComputeDeliveryFee resolves a distance to the first bracket whose upper
// bound is not exceeded. Bracket bounds are inclusive: a distance exactly on
// a boundary belongs to the lower bracket.
func ComputeDeliveryFee(distanceKm float64, brackets []DeliveryBracket) DeliveryQuote {
	for i := range brackets {
		if distanceKm <= brackets[i].MaxKm {
			return DeliveryQuote{Eligible: true, FeeCents: brackets[i].FeeCents, Bracket: &brackets[i]}
		}
	}
	return DeliveryQuote{}
}

const earthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance in kilometres between two
// points given in decimal degrees. This straight-line distance is the
// billing-relevant one; routed distances are display-only.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := degreesToRadians(lat2 - lat1)
	dLng := degreesToRadians(lng2 - lng1)

	rLat1 := degreesToRadians(lat1)
	rLat2 := degreesToRadians(lat2)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// NearestLocation picks the candidate minimizing haversine distance to the
// given point. Ties resolve to the earlier list entry, keeping the choice
// deterministic. Returns nil when no candidate qualifies.
func NearestLocation(lat, lng float64, candidates []domain.Location) (*domain.Location, float64) {
	var best *domain.Location
	bestDist := math.MaxFloat64
	for i := range candidates {
		if !candidates[i].Active {
			continue
		}
		d := HaversineKm(lat, lng, candidates[i].Lat, candidates[i].Lng)
		if d < bestDist {
			best = &candidates[i]
			bestDist = d
		}
	}
	if best == nil {
		return nil, 0
	}
	return best, bestDist
}
