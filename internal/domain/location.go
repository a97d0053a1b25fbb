package domain

// Location is a rental branch. Coordinates are decimal degrees and feed the
// haversine nearest-branch selection for delivery bookings.
type Location struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Address  string  `json:"address"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Active   bool    `json:"active"`
	Delivers bool    `json:"delivers"`
}
