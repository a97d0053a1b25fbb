package domain

type VehicleStatus string

const (
	VehicleStatusAvailable   VehicleStatus = "AVAILABLE"
	VehicleStatusRented      VehicleStatus = "RENTED"
	VehicleStatusMaintenance VehicleStatus = "MAINTENANCE"
	VehicleStatusRetired     VehicleStatus = "RETIRED"
)

type Vehicle struct {
	ID             int64         `json:"id"`
	LocationID     int64         `json:"location_id"`
	Category       string        `json:"category"`
	Make           string        `json:"make"`
	Model          string        `json:"model"`
	Plate          string        `json:"plate"`
	DailyRateCents int64         `json:"daily_rate_cents"`
	Status         VehicleStatus `json:"status"`
}
