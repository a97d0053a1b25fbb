package domain

import "time"

type DamageStatus string

const (
	DamageStatusOpen   DamageStatus = "OPEN"
	DamageStatusClosed DamageStatus = "CLOSED"
)

// DamageRecord is an incident logged against a booking during pickup or
// return inspection. Open records with a positive cost block automatic
// deposit release at completion.
type DamageRecord struct {
	ID          int64        `json:"id"`
	BookingID   int64        `json:"booking_id"`
	Description string       `json:"description"`
	CostCents   int64        `json:"cost_cents"`
	Status      DamageStatus `json:"status"`
	ReportedBy  int64        `json:"reported_by"`
	CreatedAt   time.Time    `json:"created_at"`
}

// PrepPhoto is a pre-dispatch condition photo. The dispatch readiness gate
// requires a minimum count before a driver may be sent out.
type PrepPhoto struct {
	ID        int64     `json:"id"`
	BookingID int64     `json:"booking_id"`
	URL       string    `json:"url"`
	TakenBy   int64     `json:"taken_by"`
	CreatedAt time.Time `json:"created_at"`
}
