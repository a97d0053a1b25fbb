package domain

import "time"

// AuditRecord captures who changed what on a booking and from which panel.
// Every status transition and every readiness-gate bypass writes one.
type AuditRecord struct {
	ID            int64     `json:"id"`
	BookingID     int64     `json:"booking_id"`
	StaffID       int64     `json:"staff_id"`
	Source        string    `json:"source"` // panel or subsystem originating the change
	Action        string    `json:"action"`
	OldStatus     string    `json:"old_status"`
	NewStatus     string    `json:"new_status"`
	Reason        string    `json:"reason"`
	CorrelationID string    `json:"correlation_id"`
	CreatedAt     time.Time `json:"created_at"`
}
