package domain

import "time"

type AlertType string

const (
	AlertTypeDepositReview    AlertType = "DEPOSIT_REVIEW"
	AlertTypeLateReturn       AlertType = "LATE_RETURN"
	AlertTypeReconMismatch    AlertType = "RECONCILIATION_MISMATCH"
	AlertTypeDispatchBypass   AlertType = "DISPATCH_BYPASS"
	AlertTypeStaleDepositHold AlertType = "STALE_DEPOSIT_HOLD"
)

type AlertStatus string

const (
	AlertStatusOpen     AlertStatus = "OPEN"
	AlertStatusResolved AlertStatus = "RESOLVED"
)

// StaffAlert is a review item surfaced on the operations console. Alerts are
// deduplicated on (booking_id, type): raising the same alert twice updates
// the existing row instead of creating a duplicate.
type StaffAlert struct {
	ID        int64       `json:"id"`
	BookingID int64       `json:"booking_id"`
	Type      AlertType   `json:"type"`
	Message   string      `json:"message"`
	Status    AlertStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
