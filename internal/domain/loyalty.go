package domain

import "time"

type LoyaltyEntryType string

const (
	LoyaltyTypeEarn    LoyaltyEntryType = "EARN"
	LoyaltyTypeReverse LoyaltyEntryType = "REVERSE"
)

// LoyaltyEntry is one row in the points ledger. A booking earns at most one
// EARN entry; a cancellation writes at most one matching REVERSE entry.
type LoyaltyEntry struct {
	ID         int64            `json:"id"`
	CustomerID int64            `json:"customer_id"`
	BookingID  int64            `json:"booking_id"`
	Points     int64            `json:"points"` // negative for reversals
	Type       LoyaltyEntryType `json:"type"`
	ExpiresAt  *time.Time       `json:"expires_at,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
}

// LoyaltySettings is the points-program snapshot in effect when an award is
// computed. Points accrue on the pre-tax, pre-addon rental amount.
type LoyaltySettings struct {
	PointsPerDollar   int64 `json:"points_per_dollar"`
	ExpirationEnabled bool  `json:"expiration_enabled"`
	ExpirationMonths  int   `json:"expiration_months"`
}
