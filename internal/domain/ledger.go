package domain

import "time"

type LedgerEntryType string

const (
	LedgerTypeDepositHold    LedgerEntryType = "DEPOSIT_HOLD"
	LedgerTypeDepositRelease LedgerEntryType = "DEPOSIT_RELEASE"
	LedgerTypeDepositCapture LedgerEntryType = "DEPOSIT_CAPTURE"
	LedgerTypeCharge         LedgerEntryType = "CHARGE"
	LedgerTypeRefund         LedgerEntryType = "REFUND"
	LedgerTypeAdjustment     LedgerEntryType = "ADJUSTMENT"
)

// LedgerEntry records a financial event against a booking. Amounts are in
// integer cents; positive for money moving to the business, negative for
// money returned to the customer.
type LedgerEntry struct {
	ID          int64           `json:"id"`
	BookingID   int64           `json:"booking_id"`
	CustomerID  int64           `json:"customer_id"`
	AmountCents int64           `json:"amount_cents"`
	Type        LedgerEntryType `json:"type"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
}
