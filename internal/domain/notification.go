package domain

import "time"

// Notification is one delivered customer/staff message. The (booking_id,
// stage) pair is the idempotency key for status-driven sends: a transition
// handler firing twice produces a single row and a single email.
type Notification struct {
	ID        int64     `json:"id"`
	BookingID int64     `json:"booking_id"`
	Stage     string    `json:"stage"`
	Recipient string    `json:"recipient"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}
