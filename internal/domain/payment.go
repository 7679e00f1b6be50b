package domain

import (
	"encoding/json"
	"time"
)

// Payment is the ledger entry recording money movement against a booking.
// BookingID is empty for orphan entries whose booking could not be resolved
// when the gateway event arrived; such entries are keyed by ExternalID alone.
type Payment struct {
	ID         string
	BookingID  string
	ExternalID string
	Status     PaymentStatus
	Amount     float64
	Method     string
	Metadata   json.RawMessage // raw gateway payload, kept for audit
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
