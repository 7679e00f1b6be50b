package domain

import "time"

// PaymentStatus represents the payment state of a booking.
type PaymentStatus string

const (
	PaymentStatusUnpaid  PaymentStatus = "unpaid"
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// Terminal reports whether the status is final for accounting purposes.
// A terminal status must never be reverted by a late non-terminal update.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentStatusPaid || s == PaymentStatusFailed
}

// Booking represents a reservation awaiting or having completed payment.
type Booking struct {
	ID                string
	BookingCode       string // human-readable alternate key, e.g. "ORDER-1001"; may be empty
	CustomerName      string
	CustomerEmail     string
	Mountain          string
	TripDate          time.Time
	Amount            float64
	PaymentStatus     PaymentStatus
	PaymentExternalID string // gateway token or transaction id, set once a transaction exists
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
