package repository

import (
	"context"
	"encoding/json"

	"summit/internal/domain"
)

// PaymentRepository defines the persistence operations for ledger entries.
type PaymentRepository interface {
	// Create persists a new ledger entry.
	Create(ctx context.Context, payment *domain.Payment) error

	// GetByBookingID retrieves the ledger entry owned by a booking.
	// Returns nil if the booking has no entry yet.
	GetByBookingID(ctx context.Context, bookingID string) (*domain.Payment, error)

	// GetByExternalID retrieves a ledger entry by gateway transaction id.
	// Returns nil if no entry exists with the given id.
	GetByExternalID(ctx context.Context, externalID string) (*domain.Payment, error)

	// Update updates the status and raw payload of an existing entry.
	Update(ctx context.Context, id string, status domain.PaymentStatus, metadata json.RawMessage) error

	// AttachBooking links an orphan entry to its booking.
	AttachBooking(ctx context.Context, id, bookingID string) error
}
