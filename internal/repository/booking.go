package repository

import (
	"context"

	"summit/internal/domain"
)

// BookingRepository defines the persistence operations for bookings.
type BookingRepository interface {
	// Create persists a new booking.
	Create(ctx context.Context, booking *domain.Booking) error

	// GetByID retrieves a booking by internal id.
	GetByID(ctx context.Context, id string) (*domain.Booking, error)

	// GetByCode retrieves a booking by its human-readable booking code.
	GetByCode(ctx context.Context, code string) (*domain.Booking, error)

	// GetByExternalRef retrieves a booking by its stored gateway reference.
	GetByExternalRef(ctx context.Context, ref string) (*domain.Booking, error)

	// GetAll retrieves all bookings.
	GetAll(ctx context.Context) ([]*domain.Booking, error)

	// UpdatePaymentStatus updates the payment status of a booking.
	UpdatePaymentStatus(ctx context.Context, id string, status domain.PaymentStatus) error

	// SetExternalRef updates the payment status and stores the gateway
	// reference issued for the booking's transaction.
	SetExternalRef(ctx context.Context, id string, status domain.PaymentStatus, ref string) error
}
