package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"summit/internal/domain"
	"summit/internal/repository"
)

// PaymentRepository is a PostgreSQL implementation of repository.PaymentRepository.
type PaymentRepository struct {
	q Querier
}

// NewPaymentRepository creates a new PostgreSQL payment repository.
func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{q: db}
}

// NewPaymentRepositoryWithTx creates a payment repository using a transaction.
func NewPaymentRepositoryWithTx(tx *sql.Tx) *PaymentRepository {
	return &PaymentRepository{q: tx}
}

const paymentColumns = `
	id, COALESCE(booking_id::text, ''), external_id, status, amount,
	payment_method, metadata, created_at, updated_at
`

// Create persists a new ledger entry. An empty BookingID is stored as NULL
// so orphan entries do not violate the bookings foreign key.
func (r *PaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (id, booking_id, external_id, status, amount, payment_method, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	bookingID := sql.NullString{String: payment.BookingID, Valid: payment.BookingID != ""}

	_, err := r.q.ExecContext(ctx, query,
		payment.ID,
		bookingID,
		payment.ExternalID,
		payment.Status,
		payment.Amount,
		payment.Method,
		[]byte(payment.Metadata),
	)

	return err
}

// GetByBookingID retrieves the ledger entry owned by a booking.
// Returns nil if the booking has no entry yet.
func (r *PaymentRepository) GetByBookingID(ctx context.Context, bookingID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE booking_id = $1`

	payment, err := r.scanPayment(r.q.QueryRowContext(ctx, query, bookingID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return payment, nil
}

// GetByExternalID retrieves a ledger entry by gateway transaction id.
// Returns nil if no entry exists with the given id.
func (r *PaymentRepository) GetByExternalID(ctx context.Context, externalID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE external_id = $1`

	payment, err := r.scanPayment(r.q.QueryRowContext(ctx, query, externalID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return payment, nil
}

// Update updates the status and raw payload of an existing entry.
func (r *PaymentRepository) Update(ctx context.Context, id string, status domain.PaymentStatus, metadata json.RawMessage) error {
	query := `UPDATE payments SET status = $1, metadata = $2, updated_at = CURRENT_TIMESTAMP WHERE id = $3`

	result, err := r.q.ExecContext(ctx, query, status, []byte(metadata), id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// AttachBooking links an orphan entry to its booking.
func (r *PaymentRepository) AttachBooking(ctx context.Context, id, bookingID string) error {
	query := `UPDATE payments SET booking_id = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`

	result, err := r.q.ExecContext(ctx, query, bookingID, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *PaymentRepository) scanPayment(row *sql.Row) (*domain.Payment, error) {
	var p domain.Payment
	var metadata []byte
	err := row.Scan(
		&p.ID,
		&p.BookingID,
		&p.ExternalID,
		&p.Status,
		&p.Amount,
		&p.Method,
		&metadata,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Metadata = json.RawMessage(metadata)
	return &p, nil
}
