package postgres

import (
	"context"
	"database/sql"
	"errors"

	"summit/internal/domain"
	"summit/internal/repository"
)

// BookingRepository is a PostgreSQL implementation of repository.BookingRepository.
type BookingRepository struct {
	q Querier
}

// NewBookingRepository creates a new PostgreSQL booking repository.
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{q: db}
}

// NewBookingRepositoryWithTx creates a booking repository using a transaction.
func NewBookingRepositoryWithTx(tx *sql.Tx) *BookingRepository {
	return &BookingRepository{q: tx}
}

const bookingColumns = `
	id, booking_code, customer_name, customer_email, mountain, trip_date,
	amount, payment_status, COALESCE(payment_external_id, ''),
	created_at, updated_at
`

// Create persists a new booking.
func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	query := `
		INSERT INTO bookings (id, booking_code, customer_name, customer_email,
			mountain, trip_date, amount, payment_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.q.ExecContext(ctx, query,
		booking.ID,
		booking.BookingCode,
		booking.CustomerName,
		booking.CustomerEmail,
		booking.Mountain,
		booking.TripDate,
		booking.Amount,
		booking.PaymentStatus,
	)

	return err
}

// GetByID retrieves a booking by internal id.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	return r.scanBooking(r.q.QueryRowContext(ctx, query, id))
}

// GetByCode retrieves a booking by its human-readable booking code.
func (r *BookingRepository) GetByCode(ctx context.Context, code string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE booking_code = $1`
	return r.scanBooking(r.q.QueryRowContext(ctx, query, code))
}

// GetByExternalRef retrieves a booking by its stored gateway reference.
func (r *BookingRepository) GetByExternalRef(ctx context.Context, ref string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE payment_external_id = $1`
	return r.scanBooking(r.q.QueryRowContext(ctx, query, ref))
}

// GetAll retrieves all bookings.
func (r *BookingRepository) GetAll(ctx context.Context) ([]*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings ORDER BY created_at DESC`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(
			&b.ID,
			&b.BookingCode,
			&b.CustomerName,
			&b.CustomerEmail,
			&b.Mountain,
			&b.TripDate,
			&b.Amount,
			&b.PaymentStatus,
			&b.PaymentExternalID,
			&b.CreatedAt,
			&b.UpdatedAt,
		); err != nil {
			return nil, err
		}
		bookings = append(bookings, &b)
	}

	return bookings, rows.Err()
}

// UpdatePaymentStatus updates the payment status of a booking.
func (r *BookingRepository) UpdatePaymentStatus(ctx context.Context, id string, status domain.PaymentStatus) error {
	query := `UPDATE bookings SET payment_status = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`

	result, err := r.q.ExecContext(ctx, query, status, id)
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

// SetExternalRef updates the payment status and stores the gateway reference.
func (r *BookingRepository) SetExternalRef(ctx context.Context, id string, status domain.PaymentStatus, ref string) error {
	query := `
		UPDATE bookings
		SET payment_status = $1, payment_external_id = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $3
	`

	result, err := r.q.ExecContext(ctx, query, status, ref, id)
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

func (r *BookingRepository) scanBooking(row *sql.Row) (*domain.Booking, error) {
	var b domain.Booking
	err := row.Scan(
		&b.ID,
		&b.BookingCode,
		&b.CustomerName,
		&b.CustomerEmail,
		&b.Mountain,
		&b.TripDate,
		&b.Amount,
		&b.PaymentStatus,
		&b.PaymentExternalID,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &b, nil
}
