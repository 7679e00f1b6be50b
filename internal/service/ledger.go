package service

import (
	"context"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"summit/internal/domain"
	"summit/internal/repository"
)

// LedgerService maintains at most one canonical payment entry per booking,
// created or updated idempotently from gateway data.
type LedgerService struct {
	paymentRepo repository.PaymentRepository
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(paymentRepo repository.PaymentRepository) *LedgerService {
	return &LedgerService{paymentRepo: paymentRepo}
}

// UpsertRequest contains the parameters for recording a gateway event.
type UpsertRequest struct {
	BookingID   string // empty when the booking could not be resolved
	ExternalID  string // gateway transaction id
	Status      domain.PaymentStatus
	GrossAmount string // raw gateway amount, e.g. "150000.00"
	Method      string
	Payload     json.RawMessage
}

// Upsert records a gateway event against the ledger. Repeat deliveries of
// the same event converge on identical stored state. Once an entry holds a
// terminal status, any update carrying a different status returns
// ErrStaleStatus together with the untouched entry; a repeat of the stored
// terminal status is a no-op success.
func (s *LedgerService) Upsert(ctx context.Context, req UpsertRequest) (*domain.Payment, error) {
	if req.ExternalID == "" {
		return nil, ErrInvalidReference
	}

	var existing *domain.Payment
	var err error

	if req.BookingID != "" {
		existing, err = s.paymentRepo.GetByBookingID(ctx, req.BookingID)
		if err != nil {
			return nil, err
		}
	}

	if existing == nil {
		existing, err = s.paymentRepo.GetByExternalID(ctx, req.ExternalID)
		if err != nil {
			return nil, err
		}
	}

	if existing == nil {
		payment := &domain.Payment{
			ID:         uuid.New().String(),
			BookingID:  req.BookingID,
			ExternalID: req.ExternalID,
			Status:     req.Status,
			Amount:     normalizeAmount(req.GrossAmount),
			Method:     req.Method,
			Metadata:   req.Payload,
		}
		if payment.Method == "" {
			payment.Method = "unknown"
		}

		if err := s.paymentRepo.Create(ctx, payment); err != nil {
			return nil, err
		}
		return payment, nil
	}

	// An orphan entry becomes linkable once its booking resolves.
	if existing.BookingID == "" && req.BookingID != "" {
		if err := s.paymentRepo.AttachBooking(ctx, existing.ID, req.BookingID); err != nil {
			return nil, err
		}
		existing.BookingID = req.BookingID
	}

	if existing.Status.Terminal() {
		if req.Status == existing.Status {
			// Repeat delivery of the settled event.
			return existing, nil
		}
		return existing, ErrStaleStatus
	}

	if err := s.paymentRepo.Update(ctx, existing.ID, req.Status, req.Payload); err != nil {
		return nil, err
	}

	existing.Status = req.Status
	existing.Metadata = req.Payload
	return existing, nil
}

// normalizeAmount converts a raw gateway amount string into a value fit for
// the ledger's DECIMAL(12,2) column. Formatting characters are stripped, the
// result is rounded to two decimals, and anything unparseable becomes 0.
func normalizeAmount(value string) float64 {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, value)

	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}

	return math.Round(amount*100) / 100
}
