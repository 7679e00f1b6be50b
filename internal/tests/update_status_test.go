package tests

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"summit/internal/domain"
	"summit/internal/repository"
	"summit/internal/service"
)

func TestUpdateStatus_Validation(t *testing.T) {
	f := newInitiateFixture()
	f.addBooking()

	if _, err := f.svc.ApplyStatusUpdate(context.Background(), service.StatusUpdateRequest{
		Status: domain.PaymentStatusPaid,
	}); !errors.Is(err, service.ErrInvalidReference) {
		t.Errorf("expected ErrInvalidReference, got %v", err)
	}

	if _, err := f.svc.ApplyStatusUpdate(context.Background(), service.StatusUpdateRequest{
		Reference: "ORDER-1001",
	}); !errors.Is(err, service.ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}

	if _, err := f.svc.ApplyStatusUpdate(context.Background(), service.StatusUpdateRequest{
		Reference: "ORDER-9999",
		Status:    domain.PaymentStatusPaid,
	}); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateStatus_WritesBookingDirectly(t *testing.T) {
	f := newInitiateFixture()
	f.addBooking()

	booking, err := f.svc.ApplyStatusUpdate(context.Background(), service.StatusUpdateRequest{
		Reference: "ORDER-1001",
		Status:    domain.PaymentStatusPaid,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.PaymentStatus != domain.PaymentStatusPaid {
		t.Errorf("expected paid, got %q", booking.PaymentStatus)
	}
	if got := f.bookingRepo.GetBooking("booking-1").PaymentStatus; got != domain.PaymentStatusPaid {
		t.Errorf("expected stored booking paid, got %q", got)
	}

	// Without accompanying gateway data there is nothing to ledger.
	if f.paymentRepo.Count() != 0 {
		t.Errorf("expected no ledger entry, got %d", f.paymentRepo.Count())
	}
}

func TestUpdateStatus_RecordsAccompanyingGatewayData(t *testing.T) {
	f := newInitiateFixture()
	f.addBooking()

	_, err := f.svc.ApplyStatusUpdate(context.Background(), service.StatusUpdateRequest{
		Reference: "ORDER-1001",
		Status:    domain.PaymentStatusPaid,
		Payment: &service.StatusUpdatePayment{
			ExternalID:  "tx-100",
			GrossAmount: "150000.00",
			Method:      "bank_transfer",
			Raw:         json.RawMessage(`{"transaction_id":"tx-100"}`),
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	payment := f.paymentRepo.First()
	if payment == nil {
		t.Fatal("expected a ledger entry")
	}
	if payment.BookingID != "booking-1" || payment.ExternalID != "tx-100" {
		t.Errorf("unexpected ledger entry: %+v", payment)
	}
	if payment.Status != domain.PaymentStatusPaid || payment.Amount != 150000 {
		t.Errorf("unexpected ledger entry: %+v", payment)
	}
	if payment.Method != "bank_transfer" {
		t.Errorf("expected method bank_transfer, got %q", payment.Method)
	}
}

func TestUpdateStatus_StaleStatusLeavesBookingUntouched(t *testing.T) {
	f := newInitiateFixture()
	f.addBooking()
	f.bookingRepo.GetBooking("booking-1").PaymentStatus = domain.PaymentStatusPaid
	f.paymentRepo.AddPayment(&domain.Payment{
		ID:         "payment-1",
		BookingID:  "booking-1",
		ExternalID: "tx-100",
		Status:     domain.PaymentStatusPaid,
	})

	_, err := f.svc.ApplyStatusUpdate(context.Background(), service.StatusUpdateRequest{
		Reference: "ORDER-1001",
		Status:    domain.PaymentStatusFailed,
		Payment: &service.StatusUpdatePayment{
			ExternalID: "tx-100",
		},
	})
	if !errors.Is(err, service.ErrStaleStatus) {
		t.Fatalf("expected ErrStaleStatus, got %v", err)
	}

	// The ledger's terminal guard rejected first, so neither row moved.
	if got := f.bookingRepo.GetBooking("booking-1").PaymentStatus; got != domain.PaymentStatusPaid {
		t.Errorf("booking moved to %q despite the stale update", got)
	}
	if f.bookingRepo.UpdatePaymentStatusCallCount != 0 {
		t.Errorf("a rejected update must not write the booking, got %d writes", f.bookingRepo.UpdatePaymentStatusCallCount)
	}
	if got := f.paymentRepo.GetPayment("payment-1").Status; got != domain.PaymentStatusPaid {
		t.Errorf("ledger moved to %q despite the terminal guard", got)
	}
}

func TestUpdateStatus_FallsBackToStoredExternalRef(t *testing.T) {
	f := newInitiateFixture()
	f.bookingRepo.AddBooking(&domain.Booking{
		ID:                "booking-1",
		BookingCode:       "ORDER-1001",
		CustomerEmail:     "climber@example.com",
		PaymentStatus:     domain.PaymentStatusPending,
		PaymentExternalID: "snap-token-1",
	})

	_, err := f.svc.ApplyStatusUpdate(context.Background(), service.StatusUpdateRequest{
		Reference: "ORDER-1001",
		Status:    domain.PaymentStatusPaid,
		Payment: &service.StatusUpdatePayment{
			GrossAmount: "150000.00",
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	payment := f.paymentRepo.First()
	if payment == nil {
		t.Fatal("expected a ledger entry")
	}
	if payment.ExternalID != "snap-token-1" {
		t.Errorf("expected the stored external ref, got %q", payment.ExternalID)
	}
}
