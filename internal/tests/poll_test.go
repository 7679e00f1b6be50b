package tests

import (
	"context"
	"errors"
	"testing"

	"summit/internal/domain"
	"summit/internal/gateway"
	"summit/internal/service"
)

func newPollFixture() *initiateFixture {
	f := newInitiateFixture()
	f.gw.StatusResponse = &gateway.TransactionStatus{
		OrderID:           "ORDER-1001",
		TransactionID:     "tx-100",
		StatusCode:        "200",
		TransactionStatus: "settlement",
		FraudStatus:       "accept",
		PaymentType:       "gopay",
		GrossAmount:       "150000.00",
	}
	return f
}

func TestPoll_RejectsEmptyTransactionID(t *testing.T) {
	f := newPollFixture()

	_, err := f.svc.PollStatus(context.Background(), "")
	if !errors.Is(err, service.ErrInvalidReference) {
		t.Errorf("expected ErrInvalidReference, got %v", err)
	}
	if f.gw.StatusCallCount != 0 {
		t.Errorf("no gateway call may be made for an empty id, got %d", f.gw.StatusCallCount)
	}
}

func TestPoll_ReconcilesBeforeReturning(t *testing.T) {
	f := newPollFixture()
	f.addBooking()

	st, err := f.svc.PollStatus(context.Background(), "tx-100")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if st.TransactionStatus != "settlement" {
		t.Errorf("expected the gateway view back, got %+v", st)
	}
	if f.gw.LastStatusID != "tx-100" {
		t.Errorf("expected status query for tx-100, got %q", f.gw.LastStatusID)
	}

	// The poll is not read-only: booking and ledger reflect the result.
	if got := f.bookingRepo.GetBooking("booking-1").PaymentStatus; got != domain.PaymentStatusPaid {
		t.Errorf("expected booking marked paid, got %q", got)
	}
	payment := f.paymentRepo.First()
	if payment == nil {
		t.Fatal("expected a ledger entry")
	}
	if payment.Status != domain.PaymentStatusPaid || payment.ExternalID != "tx-100" {
		t.Errorf("unexpected ledger entry: %+v", payment)
	}
}

func TestPoll_RepeatPollIsIdempotent(t *testing.T) {
	f := newPollFixture()
	f.addBooking()

	for i := 0; i < 3; i++ {
		if _, err := f.svc.PollStatus(context.Background(), "tx-100"); err != nil {
			t.Fatalf("poll %d: unexpected error: %v", i+1, err)
		}
	}

	if f.paymentRepo.Count() != 1 {
		t.Errorf("expected one ledger entry, got %d", f.paymentRepo.Count())
	}
	if f.paymentRepo.UpdateCallCount != 0 {
		t.Errorf("repeat settled polls must not rewrite the entry, got %d updates", f.paymentRepo.UpdateCallCount)
	}
}

func TestPoll_UnknownBookingStillRecordsLedgerEntry(t *testing.T) {
	f := newPollFixture()

	st, err := f.svc.PollStatus(context.Background(), "tx-100")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.OrderID != "ORDER-1001" {
		t.Errorf("unexpected status: %+v", st)
	}

	payment := f.paymentRepo.First()
	if payment == nil {
		t.Fatal("expected an orphan ledger entry")
	}
	if payment.BookingID != "" {
		t.Errorf("expected orphan entry, got booking %q", payment.BookingID)
	}
}

func TestPoll_GatewayErrorsPropagate(t *testing.T) {
	testCases := []struct {
		name string
		err  error
	}{
		{"not found", gateway.ErrTransactionNotFound},
		{"authentication", gateway.ErrAuthentication},
		{"unavailable", gateway.ErrUnavailable},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newPollFixture()
			f.addBooking()
			f.gw.StatusError = tc.err

			_, err := f.svc.PollStatus(context.Background(), "tx-100")
			if !errors.Is(err, tc.err) {
				t.Errorf("expected %v, got %v", tc.err, err)
			}
			if f.paymentRepo.Count() != 0 {
				t.Errorf("failed poll must not write the ledger, got %d entries", f.paymentRepo.Count())
			}
		})
	}
}
