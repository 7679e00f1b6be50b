package tests

import (
	"context"
	"errors"
	"testing"

	"summit/internal/domain"
	"summit/internal/gateway"
	"summit/internal/service"
)

type webhookFixture struct {
	bookingRepo *MockBookingRepository
	paymentRepo *MockPaymentRepository
	gw          *MockGateway
	cache       *MockBookingCache
	notifier    *MockNotifier
	svc         *service.PaymentService
}

func newWebhookFixture() *webhookFixture {
	bookingRepo := NewMockBookingRepository()
	paymentRepo := NewMockPaymentRepository()
	gw := NewMockGateway()
	cache := NewMockBookingCache()
	notifier := NewMockNotifier()
	svc := service.NewPaymentService(
		bookingRepo,
		service.NewBookingResolver(bookingRepo),
		service.NewLedgerService(paymentRepo),
		gw,
		cache,
		notifier,
		nil,
	)
	return &webhookFixture{
		bookingRepo: bookingRepo,
		paymentRepo: paymentRepo,
		gw:          gw,
		cache:       cache,
		notifier:    notifier,
		svc:         svc,
	}
}

func (f *webhookFixture) addBooking(id, code string) {
	f.bookingRepo.AddBooking(&domain.Booking{
		ID:            id,
		BookingCode:   code,
		CustomerEmail: "climber@example.com",
		PaymentStatus: domain.PaymentStatusPending,
	})
}

const settlementBody = `{
	"order_id": "ORDER-1001",
	"transaction_id": "tx-100",
	"status_code": "200",
	"transaction_status": "settlement",
	"gross_amount": "150000.00",
	"payment_type": "gopay",
	"signature_key": "sig"
}`

func TestWebhook_SettlementMarksBookingPaid(t *testing.T) {
	f := newWebhookFixture()
	f.addBooking("booking-1", "ORDER-1001")

	result, err := f.svc.HandleNotification(context.Background(), []byte(settlementBody))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Outcome != service.OutcomeSettled {
		t.Errorf("expected settled outcome, got %q", result.Outcome)
	}
	if got := f.bookingRepo.GetBooking("booking-1").PaymentStatus; got != domain.PaymentStatusPaid {
		t.Errorf("expected booking paid, got %q", got)
	}

	payment := f.paymentRepo.First()
	if payment == nil {
		t.Fatal("expected a ledger entry")
	}
	if payment.Amount != 150000.00 {
		t.Errorf("expected ledger amount 150000.00, got %v", payment.Amount)
	}
	if payment.BookingID != "booking-1" {
		t.Errorf("expected ledger entry owned by booking-1, got %q", payment.BookingID)
	}
	if f.notifier.SettledCallCount != 1 {
		t.Errorf("expected 1 settled notice, got %d", f.notifier.SettledCallCount)
	}
	if f.cache.InvalidateCallCount != 1 {
		t.Errorf("expected the booking cache to be invalidated once, got %d", f.cache.InvalidateCallCount)
	}
}

func TestWebhook_DuplicateDeliveryIsIdempotent(t *testing.T) {
	f := newWebhookFixture()
	f.addBooking("booking-1", "ORDER-1001")

	for i := 0; i < 3; i++ {
		if _, err := f.svc.HandleNotification(context.Background(), []byte(settlementBody)); err != nil {
			t.Fatalf("delivery %d failed: %v", i+1, err)
		}
	}

	if f.paymentRepo.Count() != 1 {
		t.Fatalf("expected exactly 1 ledger entry, got %d", f.paymentRepo.Count())
	}
	if got := f.bookingRepo.GetBooking("booking-1").PaymentStatus; got != domain.PaymentStatusPaid {
		t.Errorf("expected booking paid, got %q", got)
	}
	if f.paymentRepo.UpdateCallCount != 0 {
		t.Errorf("repeat deliveries must not rewrite the entry, got %d updates", f.paymentRepo.UpdateCallCount)
	}
}

func TestWebhook_LatePendingDoesNotRevertPaid(t *testing.T) {
	f := newWebhookFixture()
	f.addBooking("booking-1", "ORDER-1001")

	if _, err := f.svc.HandleNotification(context.Background(), []byte(settlementBody)); err != nil {
		t.Fatalf("settlement delivery failed: %v", err)
	}

	latePending := `{
		"order_id": "ORDER-1001",
		"transaction_id": "tx-100",
		"status_code": "201",
		"transaction_status": "pending",
		"gross_amount": "150000.00",
		"payment_type": "gopay",
		"signature_key": "sig"
	}`
	result, err := f.svc.HandleNotification(context.Background(), []byte(latePending))
	if err != nil {
		t.Fatalf("late delivery must be acknowledged, got %v", err)
	}

	if result.Status != domain.PaymentStatusPaid {
		t.Errorf("ack should reflect the stored status, got %q", result.Status)
	}
	if got := f.bookingRepo.GetBooking("booking-1").PaymentStatus; got != domain.PaymentStatusPaid {
		t.Errorf("booking reverted to %q", got)
	}
	if got := f.paymentRepo.First().Status; got != domain.PaymentStatusPaid {
		t.Errorf("ledger reverted to %q", got)
	}
}

func TestWebhook_InvalidSignatureTouchesNothing(t *testing.T) {
	f := newWebhookFixture()
	f.addBooking("booking-1", "ORDER-1001")
	f.gw.VerifyError = gateway.ErrInvalidSignature

	_, err := f.svc.HandleNotification(context.Background(), []byte(settlementBody))
	if !errors.Is(err, service.ErrInvalidNotification) {
		t.Fatalf("expected ErrInvalidNotification, got %v", err)
	}

	if f.paymentRepo.Count() != 0 {
		t.Errorf("rejected notification must not write the ledger")
	}
	if got := f.bookingRepo.GetBooking("booking-1").PaymentStatus; got != domain.PaymentStatusPending {
		t.Errorf("rejected notification must not touch the booking, got %q", got)
	}
}

func TestWebhook_MalformedPayloadRejected(t *testing.T) {
	f := newWebhookFixture()

	_, err := f.svc.HandleNotification(context.Background(), []byte("{not json"))
	if !errors.Is(err, service.ErrInvalidNotification) {
		t.Errorf("expected ErrInvalidNotification, got %v", err)
	}
}

func TestWebhook_UnmatchedBookingStillRecorded(t *testing.T) {
	f := newWebhookFixture()

	result, err := f.svc.HandleNotification(context.Background(), []byte(settlementBody))
	if err != nil {
		t.Fatalf("unmatched notification must be acknowledged, got %v", err)
	}

	if result.Outcome != service.OutcomeUnmatched {
		t.Errorf("expected unmatched outcome, got %q", result.Outcome)
	}

	payment := f.paymentRepo.First()
	if payment == nil {
		t.Fatal("expected an orphan ledger entry")
	}
	if payment.BookingID != "" {
		t.Errorf("expected orphan entry, got booking id %q", payment.BookingID)
	}
	if payment.ExternalID != "tx-100" {
		t.Errorf("expected external id tx-100, got %q", payment.ExternalID)
	}
}

func TestWebhook_FailureStatusNotifiesCustomer(t *testing.T) {
	f := newWebhookFixture()
	f.addBooking("booking-1", "ORDER-1001")

	expired := `{
		"order_id": "ORDER-1001",
		"transaction_id": "tx-100",
		"status_code": "202",
		"transaction_status": "expire",
		"gross_amount": "150000.00",
		"payment_type": "gopay",
		"signature_key": "sig"
	}`
	result, err := f.svc.HandleNotification(context.Background(), []byte(expired))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Outcome != service.OutcomeFailed {
		t.Errorf("expected failed outcome, got %q", result.Outcome)
	}
	if got := f.bookingRepo.GetBooking("booking-1").PaymentStatus; got != domain.PaymentStatusFailed {
		t.Errorf("expected booking failed, got %q", got)
	}
	if f.notifier.FailedCallCount != 1 {
		t.Errorf("expected 1 failure notice, got %d", f.notifier.FailedCallCount)
	}
}

func TestWebhook_ConcurrentRetrySuppressedByDedup(t *testing.T) {
	bookingRepo := NewMockBookingRepository()
	paymentRepo := NewMockPaymentRepository()
	dedup := NewMockDedupStore()
	svc := service.NewPaymentService(
		bookingRepo,
		service.NewBookingResolver(bookingRepo),
		service.NewLedgerService(paymentRepo),
		NewMockGateway(),
		nil,
		nil,
		dedup,
	)
	bookingRepo.AddBooking(&domain.Booking{ID: "booking-1", BookingCode: "ORDER-1001"})

	first, err := svc.HandleNotification(context.Background(), []byte(settlementBody))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Outcome != service.OutcomeSettled {
		t.Errorf("expected settled, got %q", first.Outcome)
	}

	second, err := svc.HandleNotification(context.Background(), []byte(settlementBody))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Outcome != service.OutcomeDuplicate {
		t.Errorf("expected duplicate outcome, got %q", second.Outcome)
	}
	if paymentRepo.Count() != 1 {
		t.Errorf("expected 1 ledger entry, got %d", paymentRepo.Count())
	}
}

func TestWebhook_FailedDeliveryRetryNotSuppressed(t *testing.T) {
	bookingRepo := NewMockBookingRepository()
	paymentRepo := NewMockPaymentRepository()
	dedup := NewMockDedupStore()
	svc := service.NewPaymentService(
		bookingRepo,
		service.NewBookingResolver(bookingRepo),
		service.NewLedgerService(paymentRepo),
		NewMockGateway(),
		nil,
		nil,
		dedup,
	)
	bookingRepo.AddBooking(&domain.Booking{
		ID:            "booking-1",
		BookingCode:   "ORDER-1001",
		PaymentStatus: domain.PaymentStatusPending,
	})

	// The first delivery reaches the ledger but the write fails.
	paymentRepo.CreateError = errors.New("connection reset")
	if _, err := svc.HandleNotification(context.Background(), []byte(settlementBody)); err == nil {
		t.Fatal("expected the first delivery to fail")
	}
	if dedup.ReleaseCallCount != 1 {
		t.Errorf("a failed delivery must release its dedup key, got %d releases", dedup.ReleaseCallCount)
	}

	// The gateway retries after the store recovers.
	paymentRepo.CreateError = nil
	result, err := svc.HandleNotification(context.Background(), []byte(settlementBody))
	if err != nil {
		t.Fatalf("unexpected error on retry: %v", err)
	}
	if result.Outcome != service.OutcomeSettled {
		t.Errorf("expected the retry to settle, got %q", result.Outcome)
	}
	if paymentRepo.Count() != 1 {
		t.Errorf("expected 1 ledger entry after retry, got %d", paymentRepo.Count())
	}
	if got := bookingRepo.GetBooking("booking-1").PaymentStatus; got != domain.PaymentStatusPaid {
		t.Errorf("expected booking paid after retry, got %q", got)
	}
}

func TestWebhook_DedupFailureDoesNotBlockProcessing(t *testing.T) {
	bookingRepo := NewMockBookingRepository()
	paymentRepo := NewMockPaymentRepository()
	dedup := NewMockDedupStore()
	dedup.AcquireError = errors.New("redis down")
	svc := service.NewPaymentService(
		bookingRepo,
		service.NewBookingResolver(bookingRepo),
		service.NewLedgerService(paymentRepo),
		NewMockGateway(),
		nil,
		nil,
		dedup,
	)
	bookingRepo.AddBooking(&domain.Booking{ID: "booking-1", BookingCode: "ORDER-1001"})

	result, err := svc.HandleNotification(context.Background(), []byte(settlementBody))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Outcome != service.OutcomeSettled {
		t.Errorf("expected settled despite dedup outage, got %q", result.Outcome)
	}
}
