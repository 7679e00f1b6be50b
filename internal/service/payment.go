package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	"summit/internal/domain"
	"summit/internal/gateway"
	"summit/internal/repository"
)

// Gateway is the interface for the external payment gateway.
type Gateway interface {
	CreateTransaction(ctx context.Context, in gateway.CreateTransactionInput) (*gateway.Transaction, error)
	GetTransactionStatus(ctx context.Context, transactionID string) (*gateway.TransactionStatus, error)
	VerifyNotification(n *gateway.Notification) error
}

// BookingInvalidator drops cached booking state after a reconciliation write.
type BookingInvalidator interface {
	InvalidateBooking(ctx context.Context, bookingID string) error
}

// Notifier delivers customer-facing payment notices.
type Notifier interface {
	NotifyPaymentSettled(ctx context.Context, booking *domain.Booking, payment *domain.Payment) error
	NotifyPaymentFailed(ctx context.Context, booking *domain.Booking, payment *domain.Payment) error
}

// DedupStore suppresses concurrently retried webhook deliveries. Suppression
// is best effort; correctness rests on the ledger's idempotence. A key held
// by a delivery that failed to apply must be released so the retry gets
// processed.
type DedupStore interface {
	AcquireNotificationLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	ReleaseNotificationLock(ctx context.Context, key string) error
}

const notificationDedupTTL = 30 * time.Second

// PaymentService drives payment reconciliation: transaction initiation,
// gateway webhook handling and on-demand status polling all converge on the
// resolver → status map → ledger pipeline.
type PaymentService struct {
	bookingRepo repository.BookingRepository
	resolver    *BookingResolver
	ledger      *LedgerService
	gateway     Gateway
	cache       BookingInvalidator // optional
	notifier    Notifier           // optional
	dedup       DedupStore         // optional
}

// NewPaymentService creates a new PaymentService. cache, notifier and dedup
// may be nil.
func NewPaymentService(
	bookingRepo repository.BookingRepository,
	resolver *BookingResolver,
	ledger *LedgerService,
	gw Gateway,
	cache BookingInvalidator,
	notifier Notifier,
	dedup DedupStore,
) *PaymentService {
	return &PaymentService{
		bookingRepo: bookingRepo,
		resolver:    resolver,
		ledger:      ledger,
		gateway:     gw,
		cache:       cache,
		notifier:    notifier,
		dedup:       dedup,
	}
}

// InitiateTransactionRequest contains the parameters for creating a gateway
// transaction against an existing booking.
type InitiateTransactionRequest struct {
	Reference     string // booking code or internal id
	Amount        string
	CustomerName  string
	CustomerEmail string
}

// InitiateTransactionResult is returned to the caller on success.
type InitiateTransactionResult struct {
	Token       string
	RedirectURL string
	OrderID     string
}

// InitiateTransaction validates the request against the booking it claims to
// pay for and creates a gateway transaction. On gateway success the booking
// is eagerly marked pending with the issued token stored as its external
// reference, so a client polling right after redirect sees pending rather
// than unpaid. Failure of that eager write is logged and left for the
// webhook or poller to reconcile; the token is returned regardless.
func (s *PaymentService) InitiateTransaction(ctx context.Context, req InitiateTransactionRequest) (*InitiateTransactionResult, error) {
	// ParseFloat accepts "NaN" and "Inf" tokens; neither is a chargeable amount.
	amount, err := strconv.ParseFloat(strings.TrimSpace(req.Amount), 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return nil, ErrInvalidAmount
	}

	if req.CustomerEmail == "" || req.CustomerName == "" {
		return nil, ErrMissingCustomer
	}

	booking, err := s.resolver.ResolveOrder(ctx, req.Reference)
	if err != nil {
		return nil, err
	}

	if req.CustomerEmail != booking.CustomerEmail {
		return nil, ErrCustomerMismatch
	}

	orderID := booking.BookingCode
	if orderID == "" {
		orderID = booking.ID
	}

	tx, err := s.gateway.CreateTransaction(ctx, gateway.CreateTransactionInput{
		OrderID:       orderID,
		GrossAmount:   int64(math.Round(amount)),
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
	})
	if err != nil {
		return nil, err
	}

	// The token is already issued; a failed local write must not fail the
	// request.
	if err := s.bookingRepo.SetExternalRef(ctx, booking.ID, domain.PaymentStatusPending, tx.Token); err != nil {
		log.Printf("failed to mark booking %s pending after transaction creation: %v", booking.ID, err)
	} else {
		s.invalidate(ctx, booking.ID)
	}

	return &InitiateTransactionResult{
		Token:       tx.Token,
		RedirectURL: tx.RedirectURL,
		OrderID:     orderID,
	}, nil
}

// NotificationOutcome distinguishes the acknowledgement cases of a webhook.
type NotificationOutcome string

const (
	OutcomeSettled   NotificationOutcome = "success"
	OutcomeFailed    NotificationOutcome = "failed"
	OutcomeUpdated   NotificationOutcome = "updated"
	OutcomeUnmatched NotificationOutcome = "unmatched"
	OutcomeDuplicate NotificationOutcome = "duplicate"
)

// NotificationResult is the acknowledgement body for a processed webhook.
type NotificationResult struct {
	Outcome NotificationOutcome
	OrderID string
	Status  domain.PaymentStatus
}

// HandleNotification authenticates a gateway push notification and applies
// it to local state. Any payload that passes signature validation is
// acknowledged, including ones whose booking cannot be resolved; those are
// recorded as orphan ledger entries instead of inducing endless gateway
// retries.
func (s *PaymentService) HandleNotification(ctx context.Context, body []byte) (*NotificationResult, error) {
	n, err := gateway.ParseNotification(body)
	if err != nil {
		return nil, ErrInvalidNotification
	}

	if err := s.gateway.VerifyNotification(n); err != nil {
		return nil, ErrInvalidNotification
	}

	var dedupKey string
	if s.dedup != nil {
		dedupKey = "notify:" + n.TransactionID + ":" + n.TransactionStatus
		acquired, err := s.dedup.AcquireNotificationLock(ctx, dedupKey, notificationDedupTTL)
		if err != nil {
			log.Printf("notification dedup unavailable, proceeding: %v", err)
			dedupKey = ""
		} else if !acquired {
			return &NotificationResult{
				Outcome: OutcomeDuplicate,
				OrderID: n.OrderID,
				Status:  MapTransactionStatus(n.TransactionStatus),
			}, nil
		}
	}

	status := MapTransactionStatus(n.TransactionStatus)

	booking, err := s.resolver.Resolve(ctx, n.OrderID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.releaseDedup(ctx, dedupKey)
		return nil, err
	}

	externalID := n.TransactionID
	if externalID == "" {
		externalID = n.OrderID
	}

	payment, applied, err := s.apply(ctx, booking, externalID, status, n.GrossAmount, n.PaymentType, n.Raw)
	if err != nil {
		s.releaseDedup(ctx, dedupKey)
		return nil, err
	}

	if booking == nil {
		log.Printf("no booking matched order %q, recorded orphan ledger entry %s", n.OrderID, payment.ID)
		return &NotificationResult{Outcome: OutcomeUnmatched, OrderID: n.OrderID, Status: status}, nil
	}

	if applied && status.Terminal() {
		s.notify(ctx, booking, payment)
	}

	outcome := OutcomeUpdated
	switch payment.Status {
	case domain.PaymentStatusPaid:
		outcome = OutcomeSettled
	case domain.PaymentStatusFailed:
		outcome = OutcomeFailed
	}

	return &NotificationResult{Outcome: outcome, OrderID: n.OrderID, Status: payment.Status}, nil
}

// PollStatus queries the gateway for a transaction's current state and
// re-applies the reconciliation pipeline synchronously before returning the
// gateway's view to the caller.
func (s *PaymentService) PollStatus(ctx context.Context, transactionID string) (*gateway.TransactionStatus, error) {
	if transactionID == "" {
		return nil, ErrInvalidReference
	}

	st, err := s.gateway.GetTransactionStatus(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	status := MapTransactionStatus(st.TransactionStatus)

	booking, err := s.resolver.Resolve(ctx, st.OrderID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	externalID := st.TransactionID
	if externalID == "" {
		externalID = transactionID
	}

	payload, err := json.Marshal(st)
	if err != nil {
		return nil, err
	}

	if _, _, err := s.apply(ctx, booking, externalID, status, st.GrossAmount, st.PaymentType, payload); err != nil {
		return nil, err
	}

	return st, nil
}

// StatusUpdatePayment carries optional gateway data on a manual status update.
type StatusUpdatePayment struct {
	ExternalID  string
	GrossAmount string
	Method      string
	Raw         json.RawMessage
}

// StatusUpdateRequest is the manual (admin) reconciliation request.
type StatusUpdateRequest struct {
	Reference string
	Status    domain.PaymentStatus
	Payment   *StatusUpdatePayment
}

// ApplyStatusUpdate sets a booking's payment status directly and, when
// gateway data accompanies the request, records it in the ledger through the
// same idempotent upsert as the automated paths. The upsert runs first so a
// stale status is rejected before the booking row is touched.
func (s *PaymentService) ApplyStatusUpdate(ctx context.Context, req StatusUpdateRequest) (*domain.Booking, error) {
	if req.Reference == "" {
		return nil, ErrInvalidReference
	}
	if req.Status == "" {
		return nil, ErrInvalidStatus
	}

	booking, err := s.resolver.ResolveOrder(ctx, req.Reference)
	if err != nil {
		return nil, err
	}

	if req.Payment != nil {
		externalID := req.Payment.ExternalID
		if externalID == "" {
			externalID = booking.PaymentExternalID
		}

		_, err := s.ledger.Upsert(ctx, UpsertRequest{
			BookingID:   booking.ID,
			ExternalID:  externalID,
			Status:      req.Status,
			GrossAmount: req.Payment.GrossAmount,
			Method:      req.Payment.Method,
			Payload:     req.Payment.Raw,
		})
		if err != nil {
			return nil, err
		}
	}

	if err := s.bookingRepo.UpdatePaymentStatus(ctx, booking.ID, req.Status); err != nil {
		return nil, err
	}
	booking.PaymentStatus = req.Status
	s.invalidate(ctx, booking.ID)

	return booking, nil
}

// apply runs the shared tail of the pipeline: ledger upsert first, booking
// status second. Gating the booking write on ledger acceptance keeps the
// terminal-status guard authoritative for both rows; a stale event leaves
// everything untouched. Returns whether the incoming status was applied.
func (s *PaymentService) apply(
	ctx context.Context,
	booking *domain.Booking,
	externalID string,
	status domain.PaymentStatus,
	grossAmount, method string,
	payload json.RawMessage,
) (*domain.Payment, bool, error) {
	bookingID := ""
	if booking != nil {
		bookingID = booking.ID
	}

	payment, err := s.ledger.Upsert(ctx, UpsertRequest{
		BookingID:   bookingID,
		ExternalID:  externalID,
		Status:      status,
		GrossAmount: grossAmount,
		Method:      method,
		Payload:     payload,
	})
	if err != nil {
		if errors.Is(err, ErrStaleStatus) {
			// The stored terminal state already reflects the truth.
			log.Printf("ignoring stale status %q for payment %s (stored %q)", status, payment.ID, payment.Status)
			return payment, false, nil
		}
		return nil, false, err
	}

	if booking != nil {
		if err := s.bookingRepo.UpdatePaymentStatus(ctx, booking.ID, payment.Status); err != nil {
			return nil, false, err
		}
		booking.PaymentStatus = payment.Status
		s.invalidate(ctx, booking.ID)
	}

	return payment, true, nil
}

// releaseDedup frees a delivery key whose delivery did not apply, so the
// gateway's retry is processed instead of suppressed for the TTL window.
func (s *PaymentService) releaseDedup(ctx context.Context, key string) {
	if s.dedup == nil || key == "" {
		return
	}
	if err := s.dedup.ReleaseNotificationLock(ctx, key); err != nil {
		log.Printf("failed to release notification dedup key %s: %v", key, err)
	}
}

func (s *PaymentService) invalidate(ctx context.Context, bookingID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateBooking(ctx, bookingID); err != nil {
		log.Printf("failed to invalidate booking cache for %s: %v", bookingID, err)
	}
}

func (s *PaymentService) notify(ctx context.Context, booking *domain.Booking, payment *domain.Payment) {
	if s.notifier == nil {
		return
	}

	var err error
	switch payment.Status {
	case domain.PaymentStatusPaid:
		err = s.notifier.NotifyPaymentSettled(ctx, booking, payment)
	case domain.PaymentStatusFailed:
		err = s.notifier.NotifyPaymentFailed(ctx, booking, payment)
	}
	if err != nil {
		log.Printf("failed to notify customer for booking %s: %v", booking.ID, err)
	}
}
