package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"summit/internal/domain"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationPaymentSettled NotificationType = "PAYMENT_SETTLED"
	NotificationPaymentFailed  NotificationType = "PAYMENT_FAILED"
)

// Notification represents a notification to be sent.
type Notification struct {
	Type           NotificationType
	RecipientEmail string
	Title          string
	Message        string
	Data           map[string]interface{}
	CreatedAt      time.Time
}

// NotificationService delivers customer-facing payment notices.
type NotificationService struct {
	// In a real system, this would have an email client and a push
	// notification client.
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// NotifyPaymentSettled notifies the customer of a settled payment.
func (s *NotificationService) NotifyPaymentSettled(ctx context.Context, booking *domain.Booking, payment *domain.Payment) error {
	notification := Notification{
		Type:           NotificationPaymentSettled,
		RecipientEmail: booking.CustomerEmail,
		Title:          "Payment Received",
		Message:        fmt.Sprintf("Payment of %.2f for booking %s was received", payment.Amount, booking.BookingCode),
		Data: map[string]interface{}{
			"booking_id": booking.ID,
			"payment_id": payment.ID,
			"amount":     payment.Amount,
			"method":     payment.Method,
		},
		CreatedAt: time.Now(),
	}
	return s.send(ctx, notification)
}

// NotifyPaymentFailed notifies the customer of a failed payment.
func (s *NotificationService) NotifyPaymentFailed(ctx context.Context, booking *domain.Booking, payment *domain.Payment) error {
	notification := Notification{
		Type:           NotificationPaymentFailed,
		RecipientEmail: booking.CustomerEmail,
		Title:          "Payment Failed",
		Message:        fmt.Sprintf("Payment for booking %s did not complete. Please try again.", booking.BookingCode),
		Data: map[string]interface{}{
			"booking_id": booking.ID,
			"payment_id": payment.ID,
			"amount":     payment.Amount,
		},
		CreatedAt: time.Now(),
	}
	return s.send(ctx, notification)
}

// send delivers a notification (mock implementation).
func (s *NotificationService) send(ctx context.Context, notification Notification) error {
	log.Printf("[NOTIFICATION] Type=%s, Recipient=%s, Title=%s, Message=%s",
		notification.Type, notification.RecipientEmail, notification.Title, notification.Message)

	return nil
}
