package gateway

import (
	"encoding/json"
	"fmt"
)

// Notification is the status-bearing payload pushed by the gateway.
type Notification struct {
	OrderID           string `json:"order_id"`
	TransactionID     string `json:"transaction_id"`
	StatusCode        string `json:"status_code"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	PaymentType       string `json:"payment_type"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`

	// Raw is the payload exactly as delivered, kept for the ledger audit trail.
	Raw json.RawMessage `json:"-"`
}

// ParseNotification decodes a raw webhook body into a Notification.
func ParseNotification(body []byte) (*Notification, error) {
	var n Notification
	if err := json.Unmarshal(body, &n); err != nil {
		return nil, fmt.Errorf("malformed notification payload: %w", err)
	}
	n.Raw = json.RawMessage(body)
	return &n, nil
}
