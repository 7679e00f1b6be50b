package gateway

import (
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"testing"

	"summit/internal/config"
)

func TestParseNotification(t *testing.T) {
	body := []byte(`{
		"order_id": "ORDER-1001",
		"transaction_id": "tx-100",
		"status_code": "200",
		"transaction_status": "settlement",
		"fraud_status": "accept",
		"payment_type": "gopay",
		"gross_amount": "150000.00",
		"signature_key": "abc"
	}`)

	n, err := ParseNotification(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if n.OrderID != "ORDER-1001" || n.TransactionID != "tx-100" {
		t.Errorf("unexpected notification: %+v", n)
	}
	if n.TransactionStatus != "settlement" || n.GrossAmount != "150000.00" {
		t.Errorf("unexpected notification: %+v", n)
	}
	if string(n.Raw) != string(body) {
		t.Error("expected the raw payload to be preserved verbatim")
	}
}

func TestParseNotification_MalformedBody(t *testing.T) {
	if _, err := ParseNotification([]byte(`{"order_id":`)); err == nil {
		t.Error("expected an error for a truncated payload")
	}
	if _, err := ParseNotification([]byte(`not json at all`)); err == nil {
		t.Error("expected an error for a non-JSON payload")
	}
}

func TestVerifyNotification(t *testing.T) {
	const serverKey = "SB-Mid-server-testkey"
	client := NewMidtransClient(config.MidtransConfig{ServerKey: serverKey})

	n := &Notification{
		OrderID:     "ORDER-1001",
		StatusCode:  "200",
		GrossAmount: "150000.00",
	}
	sum := sha512.Sum512([]byte(n.OrderID + n.StatusCode + n.GrossAmount + serverKey))
	n.SignatureKey = hex.EncodeToString(sum[:])

	if err := client.VerifyNotification(n); err != nil {
		t.Errorf("expected a valid signature to pass, got %v", err)
	}

	n.GrossAmount = "1.00"
	if err := client.VerifyNotification(n); !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("expected ErrInvalidSignature after tampering, got %v", err)
	}
}
