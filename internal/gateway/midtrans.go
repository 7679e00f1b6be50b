package gateway

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"net/http"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"

	"summit/internal/config"
)

// CreateTransactionInput carries the parameters for a Snap transaction.
type CreateTransactionInput struct {
	OrderID       string
	GrossAmount   int64
	CustomerName  string
	CustomerEmail string
}

// Transaction is the gateway's handle for a newly created transaction.
type Transaction struct {
	Token       string
	RedirectURL string
}

// TransactionStatus is the gateway's view of a transaction.
type TransactionStatus struct {
	OrderID           string
	TransactionID     string
	StatusCode        string
	TransactionStatus string
	FraudStatus       string
	PaymentType       string
	GrossAmount       string
}

// MidtransClient talks to the Midtrans Snap and Core APIs.
type MidtransClient struct {
	snap      snap.Client
	core      coreapi.Client
	serverKey string
}

// NewMidtransClient creates a Midtrans client from configuration.
func NewMidtransClient(cfg config.MidtransConfig) *MidtransClient {
	env := midtrans.Sandbox
	if cfg.Production {
		env = midtrans.Production
	}

	c := &MidtransClient{serverKey: cfg.ServerKey}
	c.snap.New(cfg.ServerKey, env)
	c.core.New(cfg.ServerKey, env)
	return c
}

// CreateTransaction creates a Snap transaction and returns its token and
// redirect URL. The Midtrans SDK does not accept a context; ctx is part of
// the contract so callers and mocks stay uniform.
func (c *MidtransClient) CreateTransaction(ctx context.Context, in CreateTransactionInput) (*Transaction, error) {
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  in.OrderID,
			GrossAmt: in.GrossAmount,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: in.CustomerName,
			Email: in.CustomerEmail,
		},
	}

	resp, merr := c.snap.CreateTransaction(req)
	if merr != nil {
		return nil, classify(merr)
	}

	if resp.Token == "" || resp.RedirectURL == "" {
		return nil, fmt.Errorf("%w: incomplete snap response", ErrUnavailable)
	}

	return &Transaction{Token: resp.Token, RedirectURL: resp.RedirectURL}, nil
}

// GetTransactionStatus queries the Core API for the current transaction state.
func (c *MidtransClient) GetTransactionStatus(ctx context.Context, transactionID string) (*TransactionStatus, error) {
	resp, merr := c.core.CheckTransaction(transactionID)
	if merr != nil {
		if merr.StatusCode == http.StatusNotFound {
			return nil, ErrTransactionNotFound
		}
		return nil, classify(merr)
	}

	return &TransactionStatus{
		OrderID:           resp.OrderID,
		TransactionID:     resp.TransactionID,
		StatusCode:        resp.StatusCode,
		TransactionStatus: resp.TransactionStatus,
		FraudStatus:       resp.FraudStatus,
		PaymentType:       resp.PaymentType,
		GrossAmount:       resp.GrossAmount,
	}, nil
}

// VerifyNotification checks a notification's signature key against the
// payload. Midtrans signs with SHA-512 over order id, status code, gross
// amount and the merchant server key.
func (c *MidtransClient) VerifyNotification(n *Notification) error {
	sum := sha512.Sum512([]byte(n.OrderID + n.StatusCode + n.GrossAmount + c.serverKey))
	if hex.EncodeToString(sum[:]) != n.SignatureKey {
		return ErrInvalidSignature
	}
	return nil
}

// classify maps a Midtrans API error onto the gateway error taxonomy.
func classify(merr *midtrans.Error) error {
	switch {
	case merr.StatusCode == http.StatusUnauthorized || merr.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrAuthentication, merr.Message)
	case merr.StatusCode >= 400 && merr.StatusCode < 500:
		return fmt.Errorf("%w: %s (status %d)", ErrRejected, merr.Message, merr.StatusCode)
	default:
		return fmt.Errorf("%w: %s", ErrUnavailable, merr.Message)
	}
}
