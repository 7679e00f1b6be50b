package gateway

import "errors"

var (
	// ErrAuthentication is returned when the gateway rejects our credentials.
	ErrAuthentication = errors.New("gateway authentication failed")

	// ErrRejected is returned when the gateway rejects the request itself
	// (structured validation error, not retryable as-is).
	ErrRejected = errors.New("gateway rejected request")

	// ErrUnavailable is returned on transport failures and gateway 5xx.
	ErrUnavailable = errors.New("gateway unavailable")

	// ErrTransactionNotFound is returned when the gateway has no record of
	// the requested transaction.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrInvalidSignature is returned when a notification's signature does
	// not match the payload.
	ErrInvalidSignature = errors.New("invalid notification signature")
)
