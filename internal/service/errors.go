package service

import "errors"

var (
	// ErrInvalidAmount is returned when an amount is missing, non-numeric or not positive.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrMissingCustomer is returned when customer name or email is empty.
	ErrMissingCustomer = errors.New("missing customer details")

	// ErrCustomerMismatch is returned when the supplied customer email does not
	// match the booking's stored email.
	ErrCustomerMismatch = errors.New("customer email does not match booking")

	// ErrInvalidReference is returned when a booking or transaction reference is empty.
	ErrInvalidReference = errors.New("invalid reference")

	// ErrInvalidStatus is returned when a status update carries no status.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrStaleStatus is returned when an update would revert a terminal
	// payment status. The stored state is already correct; callers on the
	// notification path treat this as success.
	ErrStaleStatus = errors.New("stale status for settled payment")

	// ErrInvalidNotification is returned when a webhook payload is malformed
	// or fails signature validation.
	ErrInvalidNotification = errors.New("invalid notification")
)
