package service

import "summit/internal/domain"

// MapTransactionStatus translates a gateway transaction status token into the
// internal payment status. Unknown tokens pass through unchanged so new
// gateway statuses surface verbatim instead of being misfiled.
func MapTransactionStatus(token string) domain.PaymentStatus {
	switch token {
	case "capture", "settlement":
		return domain.PaymentStatusPaid
	case "pending":
		return domain.PaymentStatusPending
	case "cancel", "expire", "deny":
		return domain.PaymentStatusFailed
	default:
		return domain.PaymentStatus(token)
	}
}
