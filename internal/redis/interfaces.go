package redis

import (
	"context"
	"time"

	"summit/internal/domain"
)

// CacheStoreInterface defines the interface for booking cache operations.
type CacheStoreInterface interface {
	GetBooking(ctx context.Context, id string) (*domain.Booking, error)
	SetBooking(ctx context.Context, booking *domain.Booking) error
	InvalidateBooking(ctx context.Context, id string) error
}

// DedupStoreInterface defines the interface for webhook delivery dedup.
type DedupStoreInterface interface {
	AcquireNotificationLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	ReleaseNotificationLock(ctx context.Context, key string) error
}

// Ensure concrete types implement interfaces.
var (
	_ CacheStoreInterface = (*CacheStore)(nil)
	_ DedupStoreInterface = (*DedupStore)(nil)
)
