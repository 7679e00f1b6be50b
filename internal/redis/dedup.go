package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// DedupStore suppresses concurrently retried webhook deliveries via SetNX
// locks. The ledger's idempotence remains the correctness guarantee; this
// only cuts redundant work.
type DedupStore struct {
	client *redis.Client
}

// NewDedupStore creates a new DedupStore.
func NewDedupStore(client *redis.Client) *DedupStore {
	return &DedupStore{client: client}
}

// AcquireNotificationLock attempts to claim a delivery key.
// Returns true if this delivery is the first within the TTL window.
func (s *DedupStore) AcquireNotificationLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, "dedup:"+key, "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// ReleaseNotificationLock releases a delivery key early.
func (s *DedupStore) ReleaseNotificationLock(ctx context.Context, key string) error {
	return s.client.Del(ctx, "dedup:"+key).Err()
}
