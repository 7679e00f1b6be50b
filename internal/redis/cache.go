package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"summit/internal/domain"
)

// CacheStore handles booking caching in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// BookingCacheTTL is short because payment status changes while a customer
// is mid-checkout.
const BookingCacheTTL = 15 * time.Second

const bookingCachePrefix = "cache:booking:"

// cachedBooking is the wire form of a cached booking.
type cachedBooking struct {
	ID                string    `json:"id"`
	BookingCode       string    `json:"booking_code"`
	CustomerName      string    `json:"customer_name"`
	CustomerEmail     string    `json:"customer_email"`
	Mountain          string    `json:"mountain"`
	TripDate          time.Time `json:"trip_date"`
	Amount            float64   `json:"amount"`
	PaymentStatus     string    `json:"payment_status"`
	PaymentExternalID string    `json:"payment_external_id"`
}

// GetBooking retrieves a booking from cache. Returns nil on a miss.
func (s *CacheStore) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	data, err := s.client.Get(ctx, bookingCachePrefix+id).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var c cachedBooking
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}

	return &domain.Booking{
		ID:                c.ID,
		BookingCode:       c.BookingCode,
		CustomerName:      c.CustomerName,
		CustomerEmail:     c.CustomerEmail,
		Mountain:          c.Mountain,
		TripDate:          c.TripDate,
		Amount:            c.Amount,
		PaymentStatus:     domain.PaymentStatus(c.PaymentStatus),
		PaymentExternalID: c.PaymentExternalID,
	}, nil
}

// SetBooking stores a booking in cache.
func (s *CacheStore) SetBooking(ctx context.Context, booking *domain.Booking) error {
	data, err := json.Marshal(cachedBooking{
		ID:                booking.ID,
		BookingCode:       booking.BookingCode,
		CustomerName:      booking.CustomerName,
		CustomerEmail:     booking.CustomerEmail,
		Mountain:          booking.Mountain,
		TripDate:          booking.TripDate,
		Amount:            booking.Amount,
		PaymentStatus:     string(booking.PaymentStatus),
		PaymentExternalID: booking.PaymentExternalID,
	})
	if err != nil {
		return err
	}

	return s.client.Set(ctx, bookingCachePrefix+booking.ID, data, BookingCacheTTL).Err()
}

// InvalidateBooking removes a booking from cache.
func (s *CacheStore) InvalidateBooking(ctx context.Context, id string) error {
	return s.client.Del(ctx, bookingCachePrefix+id).Err()
}
