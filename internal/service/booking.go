package service

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"summit/internal/domain"
	"summit/internal/repository"
)

// BookingCache is the read-path cache for booking lookups.
type BookingCache interface {
	GetBooking(ctx context.Context, id string) (*domain.Booking, error)
	SetBooking(ctx context.Context, booking *domain.Booking) error
	InvalidateBooking(ctx context.Context, id string) error
}

// BookingService handles the thin booking endpoints around the
// reconciliation core.
type BookingService struct {
	bookingRepo repository.BookingRepository
	cache       BookingCache // optional
}

// NewBookingService creates a new BookingService.
func NewBookingService(bookingRepo repository.BookingRepository, cache BookingCache) *BookingService {
	return &BookingService{bookingRepo: bookingRepo, cache: cache}
}

// CreateBookingRequest contains the parameters for creating a booking.
type CreateBookingRequest struct {
	CustomerName  string
	CustomerEmail string
	Mountain      string
	TripDate      time.Time
	Amount        float64
}

// CreateBooking creates an unpaid booking with a generated order code.
func (s *BookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*domain.Booking, error) {
	if req.CustomerEmail == "" || req.CustomerName == "" {
		return nil, ErrMissingCustomer
	}
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	booking := &domain.Booking{
		ID:            uuid.New().String(),
		BookingCode:   newBookingCode(),
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		Mountain:      req.Mountain,
		TripDate:      req.TripDate,
		Amount:        req.Amount,
		PaymentStatus: domain.PaymentStatusUnpaid,
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, err
	}

	return booking, nil
}

// GetBooking retrieves a booking by id, consulting the cache first.
func (s *BookingService) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	if id == "" {
		return nil, ErrInvalidReference
	}

	if s.cache != nil {
		cached, err := s.cache.GetBooking(ctx, id)
		if err != nil {
			log.Printf("booking cache read failed for %s: %v", id, err)
		} else if cached != nil {
			return cached, nil
		}
	}

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetBooking(ctx, booking); err != nil {
			log.Printf("booking cache write failed for %s: %v", id, err)
		}
	}

	return booking, nil
}

// GetAllBookings retrieves all bookings.
func (s *BookingService) GetAllBookings(ctx context.Context) ([]*domain.Booking, error) {
	return s.bookingRepo.GetAll(ctx)
}

// newBookingCode generates a code in the order namespace, unique enough for
// human-facing references; the id column remains the real key.
func newBookingCode() string {
	return fmt.Sprintf("%s%d%04d", OrderCodePrefix, time.Now().Unix(), rand.Intn(10000))
}
