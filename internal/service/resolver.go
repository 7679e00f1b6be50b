package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"summit/internal/domain"
	"summit/internal/repository"
)

// OrderCodePrefix is the namespace of generated booking codes.
const OrderCodePrefix = "ORDER-"

// BookingResolver maps an opaque external reference to exactly one booking.
type BookingResolver struct {
	bookingRepo repository.BookingRepository
}

// NewBookingResolver creates a new BookingResolver.
func NewBookingResolver(bookingRepo repository.BookingRepository) *BookingResolver {
	return &BookingResolver{bookingRepo: bookingRepo}
}

// Resolve runs the full resolution cascade: booking code, internal id,
// stored gateway reference, then booking code with the order namespace
// prefixed (some gateways strip it). Each step either hits or cleanly
// misses; only exact matches count. Returns repository.ErrNotFound after
// all four steps miss.
func (r *BookingResolver) Resolve(ctx context.Context, ref string) (*domain.Booking, error) {
	booking, err := r.ResolveOrder(ctx, ref)
	if err == nil {
		return booking, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	booking, err = r.bookingRepo.GetByExternalRef(ctx, ref)
	if err == nil {
		return booking, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	if !strings.HasPrefix(ref, OrderCodePrefix) {
		booking, err = r.bookingRepo.GetByCode(ctx, OrderCodePrefix+ref)
		if err == nil {
			return booking, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	return nil, repository.ErrNotFound
}

// ResolveOrder runs only the caller-facing steps of the cascade: exact match
// on booking code, then on internal id when the reference is a well-formed
// id. A malformed id is a miss, not an error.
func (r *BookingResolver) ResolveOrder(ctx context.Context, ref string) (*domain.Booking, error) {
	if ref == "" {
		return nil, repository.ErrNotFound
	}

	booking, err := r.bookingRepo.GetByCode(ctx, ref)
	if err == nil {
		return booking, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	if _, parseErr := uuid.Parse(ref); parseErr == nil {
		booking, err = r.bookingRepo.GetByID(ctx, ref)
		if err == nil {
			return booking, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	return nil, repository.ErrNotFound
}
