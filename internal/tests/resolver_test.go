package tests

import (
	"context"
	"errors"
	"testing"

	"summit/internal/domain"
	"summit/internal/repository"
	"summit/internal/service"
)

func TestResolver_MatchesBookingCode(t *testing.T) {
	bookingRepo := NewMockBookingRepository()
	bookingRepo.AddBooking(&domain.Booking{ID: "b7f6d9a0-0000-4000-8000-000000000001", BookingCode: "ORDER-1001"})
	resolver := service.NewBookingResolver(bookingRepo)

	booking, err := resolver.Resolve(context.Background(), "ORDER-1001")
	if err != nil {
		t.Fatalf("expected match, got %v", err)
	}
	if booking.BookingCode != "ORDER-1001" {
		t.Errorf("resolved wrong booking: %+v", booking)
	}
}

func TestResolver_MatchesInternalID(t *testing.T) {
	bookingRepo := NewMockBookingRepository()
	bookingRepo.AddBooking(&domain.Booking{ID: "b7f6d9a0-0000-4000-8000-000000000001", BookingCode: "ORDER-1001"})
	resolver := service.NewBookingResolver(bookingRepo)

	booking, err := resolver.Resolve(context.Background(), "b7f6d9a0-0000-4000-8000-000000000001")
	if err != nil {
		t.Fatalf("expected match, got %v", err)
	}
	if booking.BookingCode != "ORDER-1001" {
		t.Errorf("resolved wrong booking: %+v", booking)
	}
}

func TestResolver_MalformedIDIsAMissNotAnError(t *testing.T) {
	bookingRepo := NewMockBookingRepository()
	bookingRepo.AddBooking(&domain.Booking{ID: "b7f6d9a0-0000-4000-8000-000000000001", BookingCode: "ORDER-1001"})
	resolver := service.NewBookingResolver(bookingRepo)

	_, err := resolver.Resolve(context.Background(), "not-a-uuid-and-not-a-code")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestResolver_MatchesExternalReference(t *testing.T) {
	bookingRepo := NewMockBookingRepository()
	bookingRepo.AddBooking(&domain.Booking{
		ID:                "b7f6d9a0-0000-4000-8000-000000000001",
		BookingCode:       "ORDER-1001",
		PaymentExternalID: "snap-token-9",
	})
	resolver := service.NewBookingResolver(bookingRepo)

	booking, err := resolver.Resolve(context.Background(), "snap-token-9")
	if err != nil {
		t.Fatalf("expected match, got %v", err)
	}
	if booking.BookingCode != "ORDER-1001" {
		t.Errorf("resolved wrong booking: %+v", booking)
	}
}

func TestResolver_RetriesWithOrderPrefix(t *testing.T) {
	bookingRepo := NewMockBookingRepository()
	bookingRepo.AddBooking(&domain.Booking{ID: "b7f6d9a0-0000-4000-8000-000000000001", BookingCode: "ORDER-1001"})
	resolver := service.NewBookingResolver(bookingRepo)

	// Some gateways strip the namespace from the order reference.
	booking, err := resolver.Resolve(context.Background(), "1001")
	if err != nil {
		t.Fatalf("expected prefix fallback match, got %v", err)
	}
	if booking.BookingCode != "ORDER-1001" {
		t.Errorf("resolved wrong booking: %+v", booking)
	}
}

func TestResolver_EmptyReference(t *testing.T) {
	resolver := service.NewBookingResolver(NewMockBookingRepository())

	_, err := resolver.Resolve(context.Background(), "")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestResolver_NotFoundAfterAllSteps(t *testing.T) {
	bookingRepo := NewMockBookingRepository()
	bookingRepo.AddBooking(&domain.Booking{ID: "b7f6d9a0-0000-4000-8000-000000000001", BookingCode: "ORDER-1001"})
	resolver := service.NewBookingResolver(bookingRepo)

	_, err := resolver.Resolve(context.Background(), "ORDER-9999")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestResolver_ResolveOrderSkipsExternalReference(t *testing.T) {
	bookingRepo := NewMockBookingRepository()
	bookingRepo.AddBooking(&domain.Booking{
		ID:                "b7f6d9a0-0000-4000-8000-000000000001",
		BookingCode:       "ORDER-1001",
		PaymentExternalID: "snap-token-9",
	})
	resolver := service.NewBookingResolver(bookingRepo)

	// The caller-facing path must not resolve gateway tokens.
	_, err := resolver.ResolveOrder(context.Background(), "snap-token-9")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
