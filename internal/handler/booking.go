package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"summit/internal/domain"
	"summit/internal/service"
)

// BookingHandler handles HTTP requests for bookings.
type BookingHandler struct {
	bookingService *service.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookingService *service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// CreateBookingRequest is the HTTP request body for creating a booking.
type CreateBookingRequest struct {
	CustomerName  string  `json:"customer_name"`
	CustomerEmail string  `json:"customer_email"`
	Mountain      string  `json:"mountain"`
	TripDate      string  `json:"trip_date"`
	Amount        float64 `json:"amount"`
}

// BookingResponse is the HTTP response for booking operations.
type BookingResponse struct {
	ID                string  `json:"id"`
	BookingCode       string  `json:"booking_code"`
	CustomerName      string  `json:"customer_name"`
	CustomerEmail     string  `json:"customer_email"`
	Mountain          string  `json:"mountain"`
	TripDate          string  `json:"trip_date"`
	Amount            float64 `json:"amount"`
	PaymentStatus     string  `json:"payment_status"`
	PaymentExternalID string  `json:"payment_external_id,omitempty"`
}

func toBookingResponse(b *domain.Booking) BookingResponse {
	return BookingResponse{
		ID:                b.ID,
		BookingCode:       b.BookingCode,
		CustomerName:      b.CustomerName,
		CustomerEmail:     b.CustomerEmail,
		Mountain:          b.Mountain,
		TripDate:          b.TripDate.Format("2006-01-02"),
		Amount:            b.Amount,
		PaymentStatus:     string(b.PaymentStatus),
		PaymentExternalID: b.PaymentExternalID,
	}
}

// CreateBooking handles POST /v1/bookings
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	tripDate, err := time.Parse("2006-01-02", req.TripDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "trip_date must be YYYY-MM-DD"})
		return
	}

	booking, err := h.bookingService.CreateBooking(c.Request.Context(), service.CreateBookingRequest{
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		Mountain:      req.Mountain,
		TripDate:      tripDate,
		Amount:        req.Amount,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toBookingResponse(booking))
}

// GetBooking handles GET /v1/bookings/:id
func (h *BookingHandler) GetBooking(c *gin.Context) {
	booking, err := h.bookingService.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBookingResponse(booking))
}

// GetAll handles GET /v1/bookings
func (h *BookingHandler) GetAll(c *gin.Context) {
	bookings, err := h.bookingService.GetAllBookings(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		responses = append(responses, toBookingResponse(b))
	}

	respondJSON(c, http.StatusOK, responses)
}
