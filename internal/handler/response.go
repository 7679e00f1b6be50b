package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"summit/internal/gateway"
	"summit/internal/repository"
	"summit/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository/gateway errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, gateway.ErrTransactionNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrMissingCustomer),
		errors.Is(err, service.ErrCustomerMismatch),
		errors.Is(err, service.ErrInvalidReference),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidNotification),
		errors.Is(err, gateway.ErrRejected):
		return http.StatusBadRequest

	// Gateway credential failures
	case errors.Is(err, gateway.ErrAuthentication):
		return http.StatusUnauthorized

	// Conflict: a terminal status is already recorded
	case errors.Is(err, service.ErrStaleStatus):
		return http.StatusConflict

	// Upstream failures the caller may retry
	case errors.Is(err, gateway.ErrUnavailable):
		return http.StatusBadGateway

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
