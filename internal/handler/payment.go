package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"summit/internal/domain"
	"summit/internal/service"
)

// PaymentHandler handles HTTP requests for payment reconciliation.
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// CreateTransactionRequest is the HTTP request body for creating a gateway
// transaction. booking_id takes precedence over order_id; either may carry a
// booking code or an internal id.
type CreateTransactionRequest struct {
	BookingID     string      `json:"booking_id"`
	OrderID       string      `json:"order_id"`
	Amount        json.Number `json:"amount"`
	CustomerEmail string      `json:"customer_email"`
	CustomerName  string      `json:"customer_name"`
}

// CreateTransactionResponse is returned when a transaction is created.
type CreateTransactionResponse struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
	OrderID     string `json:"order_id"`
}

// CreateTransaction handles POST /v1/payments/create-transaction
func (h *PaymentHandler) CreateTransaction(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	reference := req.BookingID
	if reference == "" {
		reference = req.OrderID
	}

	result, err := h.paymentService.InitiateTransaction(c.Request.Context(), service.InitiateTransactionRequest{
		Reference:     reference,
		Amount:        req.Amount.String(),
		CustomerEmail: req.CustomerEmail,
		CustomerName:  req.CustomerName,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, CreateTransactionResponse{
		Token:       result.Token,
		RedirectURL: result.RedirectURL,
		OrderID:     result.OrderID,
	})
}

// TransactionStatusResponse is the externally visible transaction state.
type TransactionStatusResponse struct {
	OrderID           string `json:"order_id"`
	TransactionID     string `json:"transaction_id"`
	StatusCode        string `json:"status_code"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	PaymentType       string `json:"payment_type"`
	GrossAmount       string `json:"gross_amount"`
}

// GetTransactionStatus handles GET /v1/payments/transaction-status/:id
func (h *PaymentHandler) GetTransactionStatus(c *gin.Context) {
	st, err := h.paymentService.PollStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, TransactionStatusResponse{
		OrderID:           st.OrderID,
		TransactionID:     st.TransactionID,
		StatusCode:        st.StatusCode,
		TransactionStatus: st.TransactionStatus,
		FraudStatus:       st.FraudStatus,
		PaymentType:       st.PaymentType,
		GrossAmount:       st.GrossAmount,
	})
}

// UpdateStatusRequest is the manual reconciliation request body.
type UpdateStatusRequest struct {
	BookingID   string               `json:"booking_id"`
	Status      string               `json:"status"`
	PaymentData *UpdateStatusPayment `json:"payment_data"`
}

// UpdateStatusPayment carries optional gateway data on a manual update.
type UpdateStatusPayment struct {
	TransactionID string          `json:"transaction_id"`
	GrossAmount   string          `json:"gross_amount"`
	PaymentType   string          `json:"payment_type"`
	Raw           json.RawMessage `json:"raw"`
}

// UpdateStatusResponse returns the updated booking.
type UpdateStatusResponse struct {
	ID            string `json:"id"`
	BookingCode   string `json:"booking_code"`
	PaymentStatus string `json:"payment_status"`
}

// UpdateStatus handles POST /v1/payments/update-status
func (h *PaymentHandler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	svcReq := service.StatusUpdateRequest{
		Reference: req.BookingID,
		Status:    domain.PaymentStatus(req.Status),
	}
	if req.PaymentData != nil {
		svcReq.Payment = &service.StatusUpdatePayment{
			ExternalID:  req.PaymentData.TransactionID,
			GrossAmount: req.PaymentData.GrossAmount,
			Method:      req.PaymentData.PaymentType,
			Raw:         req.PaymentData.Raw,
		}
	}

	booking, err := h.paymentService.ApplyStatusUpdate(c.Request.Context(), svcReq)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, UpdateStatusResponse{
		ID:            booking.ID,
		BookingCode:   booking.BookingCode,
		PaymentStatus: string(booking.PaymentStatus),
	})
}

// WebhookAck is the acknowledgement body returned to the gateway.
type WebhookAck struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
	OrderID string `json:"order_id"`
}

// HandleWebhook handles POST /v1/payments/webhook
//
// Once the payload's signature validates, the gateway always receives a 200
// so it does not retry conditions local reconciliation already accommodates.
func (h *PaymentHandler) HandleWebhook(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unreadable request body"})
		return
	}

	result, err := h.paymentService.HandleNotification(c.Request.Context(), body)
	if err != nil {
		if errors.Is(err, service.ErrInvalidNotification) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		// Storage failure: let the gateway retry.
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, WebhookAck{
		Success: true,
		Status:  string(result.Outcome),
		OrderID: result.OrderID,
	})
}
