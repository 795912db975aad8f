package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"chargenow/internal/domain"
	"chargenow/internal/service"
)

// PaymentHandler handles HTTP requests for payments.
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// RecordPaymentBody is the HTTP request body for recording a payment.
// A client-supplied status is not accepted; payments always start PENDING.
type RecordPaymentBody struct {
	BookingID int64           `json:"booking_id" binding:"required"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method" binding:"required"`
}

// PaymentResponse is the HTTP response for payment data.
type PaymentResponse struct {
	ID         int64  `json:"id"`
	BookingID  int64  `json:"booking_id"`
	RiderID    int64  `json:"rider_id"`
	OperatorID int64  `json:"operator_id"`
	Amount     string `json:"amount"`
	Method     string `json:"method"`
	Status     string `json:"status"`
	CreatedAt  string `json:"created_at"`
	SettledAt  string `json:"settled_at,omitempty"`
}

func toPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:         p.ID,
		BookingID:  p.BookingID,
		RiderID:    p.RiderID,
		OperatorID: p.OperatorID,
		Amount:     p.Amount.StringFixed(domain.AmountPlaces),
		Method:     string(p.Method),
		Status:     string(p.Status),
		CreatedAt:  formatTime(p.CreatedAt),
		SettledAt:  formatTime(p.SettledAt),
	}
}

// RecordPayment handles POST /v1/payments
func (h *PaymentHandler) RecordPayment(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var body RecordPaymentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "booking_id, amount and method are required")
		return
	}

	payment, err := h.paymentService.RecordPayment(c.Request.Context(), p, service.RecordPaymentInput{
		BookingID: body.BookingID,
		Amount:    body.Amount,
		Method:    body.Method,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, "payment recorded", toPaymentResponse(payment))
}

// ListPayments handles GET /v1/payments
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	payments, err := h.paymentService.ListPayments(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]PaymentResponse, 0, len(payments))
	for _, pm := range payments {
		response = append(response, toPaymentResponse(pm))
	}
	respondJSON(c, http.StatusOK, "", response)
}

// SettlePayment handles PUT /v1/payments/:id/settle
func (h *PaymentHandler) SettlePayment(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	payment, err := h.paymentService.SettlePayment(c.Request.Context(), p, id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, "payment settled", toPaymentResponse(payment))
}
