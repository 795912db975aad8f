package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"chargenow/internal/domain"
	"chargenow/internal/service"
)

// BookingHandler handles HTTP requests for bookings.
type BookingHandler struct {
	bookingService *service.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookingService *service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// ChargingStepBody is the HTTP request body for advancing a booking.
type ChargingStepBody struct {
	Action string `json:"action" binding:"required"`
}

// BookingResponse is the HTTP response for booking data.
type BookingResponse struct {
	ID          int64  `json:"id"`
	RequestID   int64  `json:"request_id"`
	RiderID     int64  `json:"rider_id"`
	OperatorID  *int64 `json:"operator_id"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
	StartedAt   string `json:"started_at,omitempty"`
	CompletedAt string `json:"completed_at,omitempty"`
	CancelledAt string `json:"cancelled_at,omitempty"`
}

func toBookingResponse(b *domain.Booking) BookingResponse {
	return BookingResponse{
		ID:          b.ID,
		RequestID:   b.RequestID,
		RiderID:     b.RiderID,
		OperatorID:  b.OperatorID,
		Status:      string(b.Status),
		CreatedAt:   formatTime(b.CreatedAt),
		StartedAt:   formatTime(b.StartedAt),
		CompletedAt: formatTime(b.CompletedAt),
		CancelledAt: formatTime(b.CancelledAt),
	}
}

// ListBookings handles GET /v1/bookings
func (h *BookingHandler) ListBookings(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	bookings, err := h.bookingService.ListBookings(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		response = append(response, toBookingResponse(b))
	}
	respondJSON(c, http.StatusOK, "", response)
}

// GetBooking handles GET /v1/bookings/:id
func (h *BookingHandler) GetBooking(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	booking, err := h.bookingService.GetBooking(c.Request.Context(), p, id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, "", toBookingResponse(booking))
}

// ChargingStep handles PUT /v1/bookings/:id
func (h *BookingHandler) ChargingStep(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var body ChargingStepBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "action is required")
		return
	}

	action := service.ChargingAction(strings.ToLower(strings.TrimSpace(body.Action)))
	booking, err := h.bookingService.ChargingStep(c.Request.Context(), p, id, action)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, "booking "+strings.ToLower(string(booking.Status)), toBookingResponse(booking))
}

// CancelBooking handles PUT /v1/bookings/:id/cancel
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	booking, err := h.bookingService.CancelBooking(c.Request.Context(), p, id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, "booking cancelled", toBookingResponse(booking))
}
