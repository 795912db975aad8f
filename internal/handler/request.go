package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"chargenow/internal/domain"
	"chargenow/internal/service"
)

// RequestHandler handles HTTP requests for charging requests.
type RequestHandler struct {
	requestService *service.RequestService
	bookingService *service.BookingService
}

// NewRequestHandler creates a new RequestHandler.
func NewRequestHandler(requestService *service.RequestService, bookingService *service.BookingService) *RequestHandler {
	return &RequestHandler{
		requestService: requestService,
		bookingService: bookingService,
	}
}

// CreateRequestBody is the HTTP request body for creating a request.
type CreateRequestBody struct {
	VehicleID  int64            `json:"vehicle_id" binding:"required"`
	Latitude   *decimal.Decimal `json:"latitude" binding:"required"`
	Longitude  *decimal.Decimal `json:"longitude" binding:"required"`
	OperatorID *int64           `json:"operator_id"`
}

// DecideRequestBody is the HTTP request body for accepting or rejecting.
type DecideRequestBody struct {
	Action string `json:"action" binding:"required"`
}

// AssignOperatorBody is the HTTP request body for assigning an operator.
type AssignOperatorBody struct {
	OperatorID int64 `json:"operator_id" binding:"required"`
}

// RequestResponse is the HTTP response for request data.
type RequestResponse struct {
	ID         int64  `json:"id"`
	RiderID    int64  `json:"rider_id"`
	OperatorID *int64 `json:"operator_id"`
	VehicleID  int64  `json:"vehicle_id"`
	Latitude   string `json:"latitude"`
	Longitude  string `json:"longitude"`
	Status     string `json:"status"`
	CreatedAt  string `json:"created_at"`
}

// DecisionResponse is the HTTP response for an accept or reject.
type DecisionResponse struct {
	RequestID int64            `json:"request_id"`
	Status    string           `json:"status"`
	Booking   *BookingResponse `json:"booking,omitempty"`
}

func toRequestResponse(r *domain.Request) RequestResponse {
	return RequestResponse{
		ID:         r.ID,
		RiderID:    r.RiderID,
		OperatorID: r.OperatorID,
		VehicleID:  r.VehicleID,
		Latitude:   r.Latitude.StringFixed(domain.CoordinatePlaces),
		Longitude:  r.Longitude.StringFixed(domain.CoordinatePlaces),
		Status:     string(r.Status),
		CreatedAt:  formatTime(r.CreatedAt),
	}
}

// CreateRequest handles POST /v1/requests
func (h *RequestHandler) CreateRequest(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var body CreateRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "vehicle_id, latitude and longitude are required")
		return
	}

	req, err := h.requestService.CreateRequest(c.Request.Context(), p, service.CreateRequestInput{
		VehicleID:  body.VehicleID,
		Latitude:   *body.Latitude,
		Longitude:  *body.Longitude,
		OperatorID: body.OperatorID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, "request created", toRequestResponse(req))
}

// ListRequests handles GET /v1/requests
func (h *RequestHandler) ListRequests(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	requests, err := h.requestService.ListRequests(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]RequestResponse, 0, len(requests))
	for _, r := range requests {
		response = append(response, toRequestResponse(r))
	}
	respondJSON(c, http.StatusOK, "", response)
}

// GetRequest handles GET /v1/requests/:id
func (h *RequestHandler) GetRequest(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	req, err := h.requestService.GetRequest(c.Request.Context(), p, id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, "", toRequestResponse(req))
}

// DecideRequest handles PUT /v1/requests/:id
func (h *RequestHandler) DecideRequest(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var body DecideRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "action is required")
		return
	}

	action := service.RequestAction(strings.ToLower(strings.TrimSpace(body.Action)))
	status, booking, err := h.bookingService.DecideRequest(c.Request.Context(), p, id, action)
	if err != nil {
		respondError(c, err)
		return
	}

	response := DecisionResponse{RequestID: id, Status: string(status)}
	if booking != nil {
		b := toBookingResponse(booking)
		response.Booking = &b
	}
	respondJSON(c, http.StatusOK, "request "+strings.ToLower(string(status)), response)
}

// AssignOperator handles PUT /v1/requests/:id/operator
func (h *RequestHandler) AssignOperator(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var body AssignOperatorBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "operator_id is required")
		return
	}

	req, err := h.requestService.AssignOperator(c.Request.Context(), p, id, body.OperatorID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, "operator assigned", toRequestResponse(req))
}
