package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chargenow/internal/domain"
	"chargenow/internal/service"
)

// FleetHandler handles HTTP requests for operators and vans.
type FleetHandler struct {
	fleetService *service.FleetService
}

// NewFleetHandler creates a new FleetHandler.
func NewFleetHandler(fleetService *service.FleetService) *FleetHandler {
	return &FleetHandler{fleetService: fleetService}
}

// SetStatusBody is the HTTP request body for toggling operator availability.
type SetStatusBody struct {
	Status string `json:"status" binding:"required"`
}

// SetVerificationBody is the HTTP request body for verifying an operator.
type SetVerificationBody struct {
	Verified *bool `json:"verified" binding:"required"`
}

// RegisterVanBody is the HTTP request body for registering a van.
type RegisterVanBody struct {
	VanNumber       string `json:"van_number" binding:"required"`
	BatteryCapacity string `json:"battery_capacity"`
}

// AssignVanBody is the HTTP request body for assigning a van.
type AssignVanBody struct {
	OperatorID int64 `json:"operator_id" binding:"required"`
}

// OperatorResponse is the HTTP response for operator data.
type OperatorResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone"`
	LicenseDoc   string `json:"license_doc,omitempty"`
	Status       string `json:"status"`
	Verification string `json:"verification"`
}

// OperatorStatusResponse is the HTTP response for tracking an operator.
type OperatorStatusResponse struct {
	OperatorID   int64  `json:"operator_id"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Status       string `json:"status"`
	Verification string `json:"verification"`
}

// VanResponse is the HTTP response for van data.
type VanResponse struct {
	ID              int64  `json:"id"`
	VanNumber       string `json:"van_number"`
	OperatorID      *int64 `json:"operator_id"`
	BatteryCapacity string `json:"battery_capacity"`
	CreatedAt       string `json:"created_at"`
}

func toOperatorResponse(op *domain.Operator) OperatorResponse {
	return OperatorResponse{
		ID:           op.ID,
		Name:         op.Name,
		Email:        op.Email,
		Phone:        op.Phone,
		LicenseDoc:   op.LicenseDoc,
		Status:       string(op.Status),
		Verification: string(op.Verification),
	}
}

func toVanResponse(v *domain.Van) VanResponse {
	return VanResponse{
		ID:              v.ID,
		VanNumber:       v.VanNumber,
		OperatorID:      v.OperatorID,
		BatteryCapacity: v.BatteryCapacity,
		CreatedAt:       formatTime(v.CreatedAt),
	}
}

// SetStatus handles PUT /v1/operator/status
func (h *FleetHandler) SetStatus(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var body SetStatusBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "status is required")
		return
	}

	op, err := h.fleetService.SetOperatorStatus(c.Request.Context(), p, body.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, "status updated", toOperatorResponse(op))
}

// MyVan handles GET /v1/operator/van
func (h *FleetHandler) MyVan(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	van, err := h.fleetService.VanForOperator(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, "", toVanResponse(van))
}

// OnlineOperators handles GET /v1/operators/online
func (h *FleetHandler) OnlineOperators(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	operators, err := h.fleetService.OnlineOperators(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]OperatorResponse, 0, len(operators))
	for _, op := range operators {
		r := toOperatorResponse(op)
		r.Email, r.LicenseDoc = "", ""
		response = append(response, r)
	}
	respondJSON(c, http.StatusOK, "", response)
}

// TrackOperator handles GET /v1/operators/:id/status
func (h *FleetHandler) TrackOperator(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	status, err := h.fleetService.TrackOperator(c.Request.Context(), p, id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, "", OperatorStatusResponse{
		OperatorID:   status.OperatorID,
		Name:         status.Name,
		Phone:        status.Phone,
		Status:       string(status.Status),
		Verification: string(status.Verification),
	})
}

// SetVerification handles PUT /v1/operators/:id/verification
func (h *FleetHandler) SetVerification(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var body SetVerificationBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "verified is required")
		return
	}

	op, err := h.fleetService.SetVerification(c.Request.Context(), p, id, *body.Verified)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, "verification updated", toOperatorResponse(op))
}

// RegisterVan handles POST /v1/vans
func (h *FleetHandler) RegisterVan(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var body RegisterVanBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "van_number is required")
		return
	}

	van, err := h.fleetService.RegisterVan(c.Request.Context(), p, service.RegisterVanInput{
		VanNumber:       body.VanNumber,
		BatteryCapacity: body.BatteryCapacity,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, "van registered", toVanResponse(van))
}

// AssignVan handles PUT /v1/vans/:id/operator
func (h *FleetHandler) AssignVan(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var body AssignVanBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "operator_id is required")
		return
	}

	van, err := h.fleetService.AssignVan(c.Request.Context(), p, id, body.OperatorID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, "van assigned", toVanResponse(van))
}

// UnassignVan handles DELETE /v1/vans/:id/operator
func (h *FleetHandler) UnassignVan(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	van, err := h.fleetService.UnassignVan(c.Request.Context(), p, id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, "van unassigned", toVanResponse(van))
}
