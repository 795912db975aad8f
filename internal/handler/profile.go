package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chargenow/internal/domain"
	"chargenow/internal/service"
)

// ProfileHandler handles HTTP requests for profiles and rider vehicles.
type ProfileHandler struct {
	profileService *service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// UpdateProfileBody is the HTTP request body for a partial profile update.
type UpdateProfileBody struct {
	Name       *string `json:"name"`
	Phone      *string `json:"phone"`
	Address    *string `json:"address"`
	LicenseDoc *string `json:"license_doc"`
}

// VehicleBody is the HTTP request body for creating or updating a vehicle.
type VehicleBody struct {
	Company            string `json:"company"`
	Name               string `json:"name"`
	Model              string `json:"model"`
	RegistrationNumber string `json:"registration_number" binding:"required"`
}

// RiderResponse is the HTTP response for rider data.
type RiderResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	CreatedAt string `json:"created_at"`
}

// ProfileResponse carries exactly one of Rider or Operator.
type ProfileResponse struct {
	Role     string            `json:"role"`
	Rider    *RiderResponse    `json:"rider,omitempty"`
	Operator *OperatorResponse `json:"operator,omitempty"`
}

// VehicleResponse is the HTTP response for vehicle data.
type VehicleResponse struct {
	ID                 int64  `json:"id"`
	RiderID            int64  `json:"rider_id"`
	Company            string `json:"company"`
	Name               string `json:"name"`
	Model              string `json:"model"`
	RegistrationNumber string `json:"registration_number"`
	CreatedAt          string `json:"created_at"`
}

func toProfileResponse(p domain.Principal, profile *service.Profile) ProfileResponse {
	response := ProfileResponse{Role: domain.RoleOf(p)}
	if r := profile.Rider; r != nil {
		response.Rider = &RiderResponse{
			ID:        r.ID,
			Name:      r.Name,
			Email:     r.Email,
			Phone:     r.Phone,
			Address:   r.Address,
			CreatedAt: formatTime(r.CreatedAt),
		}
	}
	if op := profile.Operator; op != nil {
		o := toOperatorResponse(op)
		response.Operator = &o
	}
	return response
}

func toVehicleResponse(v *domain.Vehicle) VehicleResponse {
	return VehicleResponse{
		ID:                 v.ID,
		RiderID:            v.RiderID,
		Company:            v.Company,
		Name:               v.Name,
		Model:              v.Model,
		RegistrationNumber: v.RegistrationNumber,
		CreatedAt:          formatTime(v.CreatedAt),
	}
}

func (b VehicleBody) input() service.VehicleInput {
	return service.VehicleInput{
		Company:            b.Company,
		Name:               b.Name,
		Model:              b.Model,
		RegistrationNumber: b.RegistrationNumber,
	}
}

// GetProfile handles GET /v1/profile
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	profile, err := h.profileService.GetProfile(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, "", toProfileResponse(p, profile))
}

// UpdateProfile handles PUT /v1/profile
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var body UpdateProfileBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	profile, err := h.profileService.UpdateProfile(c.Request.Context(), p, service.UpdateProfileInput{
		Name:       body.Name,
		Phone:      body.Phone,
		Address:    body.Address,
		LicenseDoc: body.LicenseDoc,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, "profile updated", toProfileResponse(p, profile))
}

// ListVehicles handles GET /v1/vehicles
func (h *ProfileHandler) ListVehicles(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	vehicles, err := h.profileService.ListVehicles(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]VehicleResponse, 0, len(vehicles))
	for _, v := range vehicles {
		response = append(response, toVehicleResponse(v))
	}
	respondJSON(c, http.StatusOK, "", response)
}

// AddVehicle handles POST /v1/vehicles
func (h *ProfileHandler) AddVehicle(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var body VehicleBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "registration_number is required")
		return
	}

	vehicle, err := h.profileService.AddVehicle(c.Request.Context(), p, body.input())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, "vehicle added", toVehicleResponse(vehicle))
}

// UpdateVehicle handles PUT /v1/vehicles/:id
func (h *ProfileHandler) UpdateVehicle(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var body VehicleBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "registration_number is required")
		return
	}

	vehicle, err := h.profileService.UpdateVehicle(c.Request.Context(), p, id, body.input())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, "vehicle updated", toVehicleResponse(vehicle))
}

// DeleteVehicle handles DELETE /v1/vehicles/:id
func (h *ProfileHandler) DeleteVehicle(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.profileService.DeleteVehicle(c.Request.Context(), p, id); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, "vehicle deleted", nil)
}
