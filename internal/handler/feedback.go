package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chargenow/internal/domain"
	"chargenow/internal/service"
)

// FeedbackHandler handles HTTP requests for operator feedback.
type FeedbackHandler struct {
	feedbackService *service.FeedbackService
}

// NewFeedbackHandler creates a new FeedbackHandler.
func NewFeedbackHandler(feedbackService *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: feedbackService}
}

// SubmitFeedbackBody is the HTTP request body for submitting feedback.
type SubmitFeedbackBody struct {
	OperatorID int64  `json:"operator_id" binding:"required"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
}

// FeedbackResponse is the HTTP response for feedback data.
type FeedbackResponse struct {
	ID         int64  `json:"id"`
	RiderID    int64  `json:"rider_id"`
	OperatorID int64  `json:"operator_id"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
	CreatedAt  string `json:"created_at"`
}

func toFeedbackResponse(f *domain.Feedback) FeedbackResponse {
	return FeedbackResponse{
		ID:         f.ID,
		RiderID:    f.RiderID,
		OperatorID: f.OperatorID,
		Rating:     f.Rating,
		Comment:    f.Comment,
		CreatedAt:  formatTime(f.CreatedAt),
	}
}

// SubmitFeedback handles POST /v1/feedback
func (h *FeedbackHandler) SubmitFeedback(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var body SubmitFeedbackBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "operator_id and rating are required")
		return
	}

	fb, err := h.feedbackService.SubmitFeedback(c.Request.Context(), p, service.SubmitFeedbackInput{
		OperatorID: body.OperatorID,
		Rating:     body.Rating,
		Comment:    body.Comment,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, "feedback submitted", toFeedbackResponse(fb))
}

// ListFeedback handles GET /v1/feedback
func (h *FeedbackHandler) ListFeedback(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	items, err := h.feedbackService.ListFeedback(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]FeedbackResponse, 0, len(items))
	for _, f := range items {
		response = append(response, toFeedbackResponse(f))
	}
	respondJSON(c, http.StatusOK, "", response)
}

// DeleteFeedback handles DELETE /v1/feedback/:id
func (h *FeedbackHandler) DeleteFeedback(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.feedbackService.DeleteFeedback(c.Request.Context(), p, id); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, "feedback deleted", nil)
}
