package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"chargenow/internal/domain"
	"chargenow/internal/repository"
)

// FeedbackService handles rider feedback on operators.
type FeedbackService struct {
	feedbackRepo repository.FeedbackRepository
	operatorRepo repository.OperatorRepository
	requestRepo  repository.RequestRepository
}

// NewFeedbackService creates a new FeedbackService.
func NewFeedbackService(
	feedbackRepo repository.FeedbackRepository,
	operatorRepo repository.OperatorRepository,
	requestRepo repository.RequestRepository,
) *FeedbackService {
	return &FeedbackService{
		feedbackRepo: feedbackRepo,
		operatorRepo: operatorRepo,
		requestRepo:  requestRepo,
	}
}

// SubmitFeedbackInput contains the parameters for submitting feedback.
type SubmitFeedbackInput struct {
	OperatorID int64
	Rating     int
	Comment    string
}

// SubmitFeedback records a rating from the calling rider for an operator the
// rider has addressed a request to.
func (s *FeedbackService) SubmitFeedback(ctx context.Context, p domain.Principal, in SubmitFeedbackInput) (*domain.Feedback, error) {
	rider, ok := p.(domain.RiderPrincipal)
	if !ok {
		return nil, ErrRiderOnly
	}

	if in.Rating < domain.MinRating || in.Rating > domain.MaxRating {
		return nil, ErrInvalidRating
	}
	comment := strings.TrimSpace(in.Comment)
	if utf8.RuneCountInString(comment) > domain.MaxCommentLength {
		return nil, ErrCommentTooLong
	}

	if _, err := s.operatorRepo.GetByID(ctx, in.OperatorID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnknownOperator
		}
		return nil, err
	}

	interacted, err := s.requestRepo.HasInteraction(ctx, rider.ID, in.OperatorID)
	if err != nil {
		return nil, err
	}
	if !interacted {
		return nil, ErrFeedbackNotAllowed
	}

	fb := &domain.Feedback{
		RiderID:    rider.ID,
		OperatorID: in.OperatorID,
		Rating:     in.Rating,
		Comment:    comment,
	}
	if err := s.feedbackRepo.Create(ctx, fb); err != nil {
		return nil, err
	}
	return fb, nil
}

// ListFeedback returns feedback given by a rider, received by an operator,
// or all feedback for an admin.
func (s *FeedbackService) ListFeedback(ctx context.Context, p domain.Principal) ([]*domain.Feedback, error) {
	switch v := p.(type) {
	case domain.RiderPrincipal:
		return s.feedbackRepo.List(ctx, repository.ByRider(v.ID))
	case domain.OperatorPrincipal:
		return s.feedbackRepo.List(ctx, repository.ByOperator(v.ID))
	case domain.AdminPrincipal:
		return s.feedbackRepo.List(ctx, repository.Filter{})
	default:
		return nil, ErrForbidden
	}
}

// DeleteFeedback removes feedback. Admin only.
func (s *FeedbackService) DeleteFeedback(ctx context.Context, p domain.Principal, id int64) error {
	if _, ok := p.(domain.AdminPrincipal); !ok {
		return ErrAdminOnly
	}

	if err := s.feedbackRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrFeedbackNotFound
		}
		return err
	}
	return nil
}
