package service

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"chargenow/internal/domain"
	"chargenow/internal/redis"
	"chargenow/internal/repository"
)

// RequestLockTTL bounds how long a decision lock on a request is held.
const RequestLockTTL = 5 * time.Second

// BookingService is the booking engine. It is the only writer of request
// status after creation and of booking status.
type BookingService struct {
	tx          repository.Transactor
	requestRepo repository.RequestRepository
	bookingRepo repository.BookingRepository
	lockStore   redis.LockStoreInterface
}

// NewBookingService creates a new BookingService. lockStore may be nil, in
// which case decisions rely on the conditional update alone.
func NewBookingService(
	tx repository.Transactor,
	requestRepo repository.RequestRepository,
	bookingRepo repository.BookingRepository,
	lockStore redis.LockStoreInterface,
) *BookingService {
	return &BookingService{
		tx:          tx,
		requestRepo: requestRepo,
		bookingRepo: bookingRepo,
		lockStore:   lockStore,
	}
}

// RequestAction is an operator's decision on a pending request.
type RequestAction string

const (
	ActionAccept RequestAction = "accept"
	ActionReject RequestAction = "reject"
)

// ChargingAction is an operator's step in the charging session.
type ChargingAction string

const (
	ActionStart    ChargingAction = "start"
	ActionComplete ChargingAction = "complete"
)

// AcceptRequest moves a pending request addressed to the calling operator to
// ACCEPTED and creates its booking in IN_PROGRESS, atomically.
func (s *BookingService) AcceptRequest(ctx context.Context, p domain.Principal, requestID int64) (*domain.Booking, error) {
	op, ok := p.(domain.OperatorPrincipal)
	if !ok {
		return nil, ErrOperatorOnly
	}

	release, err := s.lockRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	defer release()

	var booking *domain.Booking
	err = s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		ok, err := repos.Requests.UpdateStatusIf(ctx, requestID, &op.ID, domain.RequestStatusPending, domain.RequestStatusAccepted)
		if err != nil {
			return err
		}
		if !ok {
			return diagnoseDecision(ctx, repos.Requests, requestID, op.ID)
		}

		operatorID := op.ID
		b := &domain.Booking{
			RequestID:  requestID,
			OperatorID: &operatorID,
			Status:     domain.BookingStatusInProgress,
		}
		if err := repos.Bookings.Create(ctx, b); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrRequestAlreadyDecided
			}
			return err
		}

		booking, err = repos.Bookings.GetByID(ctx, b.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"request_id":  requestID,
		"booking_id":  booking.ID,
		"operator_id": op.ID,
	}).Info("request accepted")

	return booking, nil
}

// RejectRequest moves a pending request addressed to the calling operator to
// REJECTED. No booking is created.
func (s *BookingService) RejectRequest(ctx context.Context, p domain.Principal, requestID int64) (*domain.Request, error) {
	op, ok := p.(domain.OperatorPrincipal)
	if !ok {
		return nil, ErrOperatorOnly
	}

	release, err := s.lockRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	defer release()

	var req *domain.Request
	err = s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		ok, err := repos.Requests.UpdateStatusIf(ctx, requestID, &op.ID, domain.RequestStatusPending, domain.RequestStatusRejected)
		if err != nil {
			return err
		}
		if !ok {
			return diagnoseDecision(ctx, repos.Requests, requestID, op.ID)
		}

		req, err = repos.Requests.GetByID(ctx, requestID)
		return err
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"request_id":  requestID,
		"operator_id": op.ID,
	}).Info("request rejected")

	return req, nil
}

// DecideRequest dispatches an accept or reject action. It returns the
// resulting request status and, for accept, the new booking.
func (s *BookingService) DecideRequest(ctx context.Context, p domain.Principal, requestID int64, action RequestAction) (domain.RequestStatus, *domain.Booking, error) {
	switch action {
	case ActionAccept:
		b, err := s.AcceptRequest(ctx, p, requestID)
		if err != nil {
			return "", nil, err
		}
		return domain.RequestStatusAccepted, b, nil
	case ActionReject:
		req, err := s.RejectRequest(ctx, p, requestID)
		if err != nil {
			return "", nil, err
		}
		return req.Status, nil, nil
	default:
		return "", nil, ErrInvalidAction
	}
}

// diagnoseDecision explains why a conditional decision update matched no row.
func diagnoseDecision(ctx context.Context, requests repository.RequestRepository, requestID, operatorID int64) error {
	req, err := requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRequestNotFound
		}
		return err
	}
	if req.Status != domain.RequestStatusPending {
		return ErrRequestAlreadyDecided
	}
	if !req.AddressedTo(operatorID) {
		return ErrRequestNotAddressed
	}
	return ErrConcurrentUpdate
}

// lockRequest takes the distributed decision lock when a lock store is
// configured. Redis failures fall back to the database guard.
func (s *BookingService) lockRequest(ctx context.Context, requestID int64) (func(), error) {
	if s.lockStore == nil {
		return func() {}, nil
	}

	token, acquired, err := s.lockStore.AcquireRequestLock(ctx, requestID, RequestLockTTL)
	if err != nil {
		logrus.WithError(err).WithField("request_id", requestID).Warn("request lock unavailable, relying on conditional update")
		return func() {}, nil
	}
	if !acquired {
		return nil, ErrDecisionInProgress
	}

	return func() {
		if err := s.lockStore.ReleaseRequestLock(context.WithoutCancel(ctx), requestID, token); err != nil {
			logrus.WithError(err).WithField("request_id", requestID).Warn("failed to release request lock")
		}
	}, nil
}

// StartCharging moves the caller's booking from IN_PROGRESS to STARTED.
// The request is unchanged.
func (s *BookingService) StartCharging(ctx context.Context, p domain.Principal, bookingID int64) (*domain.Booking, error) {
	op, ok := p.(domain.OperatorPrincipal)
	if !ok {
		return nil, ErrOperatorOnly
	}

	var booking *domain.Booking
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		b, err := operatorBooking(ctx, repos.Bookings, bookingID, op.ID)
		if err != nil {
			return err
		}
		if !b.Status.CanTransitionTo(domain.BookingStatusStarted) {
			return ErrBookingNotStartable
		}

		if err := transitionBooking(ctx, repos.Bookings, bookingID, []domain.BookingStatus{domain.BookingStatusInProgress}, domain.BookingStatusStarted); err != nil {
			return err
		}

		booking, err = repos.Bookings.GetByID(ctx, bookingID)
		return err
	})
	if err != nil {
		return nil, err
	}

	logBookingTransition(booking, "charging started")
	return booking, nil
}

// CompleteCharging moves the caller's booking from IN_PROGRESS or STARTED to
// COMPLETED and forces its request to COMPLETED in the same transaction.
func (s *BookingService) CompleteCharging(ctx context.Context, p domain.Principal, bookingID int64) (*domain.Booking, error) {
	op, ok := p.(domain.OperatorPrincipal)
	if !ok {
		return nil, ErrOperatorOnly
	}

	var booking *domain.Booking
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		b, err := operatorBooking(ctx, repos.Bookings, bookingID, op.ID)
		if err != nil {
			return err
		}
		if !b.Status.CanTransitionTo(domain.BookingStatusCompleted) {
			return ErrBookingTerminal
		}

		from := []domain.BookingStatus{domain.BookingStatusInProgress, domain.BookingStatusStarted}
		if err := transitionBooking(ctx, repos.Bookings, bookingID, from, domain.BookingStatusCompleted); err != nil {
			return err
		}

		if err := repos.Requests.SetStatus(ctx, b.RequestID, domain.RequestStatusCompleted); err != nil {
			return err
		}

		booking, err = repos.Bookings.GetByID(ctx, bookingID)
		return err
	})
	if err != nil {
		return nil, err
	}

	logBookingTransition(booking, "charging completed")
	return booking, nil
}

// ChargingStep dispatches a start or complete action.
func (s *BookingService) ChargingStep(ctx context.Context, p domain.Principal, bookingID int64, action ChargingAction) (*domain.Booking, error) {
	switch action {
	case ActionStart:
		return s.StartCharging(ctx, p, bookingID)
	case ActionComplete:
		return s.CompleteCharging(ctx, p, bookingID)
	default:
		return nil, ErrInvalidAction
	}
}

// CancelBooking lets the originating rider cancel a booking before charging
// starts. The request moves to CANCELLED with it.
func (s *BookingService) CancelBooking(ctx context.Context, p domain.Principal, bookingID int64) (*domain.Booking, error) {
	rider, ok := p.(domain.RiderPrincipal)
	if !ok {
		return nil, ErrRiderOnly
	}

	var booking *domain.Booking
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		b, err := repos.Bookings.GetByID(ctx, bookingID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		if b.RiderID != rider.ID {
			return ErrBookingNotFound
		}
		if b.Status != domain.BookingStatusInProgress {
			return ErrBookingNotCancellable
		}

		if err := transitionBooking(ctx, repos.Bookings, bookingID, []domain.BookingStatus{domain.BookingStatusInProgress}, domain.BookingStatusCancelled); err != nil {
			return err
		}

		ok, err := repos.Requests.UpdateStatusIf(ctx, b.RequestID, nil, domain.RequestStatusAccepted, domain.RequestStatusCancelled)
		if err != nil {
			return err
		}
		if !ok {
			return ErrConcurrentUpdate
		}

		booking, err = repos.Bookings.GetByID(ctx, bookingID)
		return err
	})
	if err != nil {
		return nil, err
	}

	logBookingTransition(booking, "booking cancelled by rider")
	return booking, nil
}

// ListBookings returns the bookings visible to the caller.
func (s *BookingService) ListBookings(ctx context.Context, p domain.Principal) ([]*domain.Booking, error) {
	switch v := p.(type) {
	case domain.RiderPrincipal:
		return s.bookingRepo.List(ctx, repository.ByRider(v.ID))
	case domain.OperatorPrincipal:
		return s.bookingRepo.List(ctx, repository.ByOperator(v.ID))
	case domain.AdminPrincipal:
		return s.bookingRepo.List(ctx, repository.Filter{})
	default:
		return nil, ErrForbidden
	}
}

// GetBooking retrieves a booking visible to the caller.
func (s *BookingService) GetBooking(ctx context.Context, p domain.Principal, id int64) (*domain.Booking, error) {
	b, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	switch v := p.(type) {
	case domain.RiderPrincipal:
		if b.RiderID == v.ID {
			return b, nil
		}
	case domain.OperatorPrincipal:
		if b.OperatedBy(v.ID) {
			return b, nil
		}
	case domain.AdminPrincipal:
		return b, nil
	}
	return nil, ErrBookingNotFound
}

// operatorBooking loads a booking owned by the operator.
func operatorBooking(ctx context.Context, bookings repository.BookingRepository, bookingID, operatorID int64) (*domain.Booking, error) {
	b, err := bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if !b.OperatedBy(operatorID) {
		return nil, ErrBookingNotFound
	}
	return b, nil
}

func transitionBooking(ctx context.Context, bookings repository.BookingRepository, id int64, from []domain.BookingStatus, to domain.BookingStatus) error {
	ok, err := bookings.UpdateStatusIf(ctx, id, from, to)
	if err != nil {
		return err
	}
	if !ok {
		return ErrConcurrentUpdate
	}
	return nil
}

func logBookingTransition(b *domain.Booking, msg string) {
	logrus.WithFields(logrus.Fields{
		"booking_id": b.ID,
		"request_id": b.RequestID,
		"status":     b.Status,
	}).Info(msg)
}
