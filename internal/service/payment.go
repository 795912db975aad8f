package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"chargenow/internal/domain"
	"chargenow/internal/repository"
)

// PaymentService handles the payment ledger. Payments are bookkeeping
// entries; settlement is an explicit operator step.
type PaymentService struct {
	paymentRepo repository.PaymentRepository
	bookingRepo repository.BookingRepository
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(paymentRepo repository.PaymentRepository, bookingRepo repository.BookingRepository) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		bookingRepo: bookingRepo,
	}
}

// RecordPaymentInput contains the parameters for recording a payment. There
// is no status field: new payments are always PENDING.
type RecordPaymentInput struct {
	BookingID int64
	Amount    decimal.Decimal
	Method    string
}

// RecordPayment appends a pending payment against a booking of the caller.
// Rider and operator are taken from the booking, never from input.
func (s *PaymentService) RecordPayment(ctx context.Context, p domain.Principal, in RecordPaymentInput) (*domain.Payment, error) {
	if !domain.ValidAmount(in.Amount) {
		return nil, ErrInvalidPaymentAmount
	}

	method, ok := domain.ParsePaymentMethod(in.Method)
	if !ok {
		return nil, ErrInvalidPaymentMethod
	}

	booking, err := s.bookingRepo.GetByID(ctx, in.BookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	switch v := p.(type) {
	case domain.RiderPrincipal:
		if booking.RiderID != v.ID {
			return nil, ErrBookingNotFound
		}
	case domain.OperatorPrincipal:
		if !booking.OperatedBy(v.ID) {
			return nil, ErrBookingNotFound
		}
	default:
		return nil, ErrForbidden
	}

	if booking.Status == domain.BookingStatusCancelled {
		return nil, ErrBookingCancelled
	}
	if booking.OperatorID == nil {
		return nil, ErrBookingWithoutOperator
	}

	payment := &domain.Payment{
		BookingID:  booking.ID,
		RiderID:    booking.RiderID,
		OperatorID: *booking.OperatorID,
		Amount:     in.Amount,
		Method:     method,
		Status:     domain.PaymentStatusPending,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		if errors.Is(err, repository.ErrOutOfRange) {
			return nil, ErrInvalidPaymentAmount
		}
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"payment_id": payment.ID,
		"booking_id": booking.ID,
		"method":     method,
	}).Info("payment recorded")

	return payment, nil
}

// SettlePayment marks a pending payment COMPLETED. Only the payment's
// operator may settle it, once.
func (s *PaymentService) SettlePayment(ctx context.Context, p domain.Principal, paymentID int64) (*domain.Payment, error) {
	op, ok := p.(domain.OperatorPrincipal)
	if !ok {
		return nil, ErrOperatorOnly
	}

	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	if payment.OperatorID != op.ID {
		return nil, ErrPaymentNotFound
	}
	if payment.Status != domain.PaymentStatusPending {
		return nil, ErrPaymentAlreadySettled
	}

	settled, err := s.paymentRepo.UpdateStatusIf(ctx, paymentID, domain.PaymentStatusPending, domain.PaymentStatusCompleted)
	if err != nil {
		return nil, err
	}
	if !settled {
		return nil, ErrPaymentAlreadySettled
	}

	logrus.WithField("payment_id", paymentID).Info("payment settled")

	return s.paymentRepo.GetByID(ctx, paymentID)
}

// ListPayments returns the payments visible to the caller.
func (s *PaymentService) ListPayments(ctx context.Context, p domain.Principal) ([]*domain.Payment, error) {
	switch v := p.(type) {
	case domain.RiderPrincipal:
		return s.paymentRepo.List(ctx, repository.ByRider(v.ID))
	case domain.OperatorPrincipal:
		return s.paymentRepo.List(ctx, repository.ByOperator(v.ID))
	case domain.AdminPrincipal:
		return s.paymentRepo.List(ctx, repository.Filter{})
	default:
		return nil, ErrForbidden
	}
}
