package service

import "errors"

// Error categories. Every error returned by a service for a caller-caused
// condition wraps exactly one of these.
var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrForbidden         = errors.New("forbidden")
)

// Error is a service error with a caller-facing message and a category.
type Error struct {
	kind error
	msg  string
}

func newError(kind error, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func (e *Error) Error() string { return e.msg }

// Unwrap returns the category.
func (e *Error) Unwrap() error { return e.kind }

var (
	// ErrRiderOnly is returned when a non-rider calls a rider operation.
	ErrRiderOnly = newError(ErrForbidden, "only riders can perform this action")

	// ErrOperatorOnly is returned when a non-operator calls an operator operation.
	ErrOperatorOnly = newError(ErrForbidden, "only operators can perform this action")

	// ErrAdminOnly is returned when a non-admin calls an admin operation.
	ErrAdminOnly = newError(ErrForbidden, "only administrators can perform this action")

	// ErrInvalidLocation is returned when coordinates are out of range.
	ErrInvalidLocation = newError(ErrValidation, "latitude must be within ±90 and longitude within ±180")

	// ErrVehicleNotOwned is returned when a request names a vehicle the rider does not own.
	ErrVehicleNotOwned = newError(ErrValidation, "vehicle does not belong to rider")

	// ErrUnknownOperator is returned when a referenced operator does not exist.
	ErrUnknownOperator = newError(ErrValidation, "operator does not exist")

	// ErrInvalidAction is returned for an unrecognised action verb.
	ErrInvalidAction = newError(ErrValidation, "invalid action")

	// ErrInvalidPaymentAmount is returned when an amount is not positive or has more than two decimals.
	ErrInvalidPaymentAmount = newError(ErrValidation, "amount must be positive with at most two decimal places")

	// ErrInvalidPaymentMethod is returned when the method is not CASH, CARD or UPI.
	ErrInvalidPaymentMethod = newError(ErrValidation, "payment method must be one of CASH, CARD, UPI")

	// ErrInvalidRating is returned when a rating is outside 1..5.
	ErrInvalidRating = newError(ErrValidation, "rating must be between 1 and 5")

	// ErrCommentTooLong is returned when a feedback comment exceeds 255 characters.
	ErrCommentTooLong = newError(ErrValidation, "comment must be at most 255 characters")

	// ErrInvalidOperatorStatus is returned when a status is not online or offline.
	ErrInvalidOperatorStatus = newError(ErrValidation, "status must be online or offline")

	// ErrInvalidVehicle is returned when required vehicle fields are missing.
	ErrInvalidVehicle = newError(ErrValidation, "company, name, model and registration number are required")

	// ErrInvalidVan is returned when required van fields are missing.
	ErrInvalidVan = newError(ErrValidation, "van number is required")

	// ErrInvalidProfile is returned when a profile update blanks the name.
	ErrInvalidProfile = newError(ErrValidation, "name is required")

	// ErrRequestNotFound is returned when a request is absent or not visible to the caller.
	ErrRequestNotFound = newError(ErrNotFound, "request not found")

	// ErrBookingNotFound is returned when a booking is absent or not visible to the caller.
	ErrBookingNotFound = newError(ErrNotFound, "booking not found")

	// ErrPaymentNotFound is returned when a payment is absent or not visible to the caller.
	ErrPaymentNotFound = newError(ErrNotFound, "payment not found")

	// ErrFeedbackNotFound is returned when feedback does not exist.
	ErrFeedbackNotFound = newError(ErrNotFound, "feedback not found")

	// ErrOperatorNotFound is returned when an operator does not exist.
	ErrOperatorNotFound = newError(ErrNotFound, "operator not found")

	// ErrRiderNotFound is returned when a rider does not exist.
	ErrRiderNotFound = newError(ErrNotFound, "rider not found")

	// ErrVehicleNotFound is returned when a vehicle is absent or not owned by the caller.
	ErrVehicleNotFound = newError(ErrNotFound, "vehicle not found")

	// ErrVanNotFound is returned when a van does not exist or none is assigned.
	ErrVanNotFound = newError(ErrNotFound, "van not found")

	// ErrRequestAlreadyDecided is returned when accepting or rejecting a request that is no longer pending.
	ErrRequestAlreadyDecided = newError(ErrConflict, "request is no longer pending")

	// ErrRequestNotAddressed is returned when an operator decides a request addressed to someone else.
	ErrRequestNotAddressed = newError(ErrConflict, "request is not addressed to this operator")

	// ErrDecisionInProgress is returned when another decision on the request holds the lock.
	ErrDecisionInProgress = newError(ErrConflict, "request is being decided by another call")

	// ErrConcurrentUpdate is returned when a conditional write lost a race.
	ErrConcurrentUpdate = newError(ErrConflict, "entity was modified concurrently")

	// ErrBookingCancelled is returned when recording a payment against a cancelled booking.
	ErrBookingCancelled = newError(ErrConflict, "booking is cancelled")

	// ErrBookingWithoutOperator is returned when a booking's operator no longer exists.
	ErrBookingWithoutOperator = newError(ErrConflict, "booking has no operator")

	// ErrDuplicateVehicle is returned when a registration number is already taken.
	ErrDuplicateVehicle = newError(ErrConflict, "registration number already registered")

	// ErrVehicleInUse is returned when deleting a vehicle referenced by requests.
	ErrVehicleInUse = newError(ErrConflict, "vehicle is referenced by requests")

	// ErrDuplicateVan is returned when a van number is already taken.
	ErrDuplicateVan = newError(ErrConflict, "van number already registered")

	// ErrVanAlreadyAssigned is returned when an operator already has a van.
	ErrVanAlreadyAssigned = newError(ErrConflict, "operator already has a van")

	// ErrRequestNotPending is returned when assigning an operator to a decided request.
	ErrRequestNotPending = newError(ErrInvalidTransition, "operator can only be assigned while the request is pending")

	// ErrBookingNotStartable is returned when starting a booking that is not in progress.
	ErrBookingNotStartable = newError(ErrInvalidTransition, "booking can only be started while in progress")

	// ErrBookingTerminal is returned when completing a completed or cancelled booking.
	ErrBookingTerminal = newError(ErrInvalidTransition, "booking is already completed or cancelled")

	// ErrBookingNotCancellable is returned when cancelling a booking after charging began.
	ErrBookingNotCancellable = newError(ErrInvalidTransition, "booking can only be cancelled before charging starts")

	// ErrPaymentAlreadySettled is returned when settling a completed payment.
	ErrPaymentAlreadySettled = newError(ErrInvalidTransition, "payment is already settled")

	// ErrFeedbackNotAllowed is returned when a rider rates an operator they never addressed.
	ErrFeedbackNotAllowed = newError(ErrForbidden, "feedback requires a prior request to this operator")
)
