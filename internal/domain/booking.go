package domain

import "time"

// BookingStatus represents the current status of a booking.
type BookingStatus string

const (
	BookingStatusInProgress BookingStatus = "IN_PROGRESS"
	BookingStatusStarted    BookingStatus = "STARTED"
	BookingStatusCompleted  BookingStatus = "COMPLETED"
	BookingStatusCancelled  BookingStatus = "CANCELLED"
)

// BookingTransitions is the booking state flow. Starting is optional: an
// in-progress booking may be completed directly.
var BookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusInProgress: {BookingStatusStarted, BookingStatusCompleted, BookingStatusCancelled},
	BookingStatusStarted:    {BookingStatusCompleted},
}

// CanTransitionTo reports whether the booking may move from s to next.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range BookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s BookingStatus) IsTerminal() bool {
	return len(BookingTransitions[s]) == 0
}

// Booking is the operator-side execution record of an accepted request.
type Booking struct {
	ID          int64
	RequestID   int64
	RiderID     int64  // rider of the originating request, read-only
	OperatorID  *int64 // nil only if the operator was deleted
	Status      BookingStatus
	CreatedAt   time.Time
	StartedAt   time.Time
	CompletedAt time.Time
	CancelledAt time.Time
}

// OperatedBy reports whether the booking belongs to the given operator.
func (b *Booking) OperatedBy(operatorID int64) bool {
	return b.OperatorID != nil && *b.OperatorID == operatorID
}
