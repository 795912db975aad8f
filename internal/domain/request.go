package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RequestStatus represents the current status of a charging request.
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "PENDING"
	RequestStatusAccepted  RequestStatus = "ACCEPTED"
	RequestStatusRejected  RequestStatus = "REJECTED"
	RequestStatusCompleted RequestStatus = "COMPLETED"
	RequestStatusCancelled RequestStatus = "CANCELLED"
)

// RequestTransitions is the request state flow. ACCEPTED only moves on
// through its booking: COMPLETED on charge completion, CANCELLED on a
// rider cancel.
var RequestTransitions = map[RequestStatus][]RequestStatus{
	RequestStatusPending:  {RequestStatusAccepted, RequestStatusRejected},
	RequestStatusAccepted: {RequestStatusCompleted, RequestStatusCancelled},
}

// CanTransitionTo reports whether the request may move from s to next.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	for _, allowed := range RequestTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s RequestStatus) IsTerminal() bool {
	return len(RequestTransitions[s]) == 0
}

// CoordinatePlaces is the number of fractional digits kept for coordinates.
const CoordinatePlaces = 6

var (
	maxLatitude  = decimal.NewFromInt(90)
	maxLongitude = decimal.NewFromInt(180)
)

// ValidCoordinates reports whether lat/lng are inside ±90 / ±180.
func ValidCoordinates(lat, lng decimal.Decimal) bool {
	return lat.Abs().LessThanOrEqual(maxLatitude) && lng.Abs().LessThanOrEqual(maxLongitude)
}

// Request is a rider's ask for charging at a location.
type Request struct {
	ID         int64
	RiderID    int64
	OperatorID *int64 // nil until the request is addressed to an operator
	VehicleID  int64
	Latitude   decimal.Decimal
	Longitude  decimal.Decimal
	Status     RequestStatus
	CreatedAt  time.Time
}

// AddressedTo reports whether the request is assigned to the given operator.
func (r *Request) AddressedTo(operatorID int64) bool {
	return r.OperatorID != nil && *r.OperatorID == operatorID
}
