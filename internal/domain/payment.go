package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus represents the settlement state of a payment.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
)

// PaymentMethod represents how the rider paid.
type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "CASH"
	PaymentMethodCard PaymentMethod = "CARD"
	PaymentMethodUPI  PaymentMethod = "UPI"
)

// ParsePaymentMethod accepts a method name in any case.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch m := PaymentMethod(strings.ToUpper(strings.TrimSpace(s))); m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodUPI:
		return m, true
	}
	return "", false
}

// AmountPlaces is the number of fractional digits allowed in an amount.
const AmountPlaces = 2

// MaxAmount is the largest amount the ledger column can hold.
var MaxAmount = decimal.RequireFromString("99999999.99")

// ValidAmount reports whether amount is positive, within MaxAmount and has at
// most AmountPlaces fractional digits.
func ValidAmount(amount decimal.Decimal) bool {
	return amount.IsPositive() &&
		amount.LessThanOrEqual(MaxAmount) &&
		amount.Equal(amount.Round(AmountPlaces))
}

// Payment is an append-only ledger entry against a booking.
type Payment struct {
	ID         int64
	BookingID  int64
	RiderID    int64
	OperatorID int64
	Amount     decimal.Decimal
	Method     PaymentMethod
	Status     PaymentStatus
	CreatedAt  time.Time
	SettledAt  time.Time
}
