package domain

import (
	"strings"
	"time"
)

// OperatorStatus represents whether an operator is taking requests.
type OperatorStatus string

const (
	OperatorStatusOffline OperatorStatus = "OFFLINE"
	OperatorStatusOnline  OperatorStatus = "ONLINE"
)

// ParseOperatorStatus accepts "online"/"offline" in any case, and the
// legacy numeric forms "1"/"0".
func ParseOperatorStatus(s string) (OperatorStatus, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(OperatorStatusOnline), "1":
		return OperatorStatusOnline, true
	case string(OperatorStatusOffline), "0":
		return OperatorStatusOffline, true
	}
	return "", false
}

// VerificationStatus represents the back-office review state of an operator.
type VerificationStatus string

const (
	VerificationNotVerified VerificationStatus = "NOT_VERIFIED"
	VerificationVerified    VerificationStatus = "VERIFIED"
)

// Operator is a fleet operator fulfilling charging requests with a van.
type Operator struct {
	ID           int64
	Name         string
	Email        string
	Phone        string
	LicenseDoc   string // reference to an externally stored document
	Status       OperatorStatus
	Verification VerificationStatus
	CreatedAt    time.Time
}
