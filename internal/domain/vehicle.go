package domain

import "time"

// Vehicle is an EV registered by a rider.
type Vehicle struct {
	ID                 int64
	RiderID            int64
	Company            string
	Name               string
	Model              string
	RegistrationNumber string
	CreatedAt          time.Time
}
