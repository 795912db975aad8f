package domain

import "time"

// Van is a mobile charging unit. OperatorID is nil while unassigned.
type Van struct {
	ID              int64
	VanNumber       string
	OperatorID      *int64
	BatteryCapacity string
	CreatedAt       time.Time
}
