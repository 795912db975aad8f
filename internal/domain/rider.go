package domain

import "time"

// Rider is an EV owner who requests charging.
type Rider struct {
	ID        int64
	Name      string
	Email     string
	Phone     string
	Address   string
	CreatedAt time.Time
}
