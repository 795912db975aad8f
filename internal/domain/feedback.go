package domain

import "time"

// Rating bounds and comment length for feedback.
const (
	MinRating        = 1
	MaxRating        = 5
	MaxCommentLength = 255
)

// Feedback is a rider's rating of an operator.
type Feedback struct {
	ID         int64
	RiderID    int64
	OperatorID int64
	Rating     int
	Comment    string
	CreatedAt  time.Time
}
