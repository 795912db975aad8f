package repository

// Filter scopes list queries to one party. A nil field is not filtered on;
// an empty Filter lists everything.
type Filter struct {
	RiderID    *int64
	OperatorID *int64
}

// ByRider returns a Filter for the given rider.
func ByRider(id int64) Filter {
	return Filter{RiderID: &id}
}

// ByOperator returns a Filter for the given operator.
func ByOperator(id int64) Filter {
	return Filter{OperatorID: &id}
}
