package domain

// Principal is the authenticated caller of an operation. The concrete types
// below are the only implementations.
type Principal interface {
	principal()
}

// RiderPrincipal is an authenticated rider.
type RiderPrincipal struct {
	ID int64
}

// OperatorPrincipal is an authenticated van operator.
type OperatorPrincipal struct {
	ID int64
}

// AdminPrincipal is a back-office superuser.
type AdminPrincipal struct{}

func (RiderPrincipal) principal()    {}
func (OperatorPrincipal) principal() {}
func (AdminPrincipal) principal()    {}

// Role names used in tokens and logs.
const (
	RoleRider    = "rider"
	RoleOperator = "operator"
	RoleAdmin    = "admin"
)

// RoleOf returns the role name of a principal, or "" for nil.
func RoleOf(p Principal) string {
	switch p.(type) {
	case RiderPrincipal:
		return RoleRider
	case OperatorPrincipal:
		return RoleOperator
	case AdminPrincipal:
		return RoleAdmin
	default:
		return ""
	}
}

// PrincipalID returns the id carried by a rider or operator principal.
func PrincipalID(p Principal) (int64, bool) {
	switch v := p.(type) {
	case RiderPrincipal:
		return v.ID, true
	case OperatorPrincipal:
		return v.ID, true
	default:
		return 0, false
	}
}
