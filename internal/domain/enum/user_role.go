package enum

// UserRole controls which screens a staff member may use
type UserRole string

const (
	UserRoleAdmin   UserRole = "admin"
	UserRoleCashier UserRole = "cashier"
)

func (r UserRole) Valid() bool {
	return r == UserRoleAdmin || r == UserRoleCashier
}
