package domain

// Operator is an authenticated API caller such as a branch teller.
type Operator struct {
	ID    string
	Email string
	Role  Role
}

// Role represents an operator's access level
type Role string

const (
	// RoleAdmin manages customers and accounts
	RoleAdmin Role = "admin"

	// RoleTeller posts deposits, withdrawals and transfers
	RoleTeller Role = "teller"

	// RoleAuditor can only read
	RoleAuditor Role = "auditor"
)

var roleRank = map[Role]int{
	RoleAuditor: 1,
	RoleTeller:  2,
	RoleAdmin:   3,
}

// IsValid checks if the role is a valid role
func (r Role) IsValid() bool {
	_, ok := roleRank[r]
	return ok
}

// Allows reports whether r grants at least the access of required.
func (r Role) Allows(required Role) bool {
	return r.IsValid() && roleRank[r] >= roleRank[required]
}
