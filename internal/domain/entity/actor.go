package entity

// Role identifies a workflow role
type Role string

const (
	RolePreparer          Role = "PREPARER"
	RoleHOD               Role = "HOD"
	RoleFinanceManager    Role = "FINANCE_MANAGER"
	RoleTechnicalDirector Role = "TECHNICAL_DIRECTOR"
	RoleCEO               Role = "CEO"
	RoleAccountant        Role = "ACCOUNTANT"
	RoleAdmin             Role = "ADMIN"
)

var validRoles = map[Role]bool{
	RolePreparer:          true,
	RoleHOD:               true,
	RoleFinanceManager:    true,
	RoleTechnicalDirector: true,
	RoleCEO:               true,
	RoleAccountant:        true,
	RoleAdmin:             true,
}

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// IsValid returns true if the role is one of the defined workflow roles
func (r Role) IsValid() bool {
	return validRoles[r]
}

// DisplayName returns the human-readable name of the role
func (r Role) DisplayName() string {
	switch r {
	case RolePreparer:
		return "Preparer"
	case RoleHOD:
		return "HOD"
	case RoleFinanceManager:
		return "Finance Manager"
	case RoleTechnicalDirector:
		return "Technical Director"
	case RoleCEO:
		return "CEO"
	case RoleAccountant:
		return "Accountant"
	case RoleAdmin:
		return "Administrator"
	default:
		return string(r)
	}
}

// Actor represents an authenticated user acting on the workflow.
// Authentication itself happens upstream; the core only trusts the
// resolved identity and performs fine-grained transition authorization.
type Actor struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Role       Role   `json:"role"`
	Department string `json:"department"`
}
