package user

import "strings"

type Role string

const (
	RoleAdmin      Role = "ADMIN"      // Back-office administrator
	RoleOwner      Role = "OWNER"      // Business owner, sees every branch
	RoleHead       Role = "HEAD"       // Store head, flexible hours
	RoleSupervisor Role = "SUPERVISOR" // Roams between branches
	RoleEmployee   Role = "EMPLOYEE"   // Regular staff bound to one branch
)

// AllRoles returns every known role in hierarchy order.
func AllRoles() []Role {
	return []Role{RoleAdmin, RoleOwner, RoleHead, RoleSupervisor, RoleEmployee}
}

// ParseRole converts a claim or column value into a Role.
func ParseRole(value string) (Role, error) {
	role := Role(strings.ToUpper(strings.TrimSpace(value)))
	if !role.IsValid() {
		return "", ErrInvalidRole
	}
	return role, nil
}

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleOwner, RoleHead, RoleSupervisor, RoleEmployee:
		return true
	}
	return false
}

// BypassesBranchRequirement reports whether the role may check in without an
// assigned branch.
func (r Role) BypassesBranchRequirement() bool {
	switch r {
	case RoleHead, RoleOwner, RoleSupervisor:
		return true
	}
	return false
}

// IsManager reports whether the role can see other people's attendance.
func (r Role) IsManager() bool {
	switch r {
	case RoleAdmin, RoleOwner, RoleHead:
		return true
	}
	return false
}

type User struct {
	ID       string
	Name     string
	Email    string
	Role     Role
	BranchID *string
	ShiftID  *string
	Position *string

	// Join
	BranchName *string
}

func (u *User) HasBranch() bool {
	return u.BranchID != nil && *u.BranchID != ""
}
