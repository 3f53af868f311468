package domain

import "strings"

// Role enumerates the account roles issued by the identity provider.
type Role string

const (
	RoleOwner   Role = "owner"
	RoleDev     Role = "dev"
	RoleCoach   Role = "coach"
	RoleClient  Role = "client"
	RoleVisitor Role = "visitor"
)

// NormalizeRole maps raw claim values (including legacy aliases) to a Role.
func NormalizeRole(value string) (Role, bool) {
	switch normalized := strings.ToLower(strings.TrimSpace(value)); normalized {
	case "admin":
		return RoleOwner, true
	case "member":
		return RoleClient, true
	case string(RoleOwner), string(RoleDev), string(RoleCoach), string(RoleClient), string(RoleVisitor):
		return Role(normalized), true
	}
	return "", false
}

// IsStaff reports whether the role operates the front desk.
func (r Role) IsStaff() bool {
	return r == RoleOwner || r == RoleDev || r == RoleCoach
}
