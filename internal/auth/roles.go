package auth

import "github.com/01moynul/strongx-golang/internal/models"

// roleRank orders the admin roles: SUPER_ADMIN > ADMIN > STAFF.
var roleRank = map[string]int{
	models.RoleSuperAdmin: 3,
	models.RoleAdmin:      2,
	models.RoleStaff:      1,
}

// ValidRole reports whether role is one of the known admin roles.
func ValidRole(role string) bool {
	_, ok := roleRank[role]
	return ok
}

// HasRole reports whether userRole is one of allowed or outranks any of them.
// Unknown roles never pass.
func HasRole(userRole string, allowed ...string) bool {
	level := roleRank[userRole]
	if level == 0 {
		return false
	}
	for _, r := range allowed {
		if r == userRole || level > roleRank[r] {
			return true
		}
	}
	return false
}
