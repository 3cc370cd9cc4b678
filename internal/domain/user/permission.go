package user

import "strings"

type Permission string

const (
	// Self Management
	PermissionViewOwnProfile Permission = "profile.view_own"
	PermissionEditOwnProfile Permission = "profile.edit_own"

	// Leave Management
	PermissionLeaveCreate      Permission = "leave.create"
	PermissionLeaveViewOwn     Permission = "leave.view_own"
	PermissionLeaveStatsOwn    Permission = "leave.stats_own"
	PermissionLeaveViewWeek    Permission = "leave.view_week"
	PermissionLeaveViewAll     Permission = "leave.view_all"
	PermissionLeaveTransition  Permission = "leave.transition"
	PermissionLeaveSelfApprove Permission = "leave.self_approve"

	// User Management
	PermissionUserManage Permission = "user.manage"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionViewOwnProfile,
		PermissionEditOwnProfile,
		PermissionLeaveCreate,
		PermissionLeaveViewOwn,
		PermissionLeaveStatsOwn,
		PermissionLeaveViewWeek,
		PermissionLeaveViewAll,
		PermissionLeaveTransition,
		PermissionLeaveSelfApprove,
		PermissionUserManage,
	},
	RoleUser: {
		PermissionViewOwnProfile,
		PermissionEditOwnProfile,
		PermissionLeaveCreate,
		PermissionLeaveViewOwn,
		PermissionLeaveStatsOwn,
		PermissionLeaveViewWeek,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}

// Principal is the identity performing an operation. The zero value is anonymous.
type Principal struct {
	ID   string
	Role Role
}

func (p Principal) IsAuthenticated() bool {
	return p.ID != ""
}

func (p Principal) IsAdmin() bool {
	return p.IsAuthenticated() && p.Role == RoleAdmin
}

func (p Principal) Can(permission Permission) bool {
	return p.IsAuthenticated() && HasPermission(p.Role, permission)
}

// Authorize fails with ErrUnauthenticated for anonymous principals and with
// ErrForbidden when the role lacks the permission.
func Authorize(p Principal, permission Permission) error {
	if !p.IsAuthenticated() {
		return ErrUnauthenticated
	}
	if !HasPermission(p.Role, permission) {
		return ErrForbidden
	}
	return nil
}

// AuthorizeOwnership lets the owner through, or anyone holding the override permission.
func AuthorizeOwnership(p Principal, ownerID string, override Permission) error {
	if !p.IsAuthenticated() {
		return ErrUnauthenticated
	}
	if p.ID == ownerID || HasPermission(p.Role, override) {
		return nil
	}
	return ErrForbidden
}

func upper(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
