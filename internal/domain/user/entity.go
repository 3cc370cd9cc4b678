package user

import "time"

type Role string

const (
	RoleAdmin Role = "ADMIN" // Approves, rejects and cancels leaves; manages accounts
	RoleUser  Role = "USER"  // Submits and reads own leaves
)

// ParseRole converts raw input into a Role, case-insensitively.
func ParseRole(raw string) (Role, bool) {
	switch Role(upper(raw)) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleUser:
		return RoleUser, true
	}
	return "", false
}

type User struct {
	ID            string
	Name          string
	Email         string
	PasswordHash  string
	Role          Role
	RemainingDays *int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Principal returns the identity used to authorize the user's operations.
func (u *User) Principal() Principal {
	return Principal{ID: u.ID, Role: u.Role}
}
