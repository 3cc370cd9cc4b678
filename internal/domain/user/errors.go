package user

import "errors"

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrUserEmailExists       = errors.New("email already registered")
	ErrUnauthenticated       = errors.New("authentication required")
	ErrForbidden             = errors.New("insufficient permissions")
	ErrCannotDeleteSelf      = errors.New("admins cannot delete their own account")
	ErrInvalidPasswordLength = errors.New("password must be at least 6 characters")
)
