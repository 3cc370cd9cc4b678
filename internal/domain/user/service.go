package user

import "context"

type UserService interface {
	List(ctx context.Context, principal Principal) ([]UserResponse, error)
	Get(ctx context.Context, principal Principal, id string) (UserResponse, error)
	Create(ctx context.Context, principal Principal, req CreateUserRequest) (UserResponse, error)
	Update(ctx context.Context, principal Principal, req UpdateUserRequest) (UserResponse, error)
	Delete(ctx context.Context, principal Principal, id string) error

	Me(ctx context.Context, principal Principal) (UserResponse, error)
	UpdateMe(ctx context.Context, principal Principal, req UpdateProfileRequest) (UserResponse, error)

	// EnsureAdmin creates an ADMIN account for email unless one is registered.
	EnsureAdmin(ctx context.Context, name, email, password string) error
}
