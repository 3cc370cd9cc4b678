package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/leave-backend-go/internal/domain/user"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UserServiceImpl struct {
	user.UserRepository
}

func NewUserService(userRepository user.UserRepository) user.UserService {
	return &UserServiceImpl{UserRepository: userRepository}
}

// HashPassword hashes a plain password with bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// List implements user.UserService.
func (s *UserServiceImpl) List(ctx context.Context, principal user.Principal) ([]user.UserResponse, error) {
	if err := user.Authorize(principal, user.PermissionUserManage); err != nil {
		return nil, err
	}

	users, err := s.UserRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	resp := make([]user.UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, user.NewUserResponse(u))
	}
	return resp, nil
}

// Get implements user.UserService.
func (s *UserServiceImpl) Get(ctx context.Context, principal user.Principal, id string) (user.UserResponse, error) {
	if err := user.Authorize(principal, user.PermissionUserManage); err != nil {
		return user.UserResponse{}, err
	}

	u, err := s.UserRepository.GetByID(ctx, id)
	if err != nil {
		return user.UserResponse{}, wrap("failed to get user", err)
	}
	return user.NewUserResponse(u), nil
}

// Create implements user.UserService.
func (s *UserServiceImpl) Create(ctx context.Context, principal user.Principal, req user.CreateUserRequest) (user.UserResponse, error) {
	if err := user.Authorize(principal, user.PermissionUserManage); err != nil {
		return user.UserResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	role := user.RoleUser
	if req.Role != "" {
		role, _ = user.ParseRole(req.Role)
	}

	created, err := s.createUser(ctx, req.Name, req.Email, req.Password, role, req.RemainingDays)
	if err != nil {
		return user.UserResponse{}, err
	}

	slog.Info("User created", "user_id", created.ID, "role", created.Role, "actor_id", principal.ID)
	return user.NewUserResponse(created), nil
}

// Update implements user.UserService.
func (s *UserServiceImpl) Update(ctx context.Context, principal user.Principal, req user.UpdateUserRequest) (user.UserResponse, error) {
	if err := user.Authorize(principal, user.PermissionUserManage); err != nil {
		return user.UserResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	updated, err := s.UserRepository.Update(ctx, req)
	if err != nil {
		return user.UserResponse{}, wrap("failed to update user", err)
	}

	if req.Password != nil {
		hash, err := HashPassword(*req.Password)
		if err != nil {
			return user.UserResponse{}, err
		}
		if err := s.UserRepository.UpdatePassword(ctx, req.ID, hash); err != nil {
			return user.UserResponse{}, wrap("failed to update password", err)
		}
	}

	slog.Info("User updated", "user_id", updated.ID, "actor_id", principal.ID)
	return user.NewUserResponse(updated), nil
}

// Delete implements user.UserService.
func (s *UserServiceImpl) Delete(ctx context.Context, principal user.Principal, id string) error {
	if err := user.Authorize(principal, user.PermissionUserManage); err != nil {
		return err
	}
	if id == principal.ID {
		return user.ErrCannotDeleteSelf
	}

	if err := s.UserRepository.Delete(ctx, id); err != nil {
		return wrap("failed to delete user", err)
	}

	slog.Info("User deleted", "user_id", id, "actor_id", principal.ID)
	return nil
}

// Me implements user.UserService.
func (s *UserServiceImpl) Me(ctx context.Context, principal user.Principal) (user.UserResponse, error) {
	if err := user.Authorize(principal, user.PermissionViewOwnProfile); err != nil {
		return user.UserResponse{}, err
	}

	u, err := s.UserRepository.GetByID(ctx, principal.ID)
	if err != nil {
		return user.UserResponse{}, wrap("failed to get profile", err)
	}
	return user.NewUserResponse(u), nil
}

// UpdateMe implements user.UserService.
func (s *UserServiceImpl) UpdateMe(ctx context.Context, principal user.Principal, req user.UpdateProfileRequest) (user.UserResponse, error) {
	if err := user.Authorize(principal, user.PermissionEditOwnProfile); err != nil {
		return user.UserResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	updated, err := s.UserRepository.Update(ctx, user.UpdateUserRequest{
		ID:    principal.ID,
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		return user.UserResponse{}, wrap("failed to update profile", err)
	}
	return user.NewUserResponse(updated), nil
}

// EnsureAdmin implements user.UserService.
func (s *UserServiceImpl) EnsureAdmin(ctx context.Context, name, email, password string) error {
	_, err := s.UserRepository.GetByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, user.ErrUserNotFound) {
		return fmt.Errorf("failed to look up admin: %w", err)
	}

	created, err := s.createUser(ctx, name, email, password, user.RoleAdmin, nil)
	if err != nil {
		return err
	}
	slog.Info("Bootstrap admin created", "user_id", created.ID, "email", created.Email)
	return nil
}

func (s *UserServiceImpl) createUser(ctx context.Context, name, email, password string, role user.Role, remainingDays *int) (user.User, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return user.User{}, fmt.Errorf("failed to generate user id: %w", err)
	}
	hash, err := HashPassword(password)
	if err != nil {
		return user.User{}, err
	}

	created, err := s.UserRepository.Create(ctx, user.User{
		ID:            id.String(),
		Name:          strings.TrimSpace(name),
		Email:         strings.ToLower(strings.TrimSpace(email)),
		PasswordHash:  hash,
		Role:          role,
		RemainingDays: remainingDays,
	})
	if err != nil {
		return user.User{}, wrap("failed to create user", err)
	}
	return created, nil
}

func wrap(msg string, err error) error {
	if errors.Is(err, user.ErrUserNotFound) || errors.Is(err, user.ErrUserEmailExists) {
		return err
	}
	return fmt.Errorf("%s: %w", msg, err)
}
