package leave

import (
	"context"
	"time"
)

type LeaveRepository interface {
	Create(ctx context.Context, leave Leave) (Leave, error)
	GetByID(ctx context.Context, id string) (Leave, error)
	// GetByIDForUpdate locks the leave row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id string) (Leave, error)
	// GetByUserID returns the user's leaves, newest start first.
	GetByUserID(ctx context.Context, userID string) ([]Leave, error)
	// List returns leaves joined with their owner, newest start first.
	List(ctx context.Context, filter LeaveFilter) ([]Leave, error)
	// ListApprovedStartingBetween returns approved leaves starting within [from, to], oldest start first.
	ListApprovedStartingBetween(ctx context.Context, from, to time.Time) ([]Leave, error)
	ListByUserStartingBetween(ctx context.Context, userID string, from, to time.Time) ([]Leave, error)
	UpdateStatus(ctx context.Context, leave Leave) (Leave, error)
	// LockOwner serialises leave creation for one user until the surrounding transaction ends.
	LockOwner(ctx context.Context, userID string) error
}
