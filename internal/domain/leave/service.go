package leave

import (
	"context"

	"github.com/cmlabs-hris/leave-backend-go/internal/domain/user"
)

type LeaveService interface {
	Create(ctx context.Context, principal user.Principal, req CreateLeaveRequest) (LeaveResponse, error)
	Get(ctx context.Context, principal user.Principal, id string) (LeaveResponse, error)
	UpdateStatus(ctx context.Context, principal user.Principal, req UpdateStatusRequest) (LeaveResponse, error)

	ListMine(ctx context.Context, principal user.Principal) ([]LeaveResponse, error)
	ListAll(ctx context.Context, principal user.Principal) ([]LeaveResponse, error)
	ListPending(ctx context.Context, principal user.Principal) ([]LeaveResponse, error)
	ListApproved(ctx context.Context, principal user.Principal) ([]LeaveResponse, error)
	Search(ctx context.Context, principal user.Principal, req SearchLeavesRequest) (PageResponse, error)
	ThisWeek(ctx context.Context, principal user.Principal) ([]LeaveResponse, error)
	MonthlyStats(ctx context.Context, principal user.Principal) (MonthlyStats, error)
}
