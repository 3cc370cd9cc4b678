package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/leave-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/leave-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/leave-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
)

const EventLeaveStatusChanged = "leave.status_changed"

// EventPublisher delivers leave notifications to a user's open streams.
type EventPublisher interface {
	Publish(userID string, name string, data interface{})
}

type Option func(*LeaveServiceImpl)

// WithClock overrides the time source used for week and month windows.
func WithClock(now func() time.Time) Option {
	return func(s *LeaveServiceImpl) { s.now = now }
}

func WithEventPublisher(p EventPublisher) Option {
	return func(s *LeaveServiceImpl) { s.events = p }
}

// WithSelfApproval lets non-admin users create leaves directly in APPROVED.
func WithSelfApproval(allowed bool) Option {
	return func(s *LeaveServiceImpl) { s.allowSelfApproval = allowed }
}

type LeaveServiceImpl struct {
	tx database.Transactor
	leave.LeaveRepository
	location          *time.Location
	allowSelfApproval bool
	events            EventPublisher
	now               func() time.Time
}

func NewLeaveService(tx database.Transactor, leaveRepository leave.LeaveRepository, location *time.Location, opts ...Option) leave.LeaveService {
	if location == nil {
		location = time.UTC
	}
	s := &LeaveServiceImpl{
		tx:              tx,
		LeaveRepository: leaveRepository,
		location:        location,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create implements leave.LeaveService.
func (s *LeaveServiceImpl) Create(ctx context.Context, principal user.Principal, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
	if err := user.Authorize(principal, user.PermissionLeaveCreate); err != nil {
		return leave.LeaveResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return leave.LeaveResponse{}, err
	}

	status := req.InitialStatus()
	if status == leave.StatusApproved && !s.allowSelfApproval && !principal.Can(user.PermissionLeaveSelfApprove) {
		return leave.LeaveResponse{}, leave.ErrSelfApprovalForbidden
	}

	id, err := uuid.NewV7()
	if err != nil {
		return leave.LeaveResponse{}, fmt.Errorf("failed to generate leave id: %w", err)
	}

	start, end := req.Interval()
	newLeave := leave.Leave{
		ID:        id.String(),
		UserID:    principal.ID,
		StartDate: start,
		EndDate:   end,
		Reason:    strings.TrimSpace(req.Reason),
		Status:    status,
	}
	if status == leave.StatusApproved {
		approver := principal.ID
		newLeave.ApproverID = &approver
	}

	var created leave.Leave
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.LeaveRepository.LockOwner(txCtx, principal.ID); err != nil {
			return err
		}

		existing, err := s.LeaveRepository.GetByUserID(txCtx, principal.ID)
		if err != nil {
			return fmt.Errorf("failed to load existing leaves: %w", err)
		}
		if leave.HasConflict(start, end, existing) {
			return leave.ErrLeaveConflict
		}

		created, err = s.LeaveRepository.Create(txCtx, newLeave)
		if err != nil {
			return fmt.Errorf("failed to create leave: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	if created.Status == leave.StatusApproved {
		slog.Warn("Leave created pre-approved by its owner", "leave_id", created.ID, "user_id", principal.ID, "role", principal.Role)
	} else {
		slog.Info("Leave created", "leave_id", created.ID, "user_id", principal.ID)
	}

	return leave.NewLeaveResponse(created), nil
}

// Get implements leave.LeaveService.
func (s *LeaveServiceImpl) Get(ctx context.Context, principal user.Principal, id string) (leave.LeaveResponse, error) {
	if err := user.Authorize(principal, user.PermissionLeaveViewOwn); err != nil {
		return leave.LeaveResponse{}, err
	}
	if !validator.IsValidUUID(id) {
		return leave.LeaveResponse{}, leave.ErrLeaveNotFound
	}

	l, err := s.LeaveRepository.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveResponse{}, wrapStoreError("failed to get leave", err)
	}
	if err := user.AuthorizeOwnership(principal, l.UserID, user.PermissionLeaveViewAll); err != nil {
		return leave.LeaveResponse{}, err
	}
	return leave.NewLeaveResponse(l), nil
}

// UpdateStatus implements leave.LeaveService.
func (s *LeaveServiceImpl) UpdateStatus(ctx context.Context, principal user.Principal, req leave.UpdateStatusRequest) (leave.LeaveResponse, error) {
	if err := user.Authorize(principal, user.PermissionLeaveTransition); err != nil {
		return leave.LeaveResponse{}, err
	}
	target, err := leave.ParseStatus(req.Status)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return leave.LeaveResponse{}, err
	}
	if !validator.IsValidUUID(req.ID) {
		return leave.LeaveResponse{}, leave.ErrLeaveNotFound
	}

	var previous, updated leave.Leave
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		current, err := s.LeaveRepository.GetByIDForUpdate(txCtx, req.ID)
		if err != nil {
			return wrapStoreError("failed to get leave", err)
		}
		previous = current

		next, err := current.Apply(leave.StatusChange{
			Target:       target,
			ActorID:      principal.ID,
			CancelReason: req.CancelReason,
			RejectReason: req.RejectReason,
		})
		if err != nil {
			return err
		}

		updated, err = s.LeaveRepository.UpdateStatus(txCtx, next)
		if err != nil {
			return wrapStoreError("failed to update leave status", err)
		}
		return nil
	})
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	slog.Info("Leave status changed",
		"leave_id", updated.ID,
		"from", previous.Status,
		"to", updated.Status,
		"actor_id", principal.ID,
	)

	resp := leave.NewLeaveResponse(updated)
	if s.events != nil {
		s.events.Publish(updated.UserID, EventLeaveStatusChanged, resp)
	}
	return resp, nil
}

// ListMine implements leave.LeaveService.
func (s *LeaveServiceImpl) ListMine(ctx context.Context, principal user.Principal) ([]leave.LeaveResponse, error) {
	if err := user.Authorize(principal, user.PermissionLeaveViewOwn); err != nil {
		return nil, err
	}

	leaves, err := s.LeaveRepository.GetByUserID(ctx, principal.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leaves: %w", err)
	}
	leave.SortByStartDesc(leaves)
	return leave.NewLeaveResponses(leaves), nil
}

// ListAll implements leave.LeaveService. Principals without the view-all
// permission only see their own leaves.
func (s *LeaveServiceImpl) ListAll(ctx context.Context, principal user.Principal) ([]leave.LeaveResponse, error) {
	if err := user.Authorize(principal, user.PermissionLeaveViewOwn); err != nil {
		return nil, err
	}

	filter := leave.LeaveFilter{}
	if !principal.Can(user.PermissionLeaveViewAll) {
		filter.UserID = &principal.ID
	}
	return s.list(ctx, filter)
}

// ListPending implements leave.LeaveService.
func (s *LeaveServiceImpl) ListPending(ctx context.Context, principal user.Principal) ([]leave.LeaveResponse, error) {
	return s.listByStatus(ctx, principal, leave.StatusPending)
}

// ListApproved implements leave.LeaveService.
func (s *LeaveServiceImpl) ListApproved(ctx context.Context, principal user.Principal) ([]leave.LeaveResponse, error) {
	return s.listByStatus(ctx, principal, leave.StatusApproved)
}

// Search implements leave.LeaveService.
func (s *LeaveServiceImpl) Search(ctx context.Context, principal user.Principal, req leave.SearchLeavesRequest) (leave.PageResponse, error) {
	if err := user.Authorize(principal, user.PermissionLeaveViewAll); err != nil {
		return leave.PageResponse{}, err
	}
	criteria, page, err := req.ToCriteria(s.location)
	if err != nil {
		return leave.PageResponse{}, err
	}

	leaves, err := s.LeaveRepository.List(ctx, leave.LeaveFilter{})
	if err != nil {
		return leave.PageResponse{}, fmt.Errorf("failed to list leaves: %w", err)
	}
	leave.SortByStartDesc(leaves)

	return leave.NewPageResponse(leave.FilterAndPaginate(leaves, criteria, page)), nil
}

// ThisWeek implements leave.LeaveService.
func (s *LeaveServiceImpl) ThisWeek(ctx context.Context, principal user.Principal) ([]leave.LeaveResponse, error) {
	if err := user.Authorize(principal, user.PermissionLeaveViewWeek); err != nil {
		return nil, err
	}

	monday, friday := leave.BusinessWeek(s.now().In(s.location))
	leaves, err := s.LeaveRepository.ListApprovedStartingBetween(ctx, monday, friday)
	if err != nil {
		return nil, fmt.Errorf("failed to list leaves of the week: %w", err)
	}
	leave.SortByStartAsc(leaves)
	return leave.NewLeaveResponses(leaves), nil
}

// MonthlyStats implements leave.LeaveService.
func (s *LeaveServiceImpl) MonthlyStats(ctx context.Context, principal user.Principal) (leave.MonthlyStats, error) {
	if err := user.Authorize(principal, user.PermissionLeaveStatsOwn); err != nil {
		return leave.MonthlyStats{}, err
	}

	first, last := leave.MonthRange(s.now().In(s.location))
	leaves, err := s.LeaveRepository.ListByUserStartingBetween(ctx, principal.ID, first, last)
	if err != nil {
		return leave.MonthlyStats{}, fmt.Errorf("failed to list leaves of the month: %w", err)
	}
	return leave.ComputeMonthlyStats(leaves), nil
}

func (s *LeaveServiceImpl) listByStatus(ctx context.Context, principal user.Principal, status leave.Status) ([]leave.LeaveResponse, error) {
	if err := user.Authorize(principal, user.PermissionLeaveViewAll); err != nil {
		return nil, err
	}
	return s.list(ctx, leave.LeaveFilter{Status: &status})
}

func (s *LeaveServiceImpl) list(ctx context.Context, filter leave.LeaveFilter) ([]leave.LeaveResponse, error) {
	leaves, err := s.LeaveRepository.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list leaves: %w", err)
	}
	leave.SortByStartDesc(leaves)
	return leave.NewLeaveResponses(leaves), nil
}

// wrapStoreError keeps domain errors untouched and annotates store failures.
func wrapStoreError(msg string, err error) error {
	if errors.Is(err, leave.ErrLeaveNotFound) || errors.Is(err, leave.ErrLeaveConflict) {
		return err
	}
	return fmt.Errorf("%s: %w", msg, err)
}
