package leave

import "errors"

var (
	ErrLeaveNotFound         = errors.New("leave not found")
	ErrLeaveConflict         = errors.New("leave overlaps an existing leave")
	ErrInvalidStatus         = errors.New("invalid leave status")
	ErrInvalidTransition     = errors.New("status transition not allowed")
	ErrSelfApprovalForbidden = errors.New("creating a pre-approved leave requires approval privilege")
	ErrLeaveOwnerNotFound    = errors.New("leave owner not found")
)
