package leave

import "strings"

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
	StatusCanceled Status = "CANCELED"
)

const (
	DefaultRejectReason = "Đơn nghỉ phép bị từ chối"
	DefaultCancelReason = "Đơn nghỉ phép bị hủy bởi quản trị viên"
)

var statuses = []Status{StatusPending, StatusApproved, StatusRejected, StatusCanceled}

// transitions lists, per current status, the statuses an admin may move a leave to.
var transitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {StatusCanceled},
	StatusCanceled: {StatusPending},
	StatusRejected: {},
}

// ParseStatus converts raw input into a Status. Only the exact upper-case
// names are accepted.
func ParseStatus(raw string) (Status, error) {
	for _, known := range statuses {
		if Status(raw) == known {
			return known, nil
		}
	}
	return "", ErrInvalidStatus
}

// parseStatusFold trims raw and compares it case-insensitively. Used for
// the initial status of a submission and for list filters.
func parseStatusFold(raw string) (Status, error) {
	return ParseStatus(strings.ToUpper(strings.TrimSpace(raw)))
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	_, err := ParseStatus(string(s))
	return err == nil
}

// IsActive reports whether a leave in this status blocks overlapping submissions.
func (s Status) IsActive() bool {
	return s != StatusRejected
}

// IsInitial reports whether a leave may be created directly in this status.
func (s Status) IsInitial() bool {
	return s == StatusPending || s == StatusApproved
}

// CanTransition reports whether the table allows moving from one status to another.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// StatusChange is the payload of an admin status transition.
type StatusChange struct {
	Target       Status
	ActorID      string
	CancelReason *string
	RejectReason *string
}

// Apply returns l moved to change.Target, or ErrInvalidTransition when the
// table has no such edge. l itself is never modified.
func (l Leave) Apply(change StatusChange) (Leave, error) {
	if !change.Target.IsValid() {
		return l, ErrInvalidStatus
	}
	if !CanTransition(l.Status, change.Target) {
		return l, ErrInvalidTransition
	}

	next := l
	next.Status = change.Target

	switch change.Target {
	case StatusApproved:
		next.ApproverID = stringPtr(change.ActorID)
	case StatusRejected:
		next.ApproverID = stringPtr(change.ActorID)
		next.RejectReason = stringPtr(reasonOrDefault(change.RejectReason, DefaultRejectReason))
	case StatusCanceled:
		next.CancelReason = stringPtr(reasonOrDefault(change.CancelReason, DefaultCancelReason))
	case StatusPending:
		next.CancelReason = nil
	}

	return next, nil
}

func reasonOrDefault(reason *string, fallback string) string {
	if reason == nil || strings.TrimSpace(*reason) == "" {
		return fallback
	}
	return strings.TrimSpace(*reason)
}

func stringPtr(s string) *string {
	return &s
}
