package leave

import "time"

type Leave struct {
	ID           string
	UserID       string
	StartDate    time.Time
	EndDate      time.Time
	Reason       string
	Status       Status
	CancelReason *string
	RejectReason *string
	ApproverID   *string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Relationships (for responses)
	UserName  *string
	UserEmail *string
}

// Duration returns the length of the leave interval.
func (l Leave) Duration() time.Duration {
	return l.EndDate.Sub(l.StartDate)
}

// IsActive reports whether the leave still takes part in conflict detection.
func (l Leave) IsActive() bool {
	return l.Status.IsActive()
}

// LeaveFilter narrows repository listings.
type LeaveFilter struct {
	UserID *string
	Status *Status
}
