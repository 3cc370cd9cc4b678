package leave

import (
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/leave-backend-go/internal/pkg/validator"
)

const maxReasonLength = 1000

type CreateLeaveRequest struct {
	StartDate string  `json:"startDate"`
	EndDate   string  `json:"endDate"`
	Reason    string  `json:"reason"`
	Status    *string `json:"status,omitempty"`

	start time.Time
	end   time.Time
}

func (r *CreateLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	// Start date
	start, startOK := validator.IsValidDateTime(r.StartDate)
	if validator.IsEmpty(r.StartDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "startDate",
			Message: "startDate is required",
		})
	} else if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "startDate",
			Message: "startDate must be an ISO8601 timestamp",
		})
	}

	// End date
	end, endOK := validator.IsValidDateTime(r.EndDate)
	if validator.IsEmpty(r.EndDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "endDate",
			Message: "endDate is required",
		})
	} else if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "endDate",
			Message: "endDate must be an ISO8601 timestamp",
		})
	}

	if startOK && endOK && !start.Before(end) {
		errs = append(errs, validator.ValidationError{
			Field:   "endDate",
			Message: "endDate must be after startDate",
		})
	}

	// Reason
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	} else if len(r.Reason) > maxReasonLength {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason must not exceed 1000 characters",
		})
	}

	// Initial status
	if r.Status != nil && !validator.IsEmpty(*r.Status) {
		status, err := parseStatusFold(*r.Status)
		if err != nil || !status.IsInitial() {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be PENDING or APPROVED",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	r.start, r.end = start, end
	return nil
}

// Interval returns the parsed interval. Only meaningful after Validate succeeds.
func (r *CreateLeaveRequest) Interval() (time.Time, time.Time) {
	return r.start, r.end
}

// InitialStatus returns the requested creation status, PENDING when absent.
func (r *CreateLeaveRequest) InitialStatus() Status {
	if r.Status == nil || validator.IsEmpty(*r.Status) {
		return StatusPending
	}
	status, err := parseStatusFold(*r.Status)
	if err != nil {
		return StatusPending
	}
	return status
}

type UpdateStatusRequest struct {
	ID           string  `json:"-"`
	Status       string  `json:"status"`
	CancelReason *string `json:"cancelReason,omitempty"`
	RejectReason *string `json:"rejectReason,omitempty"`
}

func (r *UpdateStatusRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}
	if r.CancelReason != nil && len(*r.CancelReason) > maxReasonLength {
		errs = append(errs, validator.ValidationError{
			Field:   "cancelReason",
			Message: "cancelReason must not exceed 1000 characters",
		})
	}
	if r.RejectReason != nil && len(*r.RejectReason) > maxReasonLength {
		errs = append(errs, validator.ValidationError{
			Field:   "rejectReason",
			Message: "rejectReason must not exceed 1000 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SearchLeavesRequest carries the raw query parameters of the management view.
type SearchLeavesRequest struct {
	Status string
	From   string
	To     string
	Query  string
	Page   string
}

// ToCriteria validates the raw parameters and converts them into filter criteria and a page number.
func (r SearchLeavesRequest) ToCriteria(loc *time.Location) (FilterCriteria, int, error) {
	var errs validator.ValidationErrors
	criteria := FilterCriteria{Search: strings.TrimSpace(r.Query)}

	if !validator.IsEmpty(r.Status) && !strings.EqualFold(r.Status, "ALL") {
		status, err := parseStatusFold(r.Status)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: "status", Message: "status is not a valid leave status"})
		} else {
			criteria.Status = &status
		}
	}

	if !validator.IsEmpty(r.From) {
		from, ok := parseDay(r.From, loc)
		if !ok {
			errs = append(errs, validator.ValidationError{Field: "from", Message: "from must be YYYY-MM-DD or ISO8601"})
		} else {
			criteria.From = &from
		}
	}

	if !validator.IsEmpty(r.To) {
		to, ok := parseDay(r.To, loc)
		if !ok {
			errs = append(errs, validator.ValidationError{Field: "to", Message: "to must be YYYY-MM-DD or ISO8601"})
		} else {
			criteria.To = &to
		}
	}

	page := 1
	if !validator.IsEmpty(r.Page) {
		p, err := strconv.Atoi(r.Page)
		if err != nil || p < 1 {
			errs = append(errs, validator.ValidationError{Field: "page", Message: "page must be a positive integer"})
		} else {
			page = p
		}
	}

	if len(errs) > 0 {
		return FilterCriteria{}, 0, errs
	}
	return criteria, page, nil
}

func parseDay(raw string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}
	if d, ok := validator.IsValidDate(raw); ok {
		return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc), true
	}
	if t, ok := validator.IsValidDateTime(raw); ok {
		return t.In(loc), true
	}
	return time.Time{}, false
}

type LeaveResponse struct {
	ID           string     `json:"id"`
	UserID       string     `json:"userId"`
	StartDate    time.Time  `json:"startDate"`
	EndDate      time.Time  `json:"endDate"`
	Reason       string     `json:"reason"`
	Status       Status     `json:"status"`
	CancelReason *string    `json:"cancelReason"`
	RejectReason *string    `json:"rejectReason"`
	ApproverID   *string    `json:"approverId"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	User         *LeaveUser `json:"user,omitempty"`
}

type LeaveUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type PageResponse struct {
	Items      []LeaveResponse `json:"items"`
	Page       int             `json:"page"`
	Total      int             `json:"total"`
	TotalPages int             `json:"totalPages"`
}

func NewLeaveResponse(l Leave) LeaveResponse {
	resp := LeaveResponse{
		ID:           l.ID,
		UserID:       l.UserID,
		StartDate:    l.StartDate,
		EndDate:      l.EndDate,
		Reason:       l.Reason,
		Status:       l.Status,
		CancelReason: l.CancelReason,
		RejectReason: l.RejectReason,
		ApproverID:   l.ApproverID,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
	if l.UserName != nil || l.UserEmail != nil {
		resp.User = &LeaveUser{}
		if l.UserName != nil {
			resp.User.Name = *l.UserName
		}
		if l.UserEmail != nil {
			resp.User.Email = *l.UserEmail
		}
	}
	return resp
}

func NewLeaveResponses(leaves []Leave) []LeaveResponse {
	out := make([]LeaveResponse, 0, len(leaves))
	for _, l := range leaves {
		out = append(out, NewLeaveResponse(l))
	}
	return out
}

func NewPageResponse(p Page) PageResponse {
	return PageResponse{
		Items:      NewLeaveResponses(p.Items),
		Page:       p.Page,
		Total:      p.Total,
		TotalPages: p.TotalPages,
	}
}
