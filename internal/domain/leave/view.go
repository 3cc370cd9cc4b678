package leave

import (
	"math"
	"sort"
	"strings"
	"time"
)

const PageSize = 10

// BusinessWeek returns Monday 00:00 and Friday 23:59:59.999999999 of the ISO
// week containing now, in now's location. A Sunday belongs to the week that
// is ending, not to the one starting the next day.
func BusinessWeek(now time.Time) (time.Time, time.Time) {
	weekday := int(now.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	monday := startOfDay(now).AddDate(0, 0, -(weekday - 1))
	friday := endOfDay(monday.AddDate(0, 0, 4))
	return monday, friday
}

// MonthRange returns the first and last instants of the calendar month containing now.
func MonthRange(now time.Time) (time.Time, time.Time) {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	last := first.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return first, last
}

// MonthlyStats aggregates a user's leaves for one month.
type MonthlyStats struct {
	PendingLeaves  int   `json:"pendingLeaves"`
	ApprovedLeaves int   `json:"approvedLeaves"`
	RejectedLeaves int   `json:"rejectedLeaves"`
	TotalHours     int64 `json:"totalHours"`
}

// ComputeMonthlyStats counts leaves per status and sums the rounded hours of approved ones.
func ComputeMonthlyStats(leaves []Leave) MonthlyStats {
	var stats MonthlyStats
	for _, l := range leaves {
		switch l.Status {
		case StatusPending:
			stats.PendingLeaves++
		case StatusApproved:
			stats.ApprovedLeaves++
			stats.TotalHours += int64(math.Round(l.Duration().Hours()))
		case StatusRejected:
			stats.RejectedLeaves++
		}
	}
	return stats
}

// SortByStartDesc orders leaves newest start first.
func SortByStartDesc(leaves []Leave) {
	sort.SliceStable(leaves, func(i, j int) bool {
		return leaves[i].StartDate.After(leaves[j].StartDate)
	})
}

// SortByStartAsc orders leaves oldest start first.
func SortByStartAsc(leaves []Leave) {
	sort.SliceStable(leaves, func(i, j int) bool {
		return leaves[i].StartDate.Before(leaves[j].StartDate)
	})
}

// FilterCriteria drives the admin management view.
type FilterCriteria struct {
	Status *Status
	From   *time.Time
	To     *time.Time
	Search string
}

// Page is one page of a filtered leave list.
type Page struct {
	Items      []Leave
	Page       int
	Total      int
	TotalPages int
}

// Match reports whether l satisfies every criterion that is set.
func (c FilterCriteria) Match(l Leave) bool {
	if c.Status != nil && l.Status != *c.Status {
		return false
	}
	if c.From != nil {
		from := startOfDay(*c.From)
		if l.StartDate.Before(from) && l.EndDate.Before(from) {
			return false
		}
	}
	if c.To != nil {
		to := endOfDay(*c.To)
		if l.StartDate.After(to) && l.EndDate.After(to) {
			return false
		}
	}
	if q := strings.ToLower(strings.TrimSpace(c.Search)); q != "" {
		name := ""
		if l.UserName != nil {
			name = *l.UserName
		}
		if !strings.Contains(strings.ToLower(name), q) && !strings.Contains(strings.ToLower(l.Reason), q) {
			return false
		}
	}
	return true
}

// FilterAndPaginate filters leaves by criteria, keeping input order, and
// returns the requested page of PageSize items.
func FilterAndPaginate(leaves []Leave, criteria FilterCriteria, page int) Page {
	if page < 1 {
		page = 1
	}

	filtered := make([]Leave, 0, len(leaves))
	for _, l := range leaves {
		if criteria.Match(l) {
			filtered = append(filtered, l)
		}
	}

	result := Page{
		Items:      []Leave{},
		Page:       page,
		Total:      len(filtered),
		TotalPages: (len(filtered) + PageSize - 1) / PageSize,
	}

	start := (page - 1) * PageSize
	if start >= len(filtered) {
		return result
	}
	end := start + PageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	result.Items = filtered[start:end]
	return result
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}
