package leave

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusinessWeek(t *testing.T) {
	loc := time.FixedZone("ICT", 7*3600)
	wantMonday := time.Date(2024, 6, 3, 0, 0, 0, 0, loc)
	wantFriday := time.Date(2024, 6, 7, 23, 59, 59, 999999999, loc)

	for _, now := range []time.Time{
		time.Date(2024, 6, 3, 0, 0, 0, 0, loc),   // Monday midnight
		time.Date(2024, 6, 5, 15, 30, 0, 0, loc), // Wednesday
		time.Date(2024, 6, 7, 23, 59, 0, 0, loc), // Friday night
		time.Date(2024, 6, 8, 10, 0, 0, 0, loc),  // Saturday
		time.Date(2024, 6, 9, 22, 0, 0, 0, loc),  // Sunday
	} {
		monday, friday := BusinessWeek(now)
		assert.True(t, monday.Equal(wantMonday), "monday for %s: %s", now, monday)
		assert.True(t, friday.Equal(wantFriday), "friday for %s: %s", now, friday)
	}
}

func TestBusinessWeek_SundayBelongsToEndingWeek(t *testing.T) {
	sunday := time.Date(2024, 6, 9, 0, 0, 0, 0, time.UTC)

	monday, friday := BusinessWeek(sunday)
	assert.Equal(t, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), monday)
	assert.True(t, friday.Before(sunday))

	nextMonday, _ := BusinessWeek(sunday.AddDate(0, 0, 1))
	assert.Equal(t, time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), nextMonday)
}

func TestMonthRange(t *testing.T) {
	first, last := MonthRange(time.Date(2024, 2, 15, 8, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), first)
	assert.Equal(t, time.Date(2024, 2, 29, 23, 59, 59, 999999999, time.UTC), last)
}

func TestComputeMonthlyStats(t *testing.T) {
	base := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	leaves := []Leave{
		{Status: StatusPending, StartDate: base, EndDate: base.Add(3 * time.Hour)},
		{Status: StatusApproved, StartDate: base, EndDate: base.Add(90 * time.Minute)},
		{Status: StatusApproved, StartDate: base, EndDate: base.Add(8*time.Hour + 20*time.Minute)},
		{Status: StatusRejected, StartDate: base, EndDate: base.Add(5 * time.Hour)},
		{Status: StatusCanceled, StartDate: base, EndDate: base.Add(5 * time.Hour)},
	}

	stats := ComputeMonthlyStats(leaves)
	assert.Equal(t, MonthlyStats{PendingLeaves: 1, ApprovedLeaves: 2, RejectedLeaves: 1, TotalHours: 10}, stats)
}

func named(name, reason string, start, end time.Time, status Status) Leave {
	return Leave{
		ID:        fmt.Sprintf("%s-%s", name, start.Format("0102")),
		UserName:  &name,
		Reason:    reason,
		StartDate: start,
		EndDate:   end,
		Status:    status,
	}
}

func day(d int) time.Time {
	return time.Date(2024, 6, d, 9, 0, 0, 0, time.UTC)
}

func TestFilterAndPaginate_Criteria(t *testing.T) {
	leaves := []Leave{
		named("An", "Khám bệnh", day(3), day(4), StatusApproved),
		named("Bình", "Du lịch", day(10), day(12), StatusPending),
		named("Chi", "Việc gia đình", day(1), day(3), StatusRejected),
	}

	t.Run("no criteria keeps everything", func(t *testing.T) {
		page := FilterAndPaginate(leaves, FilterCriteria{}, 1)
		assert.Len(t, page.Items, 3)
		assert.Equal(t, 1, page.TotalPages)
	})

	t.Run("status", func(t *testing.T) {
		status := StatusPending
		page := FilterAndPaginate(leaves, FilterCriteria{Status: &status}, 1)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "Du lịch", page.Items[0].Reason)
	})

	t.Run("from matches either endpoint", func(t *testing.T) {
		from := time.Date(2024, 6, 3, 18, 0, 0, 0, time.UTC) // start of day is 3 June 00:00
		page := FilterAndPaginate(leaves, FilterCriteria{From: &from}, 1)
		assert.Len(t, page.Items, 3)

		from = time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC)
		page = FilterAndPaginate(leaves, FilterCriteria{From: &from}, 1)
		assert.Len(t, page.Items, 2)
	})

	t.Run("to matches either endpoint", func(t *testing.T) {
		to := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC) // end of day is 3 June 23:59
		page := FilterAndPaginate(leaves, FilterCriteria{To: &to}, 1)
		assert.Len(t, page.Items, 2)
	})

	t.Run("search name or reason case insensitive", func(t *testing.T) {
		page := FilterAndPaginate(leaves, FilterCriteria{Search: "KHÁM"}, 1)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "An", *page.Items[0].UserName)

		page = FilterAndPaginate(leaves, FilterCriteria{Search: "chi"}, 1)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "Việc gia đình", page.Items[0].Reason)
	})
}

func TestFilterAndPaginate_Pages(t *testing.T) {
	var leaves []Leave
	for i := 0; i < 23; i++ {
		leaves = append(leaves, named("An", fmt.Sprintf("lý do %d", i), day(1).Add(time.Duration(i)*time.Hour), day(1).Add(time.Duration(i)*time.Hour+time.Minute), StatusPending))
	}

	page := FilterAndPaginate(leaves, FilterCriteria{}, 1)
	assert.Len(t, page.Items, PageSize)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 23, page.Total)
	assert.Equal(t, "lý do 0", page.Items[0].Reason)

	page = FilterAndPaginate(leaves, FilterCriteria{}, 3)
	assert.Len(t, page.Items, 3)
	assert.Equal(t, "lý do 20", page.Items[0].Reason)

	page = FilterAndPaginate(leaves, FilterCriteria{}, 4)
	assert.Empty(t, page.Items)

	page = FilterAndPaginate(leaves, FilterCriteria{}, 0)
	assert.Equal(t, 1, page.Page)

	empty := FilterAndPaginate(nil, FilterCriteria{}, 1)
	assert.Equal(t, 0, empty.TotalPages)
	assert.NotNil(t, empty.Items)
}

func TestSortByStart(t *testing.T) {
	leaves := []Leave{{ID: "b", StartDate: day(5)}, {ID: "a", StartDate: day(2)}, {ID: "c", StartDate: day(9)}}

	SortByStartDesc(leaves)
	assert.Equal(t, []string{"c", "b", "a"}, []string{leaves[0].ID, leaves[1].ID, leaves[2].ID})

	SortByStartAsc(leaves)
	assert.Equal(t, []string{"a", "b", "c"}, []string{leaves[0].ID, leaves[1].ID, leaves[2].ID})
}
