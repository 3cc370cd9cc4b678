package leave

import "time"

// Overlaps reports whether [s1,e1] and [s2,e2] intersect. Intervals that
// only share a boundary instant count as overlapping.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return !s1.After(e2) && !e1.Before(s2)
}

// HasConflict reports whether the proposed interval overlaps any active leave
// in existing. Rejected leaves are ignored.
func HasConflict(start, end time.Time, existing []Leave) bool {
	for _, l := range existing {
		if !l.IsActive() {
			continue
		}
		if Overlaps(start, end, l.StartDate, l.EndDate) {
			return true
		}
	}
	return false
}
