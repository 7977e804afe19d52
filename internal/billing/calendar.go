package billing

import "time"

// calendarDate keeps the year, month and day of t as written and places them at midnight in loc.
// Used for date-only fields such as the admission date.
func calendarDate(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// localDate converts the instant t to loc and truncates it to midnight
func localDate(t time.Time, loc *time.Location) time.Time {
	return calendarDate(t.In(loc), loc)
}

// nextBoundary returns the start of the cycle after the one starting at start.
// Boundaries recur on anchorDay; in months too short for it the boundary is clamped
// to the month's last day and adjusted is true.
func nextBoundary(start time.Time, anchorDay int, loc *time.Location) (next time.Time, adjusted bool) {
	y, m, _ := start.Date()
	want := time.Date(y, m+1, 1, 0, 0, 0, 0, loc).Month()
	next = time.Date(y, m+1, anchorDay, 0, 0, 0, 0, loc)
	if next.Month() != want {
		// day 0 of the month after next is the last day of the target month
		return time.Date(y, m+2, 0, 0, 0, 0, 0, loc), true
	}
	return next, false
}

// daysBetween counts calendar days from one date to another, ignoring time of day and DST
func daysBetween(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	f := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	t := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}
