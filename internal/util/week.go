package util

import "time"

// WeekStart returns the Monday 00:00:00 of the week containing t, in
// t's location.
func WeekStart(t time.Time) time.Time {
	// time.Weekday has Sunday = 0; weeks here start on Monday.
	offset := (int(t.Weekday()) + 6) % 7
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, -offset)
}

// WeekWindow returns the [start, end) bounds of the week weekOffset
// weeks away from the week containing now. Offset 0 is the current
// week, negative offsets are past weeks.
func WeekWindow(now time.Time, weekOffset int) (start, end time.Time) {
	start = WeekStart(now).AddDate(0, 0, 7*weekOffset)
	end = start.AddDate(0, 0, 7)
	return start, end
}
