package models

import "time"

// DateLayout is the calendar-date format used on the wire and in URLs.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ValidDate reports whether s is a real calendar date in YYYY-MM-DD form.
func ValidDate(s string) bool {
	_, ok := ParseDate(s)
	return ok
}

// AddDays shifts a YYYY-MM-DD date by n calendar days. Arithmetic happens at
// noon UTC so daylight-saving shifts can never move the result across a day.
// Invalid input is returned unchanged.
func AddDays(date string, n int) string {
	t, ok := ParseDate(date)
	if !ok {
		return date
	}
	return t.Add(12*time.Hour).AddDate(0, 0, n).Format(DateLayout)
}

// Today returns the current calendar date in loc.
func Today(now time.Time, loc *time.Location) string {
	return now.In(loc).Format(DateLayout)
}

// DefaultRange returns the trailing window of days ending today.
func DefaultRange(now time.Time, loc *time.Location, days int) (from, to string) {
	to = Today(now, loc)
	return AddDays(to, -days), to
}

// OffsetMillis returns loc's UTC offset on the given date, in milliseconds.
// The offset is sampled at 12:00 UTC of that date.
func OffsetMillis(loc *time.Location, date string) int64 {
	t, ok := ParseDate(date)
	if !ok {
		t = time.Now().UTC()
	}
	_, offset := t.Add(12 * time.Hour).In(loc).Zone()
	return int64(offset) * 1000
}

// StartOfDayMillis returns unix ms of local midnight on date in loc.
func StartOfDayMillis(date string, loc *time.Location) int64 {
	t, _ := ParseDate(date)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc).UnixMilli()
}

// EndOfDayMillis returns unix ms of the last millisecond of date in loc.
func EndOfDayMillis(date string, loc *time.Location) int64 {
	t, _ := ParseDate(date)
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), loc).UnixMilli()
}
