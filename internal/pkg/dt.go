package pkg

import "time"

// DateUTC truncates t to its UTC calendar date.
func DateUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDayUTC reports whether a and b fall on the same UTC calendar date.
func SameDayUTC(a, b time.Time) bool {
	return DateUTC(a).Equal(DateUTC(b))
}

// DaysApartUTC is the number of whole calendar days between the UTC dates of
// a and b; positive when b is later.
func DaysApartUTC(a, b time.Time) int {
	return int(DateUTC(b).Sub(DateUTC(a)) / (24 * time.Hour))
}
