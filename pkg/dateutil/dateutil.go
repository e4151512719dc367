package dateutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DaysPerYear is the ACT/365F year basis used for every year fraction.
const DaysPerYear = 365.0

// YearFraction returns the ACT/365F year fraction from one instant to another.
// It is negative when to precedes from.
func YearFraction(from, to time.Time) float64 {
	return to.Sub(from).Hours() / 24 / DaysPerYear
}

// ParseDate parses a date as YYYY-MM-DD or RFC 3339, in UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD or RFC 3339", s)
	}
	return t.UTC(), nil
}

// AddTenor moves date forward by a tenor such as 10D, 2W, 6M or 1Y.
func AddTenor(date time.Time, tenor string) (time.Time, error) {
	tenor = strings.ToUpper(strings.TrimSpace(tenor))
	if len(tenor) < 2 {
		return time.Time{}, fmt.Errorf("invalid tenor %q", tenor)
	}
	n, err := strconv.Atoi(tenor[:len(tenor)-1])
	if err != nil || n < 0 {
		return time.Time{}, fmt.Errorf("invalid tenor %q", tenor)
	}
	switch tenor[len(tenor)-1] {
	case 'D':
		return date.AddDate(0, 0, n), nil
	case 'W':
		return date.AddDate(0, 0, 7*n), nil
	case 'M':
		return AddMonths(date, n), nil
	case 'Y':
		return AddYears(date, n), nil
	}
	return time.Time{}, fmt.Errorf("invalid tenor %q: unit must be D, W, M or Y", tenor)
}

// ParseExpiry resolves a date or a tenor relative to asOf and returns its
// year fraction from asOf.
func ParseExpiry(s string, asOf time.Time) (float64, error) {
	if d, err := ParseDate(s); err == nil {
		return YearFraction(asOf, d), nil
	}
	d, err := AddTenor(asOf, s)
	if err != nil {
		return 0, fmt.Errorf("invalid expiry %q: want a date or a tenor", s)
	}
	return YearFraction(asOf, d), nil
}

// AddYears adds a specified number of years to a date
func AddYears(date time.Time, years int) time.Time {
	return date.AddDate(years, 0, 0)
}

// AddMonths adds months to a date, clamping to the end of the target month
// instead of overflowing into the next one.
func AddMonths(date time.Time, months int) time.Time {
	y, m, d := date.Date()
	first := time.Date(y, m+time.Month(months), 1, date.Hour(), date.Minute(), date.Second(), date.Nanosecond(), date.Location())
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return first.AddDate(0, 0, d-1)
}
