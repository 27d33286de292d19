package shift

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// DayStatus is an ephemeral view of one calendar date for the roster grid.
type DayStatus struct {
	Date       string
	Weekday    string
	DayOfMonth int
}

// Day builds the DayStatus view for a single date.
func Day(t time.Time) DayStatus {
	return DayStatus{
		Date:       FormatDate(t),
		Weekday:    t.Weekday().String()[:3],
		DayOfMonth: t.Day(),
	}
}

// Days returns the inclusive day range between from and to.
func Days(from, to time.Time) []DayStatus {
	start := atMidnight(from)
	end := atMidnight(to)
	if end.Before(start) {
		return nil
	}
	days := make([]DayStatus, 0, daysBetween(start, end)+1)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, Day(d))
	}
	return days
}

// ParseDate parses a canonical YYYY-MM-DD string at day granularity.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

// FormatDate renders a date in its canonical YYYY-MM-DD form.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}
