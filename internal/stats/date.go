package stats

import (
	"strings"
	"time"

	"github.com/habitflow/habitflow-backend/internal/pkg/apperr"
)

// DateLayout is the only date form accepted at the service boundary.
// Day-granularity equality is load-bearing for streak logic, so values
// carrying a time component are rejected rather than silently truncated.
const DateLayout = "2006-01-02"

func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, apperr.Validationf("date is required")
	}
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, apperr.Validationf("invalid date %q, want YYYY-MM-DD", s)
	}
	return t, nil
}

// Day normalizes t to midnight UTC so calendar comparisons are exact.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of calendar days from a to b; negative
// when b precedes a.
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}

// EndOfDay returns the last instant of t's calendar day.
func EndOfDay(t time.Time) time.Time {
	return Day(t).Add(24*time.Hour - time.Nanosecond)
}
