package stats

import (
	"errors"
	"testing"
	"time"

	"github.com/habitflow/habitflow-backend/internal/pkg/apperr"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "plain_date", in: "2024-03-15", want: "2024-03-15"},
		{name: "surrounding_whitespace", in: "  2024-03-15 ", want: "2024-03-15"},
		{name: "empty", in: "", wantErr: true},
		{name: "time_component_rejected", in: "2024-03-15T10:00:00Z", wantErr: true},
		{name: "slash_format_rejected", in: "2024/03/15", wantErr: true},
		{name: "impossible_day", in: "2024-02-30", wantErr: true},
		{name: "not_a_date", in: "yesterday", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseDate(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("ParseDate(%q): expected error, got %v", tc.in, got)
				}
				if !errors.Is(err, apperr.ErrValidation) {
					t.Fatalf("ParseDate(%q): error kind = %v, want validation", tc.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q): %v", tc.in, err)
			}
			if got.Format(DateLayout) != tc.want {
				t.Fatalf("ParseDate(%q) = %s, want %s", tc.in, got.Format(DateLayout), tc.want)
			}
			if got.Location() != time.UTC {
				t.Fatalf("ParseDate(%q) location = %v, want UTC", tc.in, got.Location())
			}
		})
	}
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{name: "same_day", a: "2024-01-05", b: "2024-01-05", want: 0},
		{name: "adjacent", a: "2024-01-05", b: "2024-01-06", want: 1},
		{name: "reversed_is_negative", a: "2024-01-06", b: "2024-01-05", want: -1},
		{name: "across_month", a: "2024-01-30", b: "2024-02-02", want: 3},
		{name: "leap_february", a: "2024-02-28", b: "2024-03-01", want: 2},
		{name: "across_year", a: "2023-12-30", b: "2024-01-02", want: 3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := DaysBetween(d(tc.a), d(tc.b)); got != tc.want {
				t.Fatalf("DaysBetween(%s, %s) = %d, want %d", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestDaysBetweenIgnoresTimeOfDay(t *testing.T) {
	a := time.Date(2024, 1, 5, 23, 59, 0, 0, time.UTC)
	b := time.Date(2024, 1, 6, 0, 1, 0, 0, time.UTC)
	if got := DaysBetween(a, b); got != 1 {
		t.Fatalf("DaysBetween = %d, want 1", got)
	}
}

func TestEndOfDay(t *testing.T) {
	in := time.Date(2024, 1, 5, 10, 30, 0, 0, time.UTC)
	got := EndOfDay(in)
	if got.Day() != 5 || got.Hour() != 23 || got.Minute() != 59 {
		t.Fatalf("EndOfDay = %v", got)
	}
	if !got.Before(Day(in).AddDate(0, 0, 1)) {
		t.Fatalf("EndOfDay %v should precede next midnight", got)
	}
}
