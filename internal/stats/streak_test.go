package stats

import (
	"testing"
	"time"
)

func d(s string) time.Time {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func TestComputeStreak(t *testing.T) {
	cases := []struct {
		name        string
		dates       []string
		wantCurrent int
		wantLongest int
		wantLast    string
	}{
		{
			name: "empty",
		},
		{
			name:        "single_day",
			dates:       []string{"2024-01-05"},
			wantCurrent: 1,
			wantLongest: 1,
			wantLast:    "2024-01-05",
		},
		{
			name:        "run_then_gap_then_single",
			dates:       []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-10"},
			wantCurrent: 1,
			wantLongest: 3,
			wantLast:    "2024-01-10",
		},
		{
			name:        "unbroken_run",
			dates:       []string{"2024-02-01", "2024-02-02", "2024-02-03", "2024-02-04"},
			wantCurrent: 4,
			wantLongest: 4,
			wantLast:    "2024-02-04",
		},
		{
			name:        "longest_in_the_middle",
			dates:       []string{"2024-01-01", "2024-01-05", "2024-01-06", "2024-01-07", "2024-01-12", "2024-01-13"},
			wantCurrent: 2,
			wantLongest: 3,
			wantLast:    "2024-01-13",
		},
		{
			name:        "duplicate_dates_collapse",
			dates:       []string{"2024-03-01", "2024-03-01", "2024-03-02"},
			wantCurrent: 2,
			wantLongest: 2,
			wantLast:    "2024-03-02",
		},
		{
			name:        "unsorted_input",
			dates:       []string{"2024-04-03", "2024-04-01", "2024-04-02"},
			wantCurrent: 3,
			wantLongest: 3,
			wantLast:    "2024-04-03",
		},
		{
			name:        "month_boundary",
			dates:       []string{"2024-01-31", "2024-02-01"},
			wantCurrent: 2,
			wantLongest: 2,
			wantLast:    "2024-02-01",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var dates []time.Time
			for _, s := range tc.dates {
				dates = append(dates, d(s))
			}
			got := ComputeStreak(dates)
			if got.Current != tc.wantCurrent {
				t.Fatalf("Current=%d, want %d", got.Current, tc.wantCurrent)
			}
			if got.Longest != tc.wantLongest {
				t.Fatalf("Longest=%d, want %d", got.Longest, tc.wantLongest)
			}
			if tc.wantLast == "" {
				if got.LastDate != nil {
					t.Fatalf("LastDate=%v, want nil", got.LastDate)
				}
			} else {
				if got.LastDate == nil || !got.LastDate.Equal(d(tc.wantLast)) {
					t.Fatalf("LastDate=%v, want %s", got.LastDate, tc.wantLast)
				}
			}
			if got.Current > got.Longest {
				t.Fatalf("Current %d exceeds Longest %d", got.Current, got.Longest)
			}
			if got.Current < 0 || got.Longest < 0 {
				t.Fatalf("negative streak: %+v", got)
			}
		})
	}
}

func TestComputeStreakAnchorsAtLastLoggedDate(t *testing.T) {
	// A habit untouched for weeks keeps the run length it ended with; the
	// current streak is not zeroed against today.
	stale := []time.Time{d("2023-11-01"), d("2023-11-02"), d("2023-11-03")}
	got := ComputeStreak(stale)
	if got.Current != 3 {
		t.Fatalf("Current=%d, want 3 despite staleness", got.Current)
	}
}

func TestComputeStreakIgnoresTimeOfDay(t *testing.T) {
	dates := []time.Time{
		time.Date(2024, 5, 1, 23, 59, 0, 0, time.UTC),
		time.Date(2024, 5, 2, 0, 1, 0, 0, time.UTC),
	}
	got := ComputeStreak(dates)
	if got.Current != 2 || got.Longest != 2 {
		t.Fatalf("got %+v, want 2/2", got)
	}
}
