package stats

import (
	"sort"
	"time"
)

// StreakResult is the output of a streak computation. Current counts
// consecutive calendar days ending at the most recent logged date, not at
// today: a habit last logged ten days ago still reports the run length it
// ended with. LastDate is nil when the habit has no logs.
type StreakResult struct {
	Current  int
	Longest  int
	LastDate *time.Time
}

// ComputeStreak derives streak lengths from the set of calendar dates that
// have at least one completion. Duplicate dates and time-of-day components
// collapse to day presence. Pure; persistence is the caller's concern.
func ComputeStreak(dates []time.Time) StreakResult {
	if len(dates) == 0 {
		return StreakResult{}
	}

	seen := make(map[time.Time]struct{}, len(dates))
	days := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		day := Day(d)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	last := days[len(days)-1]

	current := 0
	for d := last; ; d = d.AddDate(0, 0, -1) {
		if _, ok := seen[d]; !ok {
			break
		}
		current++
	}

	longest := 1
	run := 1
	for i := 1; i < len(days); i++ {
		if DaysBetween(days[i-1], days[i]) == 1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}

	return StreakResult{Current: current, Longest: longest, LastDate: &last}
}
