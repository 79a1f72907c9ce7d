package stats

import (
	"math"
	"testing"

	"github.com/google/uuid"
)

func TestBuildReportOrdering(t *testing.T) {
	start, end, today := d("2024-01-01"), d("2024-01-10"), d("2024-01-10")

	// Identical rates, names "B" and "A": "A" must sort first.
	habits := []HabitInput{
		{
			HabitID:     uuid.New(),
			Name:        "B",
			Frequency:   "daily",
			TargetCount: 1,
			StartDate:   d("2024-01-01"),
			Logs:        []LogPoint{{Date: d("2024-01-02"), Count: 9}},
		},
		{
			HabitID:     uuid.New(),
			Name:        "A",
			Frequency:   "daily",
			TargetCount: 1,
			StartDate:   d("2024-01-01"),
			Logs:        []LogPoint{{Date: d("2024-01-03"), Count: 9}},
		},
	}
	rows, _ := BuildReport(habits, start, end, today)
	if len(rows) != 2 {
		t.Fatalf("row count=%d, want 2", len(rows))
	}
	if rows[0].Name != "A" || rows[1].Name != "B" {
		t.Fatalf("order=[%s %s], want [A B]", rows[0].Name, rows[1].Name)
	}
	if rows[0].CompletionRate != rows[1].CompletionRate {
		t.Fatalf("rates differ: %v vs %v", rows[0].CompletionRate, rows[1].CompletionRate)
	}
}

func TestBuildReportSameDayLogsSumButCountOnce(t *testing.T) {
	start, end, today := d("2024-01-01"), d("2024-01-05"), d("2024-01-05")
	habits := []HabitInput{
		{
			HabitID:     uuid.New(),
			Name:        "water",
			Frequency:   "daily",
			TargetCount: 1,
			StartDate:   d("2024-01-01"),
			Logs: []LogPoint{
				{Date: d("2024-01-02"), Count: 2},
				{Date: d("2024-01-02"), Count: 3},
			},
		},
	}
	rows, _ := BuildReport(habits, start, end, today)
	row := rows[0]
	if row.LogCount != 2 {
		t.Fatalf("LogCount=%d, want 2", row.LogCount)
	}
	if row.TotalCompletions != 5 {
		t.Fatalf("TotalCompletions=%d, want 5", row.TotalCompletions)
	}
	if row.AvgPerLog != 2.5 {
		t.Fatalf("AvgPerLog=%v, want 2.5", row.AvgPerLog)
	}
}

func TestBuildReportCompletionRateDenominatorUsesToday(t *testing.T) {
	// The denominator runs to today even when the query's end date is
	// earlier. 10 completions over 20 active days at target 1/day -> 0.5.
	start, end := d("2024-01-01"), d("2024-01-05")
	today := d("2024-01-21")
	habits := []HabitInput{
		{
			HabitID:     uuid.New(),
			Name:        "read",
			Frequency:   "daily",
			TargetCount: 1,
			StartDate:   d("2024-01-01"),
			Logs: []LogPoint{
				{Date: d("2024-01-02"), Count: 10},
			},
		},
	}
	rows, _ := BuildReport(habits, start, end, today)
	if rows[0].CompletionRate != 0.5 {
		t.Fatalf("CompletionRate=%v, want 0.5", rows[0].CompletionRate)
	}
}

func TestBuildReportDaysSinceLastAndTrend(t *testing.T) {
	start, end := d("2024-01-01"), d("2024-01-20")
	today := d("2024-01-20")
	habits := []HabitInput{
		{
			HabitID:     uuid.New(),
			Name:        "run",
			Frequency:   "daily",
			TargetCount: 1,
			StartDate:   d("2024-01-01"),
			Logs: []LogPoint{
				{Date: d("2024-01-10"), Count: 1},
				{Date: d("2024-01-15"), Count: 1},
			},
			TrendRecent: 4,
			TrendPrior:  1,
		},
		{
			HabitID:     uuid.New(),
			Name:        "noop",
			Frequency:   "daily",
			TargetCount: 1,
			StartDate:   d("2024-01-01"),
		},
	}
	rows, _ := BuildReport(habits, start, end, today)

	var run, noop HabitReportRow
	for _, r := range rows {
		switch r.Name {
		case "run":
			run = r
		case "noop":
			noop = r
		}
	}
	if run.DaysSinceLast == nil || *run.DaysSinceLast != 5 {
		t.Fatalf("DaysSinceLast=%v, want 5", run.DaysSinceLast)
	}
	if run.RecentTrend != 3 {
		t.Fatalf("RecentTrend=%d, want 3", run.RecentTrend)
	}
	if noop.DaysSinceLast != nil {
		t.Fatalf("DaysSinceLast=%v, want nil for unlogged habit", noop.DaysSinceLast)
	}
}

func TestBuildReportSummary(t *testing.T) {
	start, end, today := d("2024-01-01"), d("2024-01-10"), d("2024-01-10")
	habits := []HabitInput{
		{
			HabitID:       uuid.New(),
			Name:          "a",
			Frequency:     "daily",
			TargetCount:   1,
			StartDate:     d("2024-01-01"),
			CategoryName:  "health",
			CategoryColor: "#00FF00",
			CurrentStreak: 4,
			LongestStreak: 9,
			Logs: []LogPoint{
				{Date: d("2024-01-02"), Count: 1},
				{Date: d("2024-01-03"), Count: 1},
			},
		},
		{
			HabitID:       uuid.New(),
			Name:          "b",
			Frequency:     "weekly",
			TargetCount:   1,
			StartDate:     d("2024-01-01"),
			CategoryName:  "mind",
			CurrentStreak: 2,
			LongestStreak: 2,
			Logs: []LogPoint{
				{Date: d("2024-01-04"), Count: 1},
			},
		},
		{
			// No logs, no streak record, no category.
			HabitID:     uuid.New(),
			Name:        "c",
			Frequency:   "daily",
			TargetCount: 1,
			StartDate:   d("2024-01-01"),
		},
	}
	_, summary := BuildReport(habits, start, end, today)

	if summary.TotalHabits != 3 {
		t.Fatalf("TotalHabits=%d, want 3", summary.TotalHabits)
	}
	if summary.ActiveHabits != 2 {
		t.Fatalf("ActiveHabits=%d, want 2", summary.ActiveHabits)
	}
	if summary.AvgCurrentStreak != 2 { // (4+2+0)/3
		t.Fatalf("AvgCurrentStreak=%v, want 2", summary.AvgCurrentStreak)
	}
	if summary.MaxLongestStreak != 9 {
		t.Fatalf("MaxLongestStreak=%d, want 9", summary.MaxLongestStreak)
	}
	if summary.CategoryCount != 2 {
		t.Fatalf("CategoryCount=%d, want 2", summary.CategoryCount)
	}
	if summary.MostActiveCategory == nil || *summary.MostActiveCategory != "health" {
		t.Fatalf("MostActiveCategory=%v, want health", summary.MostActiveCategory)
	}

	// Daily average excludes the weekly habit: rates are a=2/9, c=0/9
	// over the 9-day span from start to today.
	want := (2.0/9.0 + 0.0) / 2
	if math.Abs(summary.AvgDailyRate-want) > 1e-9 {
		t.Fatalf("AvgDailyRate=%v, want %v", summary.AvgDailyRate, want)
	}
}

func TestBuildReportSummaryNoCategories(t *testing.T) {
	habits := []HabitInput{
		{HabitID: uuid.New(), Name: "solo", Frequency: "daily", TargetCount: 1, StartDate: d("2024-01-01")},
	}
	_, summary := BuildReport(habits, d("2024-01-01"), d("2024-01-10"), d("2024-01-10"))
	if summary.MostActiveCategory != nil {
		t.Fatalf("MostActiveCategory=%v, want nil", summary.MostActiveCategory)
	}
	if summary.CategoryCount != 0 {
		t.Fatalf("CategoryCount=%d, want 0", summary.CategoryCount)
	}
}

func TestBuildReportMostActiveCategoryTieFirstSeen(t *testing.T) {
	habits := []HabitInput{
		{
			HabitID: uuid.New(), Name: "x", Frequency: "daily", TargetCount: 1,
			StartDate: d("2024-01-01"), CategoryName: "zeta",
			Logs: []LogPoint{{Date: d("2024-01-02"), Count: 1}},
		},
		{
			HabitID: uuid.New(), Name: "y", Frequency: "daily", TargetCount: 1,
			StartDate: d("2024-01-01"), CategoryName: "alpha",
			Logs: []LogPoint{{Date: d("2024-01-03"), Count: 1}},
		},
	}
	_, summary := BuildReport(habits, d("2024-01-01"), d("2024-01-10"), d("2024-01-10"))
	if summary.MostActiveCategory == nil || *summary.MostActiveCategory != "zeta" {
		t.Fatalf("MostActiveCategory=%v, want zeta (first seen wins ties)", summary.MostActiveCategory)
	}
}

func TestBuildReportEmpty(t *testing.T) {
	rows, summary := BuildReport(nil, d("2024-01-01"), d("2024-01-10"), d("2024-01-10"))
	if len(rows) != 0 {
		t.Fatalf("rows=%d, want 0", len(rows))
	}
	if summary.TotalHabits != 0 || summary.AvgCurrentStreak != 0 || summary.AvgDailyRate != 0 {
		t.Fatalf("unexpected summary for empty input: %+v", summary)
	}
	if summary.MostActiveCategory != nil {
		t.Fatalf("MostActiveCategory=%v, want nil", summary.MostActiveCategory)
	}
}
