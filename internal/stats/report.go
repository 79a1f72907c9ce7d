package stats

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/habitflow/habitflow-backend/internal/pkg/pointers"
)

// LogPoint is a completion log reduced to what the report math needs.
type LogPoint struct {
	Date  time.Time
	Count int
}

// HabitInput bundles one habit's data for report building. Logs must
// already be bounded to the report range; TrendRecent/TrendPrior are log
// counts in today-anchored 7-day windows, which the trend delta uses
// independently of the report range.
type HabitInput struct {
	HabitID       uuid.UUID
	Name          string
	Description   string
	Frequency     string
	TargetCount   int
	StartDate     time.Time
	EndDate       *time.Time
	CategoryName  string
	CategoryColor string
	CurrentStreak int
	LongestStreak int
	Logs          []LogPoint
	TrendRecent   int
	TrendPrior    int
}

type HabitReportRow struct {
	HabitID          uuid.UUID  `json:"habit_id"`
	Name             string     `json:"name"`
	Description      string     `json:"description"`
	Frequency        string     `json:"frequency"`
	TargetCount      int        `json:"target_count"`
	StartDate        time.Time  `json:"start_date"`
	EndDate          *time.Time `json:"end_date,omitempty"`
	CategoryName     string     `json:"category_name,omitempty"`
	CategoryColor    string     `json:"category_color,omitempty"`
	LogCount         int        `json:"log_count"`
	TotalCompletions int        `json:"total_completions"`
	AvgPerLog        float64    `json:"avg_per_log"`
	CurrentStreak    int        `json:"current_streak"`
	LongestStreak    int        `json:"longest_streak"`
	CompletionRate   float64    `json:"completion_rate"`
	DaysSinceLast    *int       `json:"days_since_last,omitempty"`
	RecentTrend      int        `json:"recent_trend"`
}

type ReportSummary struct {
	TotalHabits        int     `json:"total_habits"`
	ActiveHabits       int     `json:"active_habits"`
	AvgCurrentStreak   float64 `json:"avg_current_streak"`
	MaxLongestStreak   int     `json:"max_longest_streak"`
	AvgDailyRate       float64 `json:"avg_daily_completion_rate"`
	CategoryCount      int     `json:"category_count"`
	MostActiveCategory *string `json:"most_active_category,omitempty"`
}

// BuildReport computes per-habit rows and the summary rollup. Pure: today
// is a parameter so the wall-clock coupling of the completion-rate
// denominator and the trend windows stays testable.
func BuildReport(habits []HabitInput, startDate, endDate, today time.Time) ([]HabitReportRow, ReportSummary) {
	rows := make([]HabitReportRow, 0, len(habits))

	var (
		activeCount   int
		streakSum     int
		maxLongest    int
		dailyRateSum  float64
		dailyCount    int
		categories    []string
		categoryLogs  = map[string]int{}
		distinctCats  = map[string]struct{}{}
	)

	for _, h := range habits {
		row := HabitReportRow{
			HabitID:       h.HabitID,
			Name:          h.Name,
			Description:   h.Description,
			Frequency:     h.Frequency,
			TargetCount:   h.TargetCount,
			StartDate:     h.StartDate,
			EndDate:       h.EndDate,
			CategoryName:  h.CategoryName,
			CategoryColor: h.CategoryColor,
			CurrentStreak: h.CurrentStreak,
			LongestStreak: h.LongestStreak,
			RecentTrend:   h.TrendRecent - h.TrendPrior,
		}

		var lastLog *time.Time
		for _, lp := range h.Logs {
			row.LogCount++
			row.TotalCompletions += lp.Count
			d := Day(lp.Date)
			if lastLog == nil || d.After(*lastLog) {
				lastLog = pointers.Ptr(d)
			}
		}
		if row.LogCount > 0 {
			row.AvgPerLog = float64(row.TotalCompletions) / float64(row.LogCount)
		}
		if lastLog != nil {
			row.DaysSinceLast = pointers.Ptr(DaysBetween(*lastLog, today))
		}

		row.CompletionRate = completionRate(h, row.TotalCompletions, startDate, today)

		if row.LogCount > 0 {
			activeCount++
		}
		streakSum += h.CurrentStreak
		if h.LongestStreak > maxLongest {
			maxLongest = h.LongestStreak
		}
		if h.Frequency == "daily" {
			dailyRateSum += row.CompletionRate
			dailyCount++
		}
		if h.CategoryName != "" {
			if _, ok := distinctCats[h.CategoryName]; !ok {
				distinctCats[h.CategoryName] = struct{}{}
				categories = append(categories, h.CategoryName)
			}
			categoryLogs[h.CategoryName] += row.LogCount
		}

		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].CompletionRate != rows[j].CompletionRate {
			return rows[i].CompletionRate > rows[j].CompletionRate
		}
		return rows[i].Name < rows[j].Name
	})

	summary := ReportSummary{
		TotalHabits:      len(habits),
		ActiveHabits:     activeCount,
		MaxLongestStreak: maxLongest,
		CategoryCount:    len(categories),
	}
	if len(habits) > 0 {
		summary.AvgCurrentStreak = float64(streakSum) / float64(len(habits))
	}
	if dailyCount > 0 {
		summary.AvgDailyRate = dailyRateSum / float64(dailyCount)
	}
	// First-seen order breaks ties, so a plain max scan over the ordered
	// category list is enough.
	var best string
	bestCount := -1
	for _, name := range categories {
		if categoryLogs[name] > bestCount {
			best = name
			bestCount = categoryLogs[name]
		}
	}
	if bestCount >= 0 {
		summary.MostActiveCategory = &best
	}

	return rows, summary
}

// completionRate normalizes total logged completions by the habit's
// expected volume over its active overlap with now. The upper bound is
// today (or the habit's end date when earlier), not the report's end date.
func completionRate(h HabitInput, totalCompletions int, startDate, today time.Time) float64 {
	from := Day(h.StartDate)
	if Day(startDate).After(from) {
		from = Day(startDate)
	}
	to := Day(today)
	if h.EndDate != nil && Day(*h.EndDate).Before(to) {
		to = Day(*h.EndDate)
	}

	spanDays := DaysBetween(from, to)
	if spanDays < 1 {
		spanDays = 1
	}

	var periods int
	switch h.Frequency {
	case "weekly":
		periods = spanDays / 7
	case "monthly":
		periods = spanDays / 30
	default:
		periods = spanDays
	}
	if periods < 1 {
		periods = 1
	}

	target := h.TargetCount
	if target < 1 {
		target = 1
	}

	return float64(totalCompletions) / float64(periods*target)
}
