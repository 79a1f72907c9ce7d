package stats

import (
	"time"

	"github.com/habitflow/habitflow-backend/internal/pkg/apperr"
	"github.com/habitflow/habitflow-backend/internal/types"
)

// ConsistencyScore returns the expected-vs-actual completion ratio for a
// habit over an inclusive date range, as a value in [0,100]. The habit's
// target count does not enter the expectation; only cadence does.
// Unrecognized frequencies score like daily.
func ConsistencyScore(frequency string, startDate, endDate time.Time, completedDayCount int) (float64, error) {
	if Day(endDate).Before(Day(startDate)) {
		return 0, apperr.Validationf("end date %s precedes start date %s",
			endDate.Format(DateLayout), startDate.Format(DateLayout))
	}

	totalDays := DaysBetween(startDate, endDate) + 1

	var expected int
	switch frequency {
	case types.FrequencyWeekly:
		expected = ceilDiv(totalDays, 7)
	case types.FrequencyMonthly:
		expected = ceilDiv(totalDays, 30)
	default:
		expected = totalDays
	}
	if expected == 0 {
		return 0, nil
	}

	score := float64(completedDayCount) / float64(expected) * 100
	if score > 100 {
		score = 100
	}
	return score, nil
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
