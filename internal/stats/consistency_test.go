package stats

import (
	"errors"
	"testing"

	"github.com/habitflow/habitflow-backend/internal/pkg/apperr"
)

func TestConsistencyScore(t *testing.T) {
	cases := []struct {
		name      string
		frequency string
		start     string
		end       string
		completed int
		want      float64
	}{
		{
			name:      "daily_perfect",
			frequency: "daily",
			start:     "2024-01-01",
			end:       "2024-01-10",
			completed: 10,
			want:      100,
		},
		{
			name:      "daily_overlogged_clamped",
			frequency: "daily",
			start:     "2024-01-01",
			end:       "2024-01-10",
			completed: 15,
			want:      100,
		},
		{
			name:      "daily_half",
			frequency: "daily",
			start:     "2024-01-01",
			end:       "2024-01-10",
			completed: 5,
			want:      50,
		},
		{
			name:      "weekly_two_weeks_one_done",
			frequency: "weekly",
			start:     "2024-01-01",
			end:       "2024-01-14",
			completed: 1,
			want:      50,
		},
		{
			name:      "weekly_partial_week_rounds_up",
			frequency: "weekly",
			start:     "2024-01-01",
			end:       "2024-01-08", // 8 days -> ceil(8/7)=2 expected
			completed: 2,
			want:      100,
		},
		{
			name:      "monthly_45_days",
			frequency: "monthly",
			start:     "2024-01-01",
			end:       "2024-02-14", // 45 days -> ceil(45/30)=2 expected
			completed: 1,
			want:      50,
		},
		{
			name:      "unknown_frequency_falls_back_to_daily",
			frequency: "hourly",
			start:     "2024-01-01",
			end:       "2024-01-02",
			completed: 1,
			want:      50,
		},
		{
			name:      "single_day_range",
			frequency: "daily",
			start:     "2024-01-01",
			end:       "2024-01-01",
			completed: 0,
			want:      0,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ConsistencyScore(tc.frequency, d(tc.start), d(tc.end), tc.completed)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("score=%v, want %v", got, tc.want)
			}
		})
	}
}

func TestConsistencyScoreInvalidRange(t *testing.T) {
	_, err := ConsistencyScore("daily", d("2024-02-01"), d("2024-01-01"), 3)
	if err == nil {
		t.Fatal("expected error for inverted range")
	}
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
