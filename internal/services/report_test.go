package services

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/habitflow/habitflow-backend/internal/pkg/apperr"
	"github.com/habitflow/habitflow-backend/internal/types"
)

func newReportService(env *testEnv, today string, t *testing.T) ReportService {
	t.Helper()
	ss := env.streakService()
	rs := NewReportService(env.db, env.log, env.habitRepo, env.categoryRepo, env.logRepo, env.streakRepo, ss, nil)
	fixed := date(t, today)
	rs.(*reportService).now = func() time.Time { return fixed }
	return rs
}

func TestGenerateReport(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t)

	category := &types.Category{ID: uuid.New(), UserID: user.ID, Name: "health", Color: "#00AA00"}
	if _, err := env.categoryRepo.Create(authedCtx(user.ID), nil, []*types.Category{category}); err != nil {
		t.Fatalf("seeding category: %v", err)
	}

	strong := env.seedHabit(t, user.ID, "walk", "daily", "2024-01-01")
	strong.CategoryID = &category.ID
	if err := env.habitRepo.Update(authedCtx(user.ID), nil, strong); err != nil {
		t.Fatalf("attaching category: %v", err)
	}
	weak := env.seedHabit(t, user.ID, "write", "daily", "2024-01-01")

	// Nine logged days out of nine for "walk", one for "write".
	for i := 1; i <= 9; i++ {
		env.seedLog(t, strong.ID, time.Date(2024, 1, i, 0, 0, 0, 0, time.UTC).Format("2006-01-02"), 1)
	}
	env.seedLog(t, weak.ID, "2024-01-03", 1)

	rs := newReportService(env, "2024-01-10", t)
	report, err := rs.GenerateReport(authedCtx(user.ID), "2024-01-01", "2024-01-10", nil)
	if err != nil {
		t.Fatalf("GenerateReport: %v", err)
	}

	if len(report.Habits) != 2 {
		t.Fatalf("habit rows = %d, want 2", len(report.Habits))
	}
	if report.Habits[0].Name != "walk" || report.Habits[1].Name != "write" {
		t.Fatalf("order = [%s %s], want walk first by completion rate", report.Habits[0].Name, report.Habits[1].Name)
	}
	if len(report.RecalcFailures) != 0 {
		t.Fatalf("recalc failures = %+v, want none", report.RecalcFailures)
	}

	walk := report.Habits[0]
	// The current streak anchors at the last logged day, so the run of
	// nine counts in full even though nothing was logged today.
	if walk.CurrentStreak != 9 || walk.LongestStreak != 9 {
		t.Fatalf("walk streak = %d/%d, want 9/9", walk.CurrentStreak, walk.LongestStreak)
	}
	if walk.CategoryName != "health" || walk.CategoryColor != "#00AA00" {
		t.Fatalf("walk category = %q/%q", walk.CategoryName, walk.CategoryColor)
	}
	if walk.CompletionRate != 1.0 {
		t.Fatalf("walk CompletionRate = %v, want 1.0", walk.CompletionRate)
	}

	sum := report.Summary
	if sum.TotalHabits != 2 || sum.ActiveHabits != 2 {
		t.Fatalf("summary habits = %d/%d, want 2/2", sum.TotalHabits, sum.ActiveHabits)
	}
	if sum.MaxLongestStreak != 9 {
		t.Fatalf("MaxLongestStreak = %d, want 9", sum.MaxLongestStreak)
	}
	if sum.CategoryCount != 1 || sum.MostActiveCategory == nil || *sum.MostActiveCategory != "health" {
		t.Fatalf("category summary = %d/%v", sum.CategoryCount, sum.MostActiveCategory)
	}

	// The report pass must have persisted fresh streak rows.
	stored, sErr := env.streakRepo.GetByHabitID(authedCtx(user.ID), nil, strong.ID)
	if sErr != nil || stored == nil {
		t.Fatalf("streak not persisted by report pass: %v %v", stored, sErr)
	}
	if stored.LongestStreak != 9 {
		t.Fatalf("persisted LongestStreak = %d, want 9", stored.LongestStreak)
	}
}

func TestGenerateReportCurrentStreakAnchorsAtLastLog(t *testing.T) {
	// Current streak anchors at the last logged date, so a run ending two
	// days before today still reports its full length.
	env := newTestEnv(t)
	user := env.seedUser(t)
	habit := env.seedHabit(t, user.ID, "swim", "daily", "2024-01-01")
	for _, day := range []string{"2024-01-05", "2024-01-06", "2024-01-07"} {
		env.seedLog(t, habit.ID, day, 1)
	}

	rs := newReportService(env, "2024-01-09", t)
	report, err := rs.GenerateReport(authedCtx(user.ID), "2024-01-01", "2024-01-09", nil)
	if err != nil {
		t.Fatalf("GenerateReport: %v", err)
	}
	if report.Habits[0].CurrentStreak != 3 {
		t.Fatalf("CurrentStreak = %d, want 3 anchored at the last log", report.Habits[0].CurrentStreak)
	}
}

func TestGenerateReportCategoryFilter(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t)

	category := &types.Category{ID: uuid.New(), UserID: user.ID, Name: "mind"}
	if _, err := env.categoryRepo.Create(authedCtx(user.ID), nil, []*types.Category{category}); err != nil {
		t.Fatalf("seeding category: %v", err)
	}
	inCat := env.seedHabit(t, user.ID, "meditate", "daily", "2024-01-01")
	inCat.CategoryID = &category.ID
	if err := env.habitRepo.Update(authedCtx(user.ID), nil, inCat); err != nil {
		t.Fatalf("attaching category: %v", err)
	}
	env.seedHabit(t, user.ID, "outside", "daily", "2024-01-01")

	rs := newReportService(env, "2024-01-10", t)
	report, err := rs.GenerateReport(authedCtx(user.ID), "2024-01-01", "2024-01-10", &category.ID)
	if err != nil {
		t.Fatalf("GenerateReport: %v", err)
	}
	if len(report.Habits) != 1 || report.Habits[0].Name != "meditate" {
		t.Fatalf("filtered rows = %+v, want only the categorized habit", report.Habits)
	}
}

func TestGenerateReportUnknownCategory(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t)
	env.seedHabit(t, user.ID, "any", "daily", "2024-01-01")

	rs := newReportService(env, "2024-01-10", t)
	missing := uuid.New()
	if _, err := rs.GenerateReport(authedCtx(user.ID), "2024-01-01", "2024-01-10", &missing); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want not_found", err)
	}
}

func TestGenerateReportInvalidRange(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t)

	rs := newReportService(env, "2024-01-10", t)
	if _, err := rs.GenerateReport(authedCtx(user.ID), "2024-01-10", "2024-01-01", nil); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("err = %v, want validation", err)
	}
	if _, err := rs.GenerateReport(authedCtx(user.ID), "not-a-date", "2024-01-10", nil); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("err = %v, want validation", err)
	}
}

func TestGenerateReportEmptyUser(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t)

	rs := newReportService(env, "2024-01-10", t)
	report, err := rs.GenerateReport(authedCtx(user.ID), "2024-01-01", "2024-01-10", nil)
	if err != nil {
		t.Fatalf("GenerateReport: %v", err)
	}
	if len(report.Habits) != 0 || report.Summary.TotalHabits != 0 {
		t.Fatalf("empty user report = %+v", report)
	}
}
