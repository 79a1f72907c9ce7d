package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	rediscache "github.com/habitflow/habitflow-backend/internal/clients/redis"
	"github.com/habitflow/habitflow-backend/internal/logger"
	"github.com/habitflow/habitflow-backend/internal/pkg/apperr"
	"github.com/habitflow/habitflow-backend/internal/repos"
	"github.com/habitflow/habitflow-backend/internal/requestdata"
	"github.com/habitflow/habitflow-backend/internal/stats"
	"github.com/habitflow/habitflow-backend/internal/types"
)

type LogCompletionInput struct {
	HabitID uuid.UUID
	Date    string
	Count   int
	Note    string
}

type CompletionService interface {
	// LogCompletion appends a completion record and recalculates the
	// habit's streak in the same transaction: readers never observe one
	// without the other.
	LogCompletion(ctx context.Context, in LogCompletionInput) (*types.CompletionLog, error)
	ListLogs(ctx context.Context, habitID uuid.UUID, start, end string) ([]*types.CompletionLog, error)
	ConsistencyScore(ctx context.Context, habitID uuid.UUID, start, end string) (float64, error)
}

type completionService struct {
	db            *gorm.DB
	log           *logger.Logger
	habitRepo     repos.HabitRepo
	logRepo       repos.CompletionLogRepo
	streakService StreakService
	reportCache   *rediscache.ReportCache
}

func NewCompletionService(
	db *gorm.DB,
	log *logger.Logger,
	habitRepo repos.HabitRepo,
	logRepo repos.CompletionLogRepo,
	streakService StreakService,
	reportCache *rediscache.ReportCache,
) CompletionService {
	return &completionService{
		db:            db,
		log:           log.With("service", "CompletionService"),
		habitRepo:     habitRepo,
		logRepo:       logRepo,
		streakService: streakService,
		reportCache:   reportCache,
	}
}

func (cs *completionService) ownedHabit(ctx context.Context, habitID uuid.UUID) (*types.Habit, error) {
	userID := requestdata.UserID(ctx)
	habit, err := cs.habitRepo.GetByUserAndID(ctx, nil, userID, habitID)
	if err != nil {
		return nil, fmt.Errorf("failed to load habit: %w", err)
	}
	if habit == nil {
		return nil, apperr.NotFoundf("habit not found")
	}
	return habit, nil
}

func (cs *completionService) LogCompletion(ctx context.Context, in LogCompletionInput) (*types.CompletionLog, error) {
	if in.Count < 1 {
		return nil, apperr.Validationf("completed count must be at least 1")
	}
	logDate, err := stats.ParseDate(in.Date)
	if err != nil {
		return nil, err
	}
	habit, err := cs.ownedHabit(ctx, in.HabitID)
	if err != nil {
		return nil, err
	}

	row := &types.CompletionLog{
		ID:             uuid.New(),
		HabitID:        habit.ID,
		LogDate:        logDate,
		CompletedCount: in.Count,
		Note:           in.Note,
	}
	txErr := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, cErr := cs.logRepo.Create(ctx, tx, []*types.CompletionLog{row}); cErr != nil {
			return fmt.Errorf("failed to create completion log: %w", cErr)
		}
		if _, rErr := cs.streakService.RecalculateOne(ctx, tx, habit.ID); rErr != nil {
			return rErr
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	cs.reportCache.InvalidateUser(ctx, habit.UserID)
	return row, nil
}

func (cs *completionService) ListLogs(ctx context.Context, habitID uuid.UUID, start, end string) ([]*types.CompletionLog, error) {
	habit, err := cs.ownedHabit(ctx, habitID)
	if err != nil {
		return nil, err
	}
	startDate, err := stats.ParseDate(start)
	if err != nil {
		return nil, err
	}
	endDate, err := stats.ParseDate(end)
	if err != nil {
		return nil, err
	}
	if endDate.Before(startDate) {
		return nil, apperr.Validationf("end date precedes start date")
	}
	return cs.logRepo.GetByHabitIDsInRange(ctx, nil, []uuid.UUID{habit.ID}, startDate, stats.EndOfDay(endDate))
}

func (cs *completionService) ConsistencyScore(ctx context.Context, habitID uuid.UUID, start, end string) (float64, error) {
	habit, err := cs.ownedHabit(ctx, habitID)
	if err != nil {
		return 0, err
	}
	startDate, err := stats.ParseDate(start)
	if err != nil {
		return 0, err
	}
	endDate, err := stats.ParseDate(end)
	if err != nil {
		return 0, err
	}

	dates, err := cs.logRepo.GetDistinctDatesInRange(ctx, nil, habit.ID, startDate, stats.EndOfDay(endDate))
	if err != nil {
		return 0, apperr.Computation("failed to load completion dates", err)
	}
	// Distinct SQL dates can still collapse further once normalized to
	// calendar days, so count in Go rather than trusting the row count.
	seen := map[time.Time]struct{}{}
	for _, d := range dates {
		seen[stats.Day(d)] = struct{}{}
	}
	return stats.ConsistencyScore(habit.Frequency, startDate, endDate, len(seen))
}
