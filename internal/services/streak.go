package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/habitflow/habitflow-backend/internal/logger"
	"github.com/habitflow/habitflow-backend/internal/pkg/apperr"
	"github.com/habitflow/habitflow-backend/internal/repos"
	"github.com/habitflow/habitflow-backend/internal/requestdata"
	"github.com/habitflow/habitflow-backend/internal/stats"
	"github.com/habitflow/habitflow-backend/internal/types"
)

// RecalcFailure reports one habit whose recalculation failed inside a
// batch. The batch itself carries on.
type RecalcFailure struct {
	HabitID uuid.UUID `json:"habit_id"`
	Err     string    `json:"error"`
}

type StreakService interface {
	GetStreak(ctx context.Context, habitID uuid.UUID) (*types.Streak, error)

	// RecalculateOne rebuilds a habit's streak from its full completion
	// history and upserts the row. No-op when the habit has no logs.
	// Runs inside tx when given one.
	RecalculateOne(ctx context.Context, tx *gorm.DB, habitID uuid.UUID) (*types.Streak, error)

	// RecalculateAll recalculates every habit the user owns, in parallel,
	// isolating per-habit failures.
	RecalculateAll(ctx context.Context, userID uuid.UUID) ([]RecalcFailure, error)

	// RecalculateBatchTx recalculates the given habits inside tx, each in
	// its own savepoint so one failure cannot poison the rest of the
	// transaction.
	RecalculateBatchTx(ctx context.Context, tx *gorm.DB, habitIDs []uuid.UUID) []RecalcFailure
}

type streakService struct {
	db         *gorm.DB
	log        *logger.Logger
	habitRepo  repos.HabitRepo
	logRepo    repos.CompletionLogRepo
	streakRepo repos.StreakRepo
}

func NewStreakService(
	db *gorm.DB,
	log *logger.Logger,
	habitRepo repos.HabitRepo,
	logRepo repos.CompletionLogRepo,
	streakRepo repos.StreakRepo,
) StreakService {
	return &streakService{
		db:         db,
		log:        log.With("service", "StreakService"),
		habitRepo:  habitRepo,
		logRepo:    logRepo,
		streakRepo: streakRepo,
	}
}

func (ss *streakService) GetStreak(ctx context.Context, habitID uuid.UUID) (*types.Streak, error) {
	userID := requestdata.UserID(ctx)
	habit, err := ss.habitRepo.GetByUserAndID(ctx, nil, userID, habitID)
	if err != nil {
		return nil, fmt.Errorf("failed to load habit: %w", err)
	}
	if habit == nil {
		return nil, apperr.NotFoundf("habit not found")
	}
	streak, err := ss.streakRepo.GetByHabitID(ctx, nil, habitID)
	if err != nil {
		return nil, fmt.Errorf("failed to load streak: %w", err)
	}
	if streak == nil {
		// Never logged: synthesize the zero result instead of erroring.
		return &types.Streak{HabitID: habitID}, nil
	}
	return streak, nil
}

func (ss *streakService) RecalculateOne(ctx context.Context, tx *gorm.DB, habitID uuid.UUID) (*types.Streak, error) {
	if habitID == uuid.Nil {
		return nil, apperr.Validationf("habit id is required")
	}

	dates, err := ss.logRepo.GetDistinctDates(ctx, tx, habitID)
	if err != nil {
		return nil, apperr.Computation("failed to load completion dates", err)
	}
	if len(dates) == 0 {
		return nil, nil
	}

	result := stats.ComputeStreak(dates)

	previous, err := ss.streakRepo.GetByHabitID(ctx, tx, habitID)
	if err != nil {
		return nil, apperr.Computation("failed to load previous streak", err)
	}

	row := &types.Streak{
		ID:             uuid.New(),
		HabitID:        habitID,
		CurrentStreak:  result.Current,
		LongestStreak:  result.Longest,
		LastLogDate:    result.LastDate,
		RecalculatedAt: time.Now().UTC(),
	}
	if previous != nil {
		row.ID = previous.ID
		row.CreatedAt = previous.CreatedAt
		// Historical maxima are never reduced, even if logs were deleted.
		if previous.LongestStreak > row.LongestStreak {
			row.LongestStreak = previous.LongestStreak
		}
	}

	if err := ss.streakRepo.Upsert(ctx, tx, row); err != nil {
		return nil, apperr.Computation("failed to upsert streak", err)
	}
	return row, nil
}

func (ss *streakService) RecalculateAll(ctx context.Context, userID uuid.UUID) ([]RecalcFailure, error) {
	if userID == uuid.Nil {
		return nil, apperr.Validationf("user id is required")
	}
	habits, err := ss.habitRepo.GetByUserID(ctx, nil, userID, repos.HabitFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate habits: %w", err)
	}

	var (
		mu       sync.Mutex
		failures []RecalcFailure
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, habit := range habits {
		habitID := habit.ID
		g.Go(func() error {
			if _, rErr := ss.RecalculateOne(gctx, nil, habitID); rErr != nil {
				ss.log.Warn("Streak recalculation failed", "habit_id", habitID, "error", rErr)
				mu.Lock()
				failures = append(failures, RecalcFailure{HabitID: habitID, Err: rErr.Error()})
				mu.Unlock()
			}
			// Failures are collected, not returned: one bad habit must not
			// cancel the rest of the batch.
			return nil
		})
	}
	_ = g.Wait()
	return failures, nil
}

func (ss *streakService) RecalculateBatchTx(ctx context.Context, tx *gorm.DB, habitIDs []uuid.UUID) []RecalcFailure {
	var failures []RecalcFailure
	for _, habitID := range habitIDs {
		habitID := habitID
		err := tx.Transaction(func(inner *gorm.DB) error {
			_, rErr := ss.RecalculateOne(ctx, inner, habitID)
			return rErr
		})
		if err != nil {
			ss.log.Warn("Streak recalculation failed in report pass", "habit_id", habitID, "error", err)
			failures = append(failures, RecalcFailure{HabitID: habitID, Err: err.Error()})
		}
	}
	return failures
}
