package services

import (
	"context"
	"fmt"
	"strings"
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

type CreateHabitInput struct {
	Name        string
	Description string
	Frequency   string
	TargetCount int
	StartDate   string
	EndDate     string
	CategoryID  *uuid.UUID
}

type UpdateHabitInput struct {
	Name        *string
	Description *string
	Frequency   *string
	TargetCount *int
	EndDate     *string
	IsActive    *bool
	CategoryID  *uuid.UUID
}

type HabitService interface {
	Create(ctx context.Context, in CreateHabitInput) (*types.Habit, error)
	List(ctx context.Context, categoryID *uuid.UUID, activeOnly bool) ([]*types.Habit, error)
	Get(ctx context.Context, habitID uuid.UUID) (*types.Habit, error)
	Update(ctx context.Context, habitID uuid.UUID, in UpdateHabitInput) (*types.Habit, error)
	Delete(ctx context.Context, habitID uuid.UUID) error
}

type habitService struct {
	db           *gorm.DB
	log          *logger.Logger
	habitRepo    repos.HabitRepo
	categoryRepo repos.CategoryRepo
	logRepo      repos.CompletionLogRepo
	streakRepo   repos.StreakRepo
	reportCache  *rediscache.ReportCache
}

func NewHabitService(
	db *gorm.DB,
	log *logger.Logger,
	habitRepo repos.HabitRepo,
	categoryRepo repos.CategoryRepo,
	logRepo repos.CompletionLogRepo,
	streakRepo repos.StreakRepo,
	reportCache *rediscache.ReportCache,
) HabitService {
	return &habitService{
		db:           db,
		log:          log.With("service", "HabitService"),
		habitRepo:    habitRepo,
		categoryRepo: categoryRepo,
		logRepo:      logRepo,
		streakRepo:   streakRepo,
		reportCache:  reportCache,
	}
}

func (hs *habitService) requireUser(ctx context.Context) (uuid.UUID, error) {
	userID := requestdata.UserID(ctx)
	if userID == uuid.Nil {
		return uuid.Nil, apperr.Validationf("no authenticated user in context")
	}
	return userID, nil
}

func (hs *habitService) checkCategory(ctx context.Context, userID uuid.UUID, categoryID *uuid.UUID) error {
	if categoryID == nil {
		return nil
	}
	category, err := hs.categoryRepo.GetByUserAndID(ctx, nil, userID, *categoryID)
	if err != nil {
		return fmt.Errorf("failed to load category: %w", err)
	}
	if category == nil {
		return apperr.NotFoundf("category not found")
	}
	return nil
}

func (hs *habitService) Create(ctx context.Context, in CreateHabitInput) (*types.Habit, error) {
	userID, err := hs.requireUser(ctx)
	if err != nil {
		return nil, err
	}

	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, apperr.Validationf("habit name is required")
	}
	if in.Frequency == "" {
		in.Frequency = types.FrequencyDaily
	}
	if !types.ValidFrequency(in.Frequency) {
		return nil, apperr.Validationf("frequency must be daily, weekly or monthly")
	}
	if in.TargetCount < 1 {
		return nil, apperr.Validationf("target count must be at least 1")
	}

	startDate, err := stats.ParseDate(in.StartDate)
	if err != nil {
		return nil, err
	}
	var endDate *time.Time
	if strings.TrimSpace(in.EndDate) != "" {
		ed, pErr := stats.ParseDate(in.EndDate)
		if pErr != nil {
			return nil, pErr
		}
		if ed.Before(startDate) {
			return nil, apperr.Validationf("end date precedes start date")
		}
		endDate = &ed
	}
	if cErr := hs.checkCategory(ctx, userID, in.CategoryID); cErr != nil {
		return nil, cErr
	}

	habit := &types.Habit{
		ID:          uuid.New(),
		UserID:      userID,
		CategoryID:  in.CategoryID,
		Name:        in.Name,
		Description: strings.TrimSpace(in.Description),
		Frequency:   in.Frequency,
		TargetCount: in.TargetCount,
		StartDate:   startDate,
		EndDate:     endDate,
		IsActive:    true,
	}
	if _, err := hs.habitRepo.Create(ctx, nil, []*types.Habit{habit}); err != nil {
		return nil, fmt.Errorf("failed to create habit: %w", err)
	}
	hs.reportCache.InvalidateUser(ctx, userID)
	return habit, nil
}

func (hs *habitService) List(ctx context.Context, categoryID *uuid.UUID, activeOnly bool) ([]*types.Habit, error) {
	userID, err := hs.requireUser(ctx)
	if err != nil {
		return nil, err
	}
	return hs.habitRepo.GetByUserID(ctx, nil, userID, repos.HabitFilter{CategoryID: categoryID, ActiveOnly: activeOnly})
}

func (hs *habitService) Get(ctx context.Context, habitID uuid.UUID) (*types.Habit, error) {
	userID, err := hs.requireUser(ctx)
	if err != nil {
		return nil, err
	}
	habit, err := hs.habitRepo.GetByUserAndID(ctx, nil, userID, habitID)
	if err != nil {
		return nil, fmt.Errorf("failed to load habit: %w", err)
	}
	if habit == nil {
		return nil, apperr.NotFoundf("habit not found")
	}
	return habit, nil
}

func (hs *habitService) Update(ctx context.Context, habitID uuid.UUID, in UpdateHabitInput) (*types.Habit, error) {
	userID, err := hs.requireUser(ctx)
	if err != nil {
		return nil, err
	}
	habit, err := hs.Get(ctx, habitID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apperr.Validationf("habit name cannot be empty")
		}
		habit.Name = name
	}
	if in.Description != nil {
		habit.Description = strings.TrimSpace(*in.Description)
	}
	if in.Frequency != nil {
		if !types.ValidFrequency(*in.Frequency) {
			return nil, apperr.Validationf("frequency must be daily, weekly or monthly")
		}
		// Frequency changes affect future score computations only; no
		// retroactive recalculation here.
		habit.Frequency = *in.Frequency
	}
	if in.TargetCount != nil {
		if *in.TargetCount < 1 {
			return nil, apperr.Validationf("target count must be at least 1")
		}
		habit.TargetCount = *in.TargetCount
	}
	if in.EndDate != nil {
		if strings.TrimSpace(*in.EndDate) == "" {
			habit.EndDate = nil
		} else {
			ed, pErr := stats.ParseDate(*in.EndDate)
			if pErr != nil {
				return nil, pErr
			}
			if ed.Before(habit.StartDate) {
				return nil, apperr.Validationf("end date precedes start date")
			}
			habit.EndDate = &ed
		}
	}
	if in.IsActive != nil {
		habit.IsActive = *in.IsActive
	}
	if in.CategoryID != nil {
		if cErr := hs.checkCategory(ctx, userID, in.CategoryID); cErr != nil {
			return nil, cErr
		}
		habit.CategoryID = in.CategoryID
	}

	if err := hs.habitRepo.Update(ctx, nil, habit); err != nil {
		return nil, fmt.Errorf("failed to update habit: %w", err)
	}
	hs.reportCache.InvalidateUser(ctx, userID)
	return habit, nil
}

// Delete removes a habit and cascades to its logs and streak row in one
// transaction.
func (hs *habitService) Delete(ctx context.Context, habitID uuid.UUID) error {
	userID, err := hs.requireUser(ctx)
	if err != nil {
		return err
	}
	habit, err := hs.Get(ctx, habitID)
	if err != nil {
		return err
	}
	txErr := hs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if dErr := hs.logRepo.DeleteByHabitIDs(ctx, tx, []uuid.UUID{habit.ID}); dErr != nil {
			return fmt.Errorf("failed to delete completion logs: %w", dErr)
		}
		if dErr := hs.streakRepo.DeleteByHabitIDs(ctx, tx, []uuid.UUID{habit.ID}); dErr != nil {
			return fmt.Errorf("failed to delete streak: %w", dErr)
		}
		if dErr := hs.habitRepo.DeleteByIDs(ctx, tx, []uuid.UUID{habit.ID}); dErr != nil {
			return fmt.Errorf("failed to delete habit: %w", dErr)
		}
		return nil
	})
	if txErr != nil {
		return txErr
	}
	hs.reportCache.InvalidateUser(ctx, userID)
	return nil
}
