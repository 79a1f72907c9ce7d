package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/habitflow/habitflow-backend/internal/logger"
	"github.com/habitflow/habitflow-backend/internal/pkg/apperr"
	"github.com/habitflow/habitflow-backend/internal/repos"
	"github.com/habitflow/habitflow-backend/internal/requestdata"
	"github.com/habitflow/habitflow-backend/internal/stats"
	"github.com/habitflow/habitflow-backend/internal/types"
)

type CreateGoalInput struct {
	Name        string
	HabitID     *uuid.UUID
	TargetValue int
	Deadline    string
}

type UpdateGoalInput struct {
	Name         *string
	TargetValue  *int
	CurrentValue *int
	Deadline     *string
	Achieved     *bool
}

type GoalService interface {
	Create(ctx context.Context, in CreateGoalInput) (*types.Goal, error)
	List(ctx context.Context) ([]*types.Goal, error)
	Update(ctx context.Context, goalID uuid.UUID, in UpdateGoalInput) (*types.Goal, error)
	Delete(ctx context.Context, goalID uuid.UUID) error
}

type goalService struct {
	db        *gorm.DB
	log       *logger.Logger
	goalRepo  repos.GoalRepo
	habitRepo repos.HabitRepo
}

func NewGoalService(db *gorm.DB, log *logger.Logger, goalRepo repos.GoalRepo, habitRepo repos.HabitRepo) GoalService {
	return &goalService{db: db, log: log.With("service", "GoalService"), goalRepo: goalRepo, habitRepo: habitRepo}
}

func (gs *goalService) Create(ctx context.Context, in CreateGoalInput) (*types.Goal, error) {
	userID := requestdata.UserID(ctx)
	if userID == uuid.Nil {
		return nil, apperr.Validationf("no authenticated user in context")
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, apperr.Validationf("goal name is required")
	}
	if in.TargetValue < 1 {
		return nil, apperr.Validationf("target value must be at least 1")
	}
	if in.HabitID != nil {
		habit, err := gs.habitRepo.GetByUserAndID(ctx, nil, userID, *in.HabitID)
		if err != nil {
			return nil, fmt.Errorf("failed to load habit: %w", err)
		}
		if habit == nil {
			return nil, apperr.NotFoundf("habit not found")
		}
	}
	var deadline *time.Time
	if strings.TrimSpace(in.Deadline) != "" {
		d, err := stats.ParseDate(in.Deadline)
		if err != nil {
			return nil, err
		}
		deadline = &d
	}

	goal := &types.Goal{
		ID:          uuid.New(),
		UserID:      userID,
		HabitID:     in.HabitID,
		Name:        in.Name,
		TargetValue: in.TargetValue,
		Deadline:    deadline,
	}
	if _, err := gs.goalRepo.Create(ctx, nil, []*types.Goal{goal}); err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}
	return goal, nil
}

func (gs *goalService) List(ctx context.Context) ([]*types.Goal, error) {
	return gs.goalRepo.GetByUserID(ctx, nil, requestdata.UserID(ctx))
}

func (gs *goalService) get(ctx context.Context, goalID uuid.UUID) (*types.Goal, error) {
	goal, err := gs.goalRepo.GetByUserAndID(ctx, nil, requestdata.UserID(ctx), goalID)
	if err != nil {
		return nil, fmt.Errorf("failed to load goal: %w", err)
	}
	if goal == nil {
		return nil, apperr.NotFoundf("goal not found")
	}
	return goal, nil
}

func (gs *goalService) Update(ctx context.Context, goalID uuid.UUID, in UpdateGoalInput) (*types.Goal, error) {
	goal, err := gs.get(ctx, goalID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		n := strings.TrimSpace(*in.Name)
		if n == "" {
			return nil, apperr.Validationf("goal name cannot be empty")
		}
		goal.Name = n
	}
	if in.TargetValue != nil {
		if *in.TargetValue < 1 {
			return nil, apperr.Validationf("target value must be at least 1")
		}
		goal.TargetValue = *in.TargetValue
	}
	if in.CurrentValue != nil {
		if *in.CurrentValue < 0 {
			return nil, apperr.Validationf("current value cannot be negative")
		}
		goal.CurrentValue = *in.CurrentValue
	}
	if in.Deadline != nil {
		if strings.TrimSpace(*in.Deadline) == "" {
			goal.Deadline = nil
		} else {
			d, pErr := stats.ParseDate(*in.Deadline)
			if pErr != nil {
				return nil, pErr
			}
			goal.Deadline = &d
		}
	}
	if in.Achieved != nil {
		goal.Achieved = *in.Achieved
	}
	if goal.CurrentValue >= goal.TargetValue {
		goal.Achieved = true
	}
	if err := gs.goalRepo.Update(ctx, nil, goal); err != nil {
		return nil, fmt.Errorf("failed to update goal: %w", err)
	}
	return goal, nil
}

func (gs *goalService) Delete(ctx context.Context, goalID uuid.UUID) error {
	goal, err := gs.get(ctx, goalID)
	if err != nil {
		return err
	}
	return gs.goalRepo.DeleteByIDs(ctx, nil, []uuid.UUID{goal.ID})
}
