package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/habitflow/habitflow-backend/internal/logger"
	"github.com/habitflow/habitflow-backend/internal/types"
)

type StreakRepo interface {
	GetByHabitID(ctx context.Context, tx *gorm.DB, habitID uuid.UUID) (*types.Streak, error)
	GetByHabitIDs(ctx context.Context, tx *gorm.DB, habitIDs []uuid.UUID) ([]*types.Streak, error)
	Upsert(ctx context.Context, tx *gorm.DB, row *types.Streak) error
	DeleteByHabitIDs(ctx context.Context, tx *gorm.DB, habitIDs []uuid.UUID) error
}

type streakRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStreakRepo(db *gorm.DB, baseLog *logger.Logger) StreakRepo {
	return &streakRepo{db: db, log: baseLog.With("repo", "StreakRepo")}
}

func (r *streakRepo) GetByHabitID(ctx context.Context, tx *gorm.DB, habitID uuid.UUID) (*types.Streak, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if habitID == uuid.Nil {
		return nil, nil
	}
	var results []*types.Streak
	if err := transaction.WithContext(ctx).
		Where("habit_id = ?", habitID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *streakRepo) GetByHabitIDs(ctx context.Context, tx *gorm.DB, habitIDs []uuid.UUID) ([]*types.Streak, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Streak
	if len(habitIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("habit_id IN ?", habitIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// Upsert is an atomic insert-or-update keyed by habit_id, so concurrent
// writers cannot produce duplicate streak rows.
func (r *streakRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.Streak) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if row == nil {
		return nil
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "habit_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"current_streak", "longest_streak", "last_log_date", "recalculated_at", "updated_at",
			}),
		}).
		Create(row).Error
}

func (r *streakRepo) DeleteByHabitIDs(ctx context.Context, tx *gorm.DB, habitIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(habitIDs) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("habit_id IN ?", habitIDs).
		Delete(&types.Streak{}).Error
}
