package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/habitflow/habitflow-backend/internal/logger"
	"github.com/habitflow/habitflow-backend/internal/types"
)

// HabitFilter narrows owner-scoped habit queries. Predicates are bound as
// query parameters, never interpolated into SQL text.
type HabitFilter struct {
	CategoryID *uuid.UUID
	ActiveOnly bool
}

type HabitRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.Habit) ([]*types.Habit, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Habit, error)
	GetByUserAndID(ctx context.Context, tx *gorm.DB, userID, id uuid.UUID) (*types.Habit, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, filter HabitFilter) ([]*types.Habit, error)
	Update(ctx context.Context, tx *gorm.DB, row *types.Habit) error
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type habitRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewHabitRepo(db *gorm.DB, baseLog *logger.Logger) HabitRepo {
	return &habitRepo{db: db, log: baseLog.With("repo", "HabitRepo")}
}

func (r *habitRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Habit) ([]*types.Habit, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return []*types.Habit{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *habitRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Habit, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Habit
	if len(ids) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *habitRepo) GetByUserAndID(ctx context.Context, tx *gorm.DB, userID, id uuid.UUID) (*types.Habit, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if userID == uuid.Nil || id == uuid.Nil {
		return nil, nil
	}
	var results []*types.Habit
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *habitRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, filter HabitFilter) ([]*types.Habit, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Habit
	if userID == uuid.Nil {
		return results, nil
	}
	q := transaction.WithContext(ctx).Where("user_id = ?", userID)
	if filter.CategoryID != nil {
		q = q.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Order("name ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *habitRepo) Update(ctx context.Context, tx *gorm.DB, row *types.Habit) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if row == nil {
		return nil
	}
	return transaction.WithContext(ctx).Save(row).Error
}

func (r *habitRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.Habit{}).Error
}
