package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/habitflow/habitflow-backend/internal/logger"
	"github.com/habitflow/habitflow-backend/internal/types"
)

type CompletionLogRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.CompletionLog) ([]*types.CompletionLog, error)
	GetByHabitID(ctx context.Context, tx *gorm.DB, habitID uuid.UUID) ([]*types.CompletionLog, error)
	GetByHabitIDsInRange(ctx context.Context, tx *gorm.DB, habitIDs []uuid.UUID, from, to time.Time) ([]*types.CompletionLog, error)
	GetDistinctDates(ctx context.Context, tx *gorm.DB, habitID uuid.UUID) ([]time.Time, error)
	GetDistinctDatesInRange(ctx context.Context, tx *gorm.DB, habitID uuid.UUID, from, to time.Time) ([]time.Time, error)
	DeleteByHabitIDs(ctx context.Context, tx *gorm.DB, habitIDs []uuid.UUID) error
}

type completionLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCompletionLogRepo(db *gorm.DB, baseLog *logger.Logger) CompletionLogRepo {
	return &completionLogRepo{db: db, log: baseLog.With("repo", "CompletionLogRepo")}
}

func (r *completionLogRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.CompletionLog) ([]*types.CompletionLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return []*types.CompletionLog{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *completionLogRepo) GetByHabitID(ctx context.Context, tx *gorm.DB, habitID uuid.UUID) ([]*types.CompletionLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.CompletionLog
	if habitID == uuid.Nil {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("habit_id = ?", habitID).
		Order("log_date ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *completionLogRepo) GetByHabitIDsInRange(ctx context.Context, tx *gorm.DB, habitIDs []uuid.UUID, from, to time.Time) ([]*types.CompletionLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.CompletionLog
	if len(habitIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("habit_id IN ? AND log_date >= ? AND log_date <= ?", habitIDs, from, to).
		Order("log_date ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *completionLogRepo) GetDistinctDates(ctx context.Context, tx *gorm.DB, habitID uuid.UUID) ([]time.Time, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []time.Time
	if habitID == uuid.Nil {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Model(&types.CompletionLog{}).
		Where("habit_id = ?", habitID).
		Distinct("log_date").
		Order("log_date ASC").
		Pluck("log_date", &results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *completionLogRepo) GetDistinctDatesInRange(ctx context.Context, tx *gorm.DB, habitID uuid.UUID, from, to time.Time) ([]time.Time, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []time.Time
	if habitID == uuid.Nil {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Model(&types.CompletionLog{}).
		Where("habit_id = ? AND log_date >= ? AND log_date <= ?", habitID, from, to).
		Distinct("log_date").
		Order("log_date ASC").
		Pluck("log_date", &results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *completionLogRepo) DeleteByHabitIDs(ctx context.Context, tx *gorm.DB, habitIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(habitIDs) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("habit_id IN ?", habitIDs).
		Delete(&types.CompletionLog{}).Error
}
