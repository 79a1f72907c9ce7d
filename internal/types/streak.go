package types

import (
	"time"

	"github.com/google/uuid"
)

// Streak is derived state, rebuilt from the completion history. One row per
// habit; LongestStreak never decreases across recomputations.
type Streak struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	HabitID        uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex;column:habit_id" json:"habit_id"`
	Habit          *Habit     `gorm:"constraint:OnDelete:CASCADE;foreignKey:HabitID;references:ID" json:"habit,omitempty"`
	CurrentStreak  int        `gorm:"not null;column:current_streak;default:0" json:"current_streak"`
	LongestStreak  int        `gorm:"not null;column:longest_streak;default:0" json:"longest_streak"`
	LastLogDate    *time.Time `gorm:"type:date;column:last_log_date" json:"last_log_date,omitempty"`
	RecalculatedAt time.Time  `gorm:"not null;column:recalculated_at" json:"recalculated_at"`
	CreatedAt      time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"not null" json:"updated_at"`
}

func (Streak) TableName() string { return "streak" }
