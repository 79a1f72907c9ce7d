package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// CompletionLog is append-oriented. There is deliberately no uniqueness on
// (habit_id, log_date): several logs on one day collapse to a single
// streak day but their counts sum for volume statistics.
type CompletionLog struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	HabitID        uuid.UUID      `gorm:"type:uuid;not null;index:idx_completion_habit_date" json:"habit_id"`
	Habit          *Habit         `gorm:"constraint:OnDelete:CASCADE;foreignKey:HabitID;references:ID" json:"habit,omitempty"`
	LogDate        time.Time      `gorm:"type:date;not null;index:idx_completion_habit_date;column:log_date" json:"log_date"`
	CompletedCount int            `gorm:"not null;column:completed_count;default:1" json:"completed_count"`
	Note           string         `gorm:"column:note" json:"note"`
	Metadata       datatypes.JSON `gorm:"column:metadata" json:"metadata,omitempty"`
	CreatedAt      time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null" json:"updated_at"`
}

func (CompletionLog) TableName() string { return "completion_log" }
