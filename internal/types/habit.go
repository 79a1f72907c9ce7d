package types

import (
	"time"

	"github.com/google/uuid"
)

// Habit frequencies. Anything else falls back to daily semantics in the
// scoring code.
const (
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
)

func ValidFrequency(f string) bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	default:
		return false
	}
}

type Habit struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	User        *User      `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	CategoryID  *uuid.UUID `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Category    *Category  `gorm:"constraint:OnDelete:SET NULL;foreignKey:CategoryID;references:ID" json:"category,omitempty"`
	Name        string     `gorm:"not null;column:name" json:"name"`
	Description string     `gorm:"column:description" json:"description"`
	Frequency   string     `gorm:"not null;column:frequency;default:'daily'" json:"frequency"`
	TargetCount int        `gorm:"not null;column:target_count;default:1" json:"target_count"`
	StartDate   time.Time  `gorm:"type:date;not null;column:start_date" json:"start_date"`
	EndDate     *time.Time `gorm:"type:date;column:end_date" json:"end_date,omitempty"`
	IsActive    bool       `gorm:"not null;column:is_active;default:true" json:"is_active"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}

func (Habit) TableName() string { return "habit" }
