package types

import (
	"time"

	"github.com/google/uuid"
)

type Goal struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	User         *User      `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	HabitID      *uuid.UUID `gorm:"type:uuid;index" json:"habit_id,omitempty"`
	Habit        *Habit     `gorm:"constraint:OnDelete:CASCADE;foreignKey:HabitID;references:ID" json:"habit,omitempty"`
	Name         string     `gorm:"not null;column:name" json:"name"`
	TargetValue  int        `gorm:"not null;column:target_value;default:1" json:"target_value"`
	CurrentValue int        `gorm:"not null;column:current_value;default:0" json:"current_value"`
	Deadline     *time.Time `gorm:"type:date;column:deadline" json:"deadline,omitempty"`
	Achieved     bool       `gorm:"not null;column:achieved;default:false" json:"achieved"`
	CreatedAt    time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"not null" json:"updated_at"`
}

func (Goal) TableName() string { return "goal" }
