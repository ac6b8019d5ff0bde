package models

import (
	"time"

	"github.com/google/uuid"
)

// UserProfile holds per-user generation state for the daily limiter.
// Created lazily on first generation, deleted on account erasure.
//
// Two formats coexist: early releases stored only LastTankaDate as a
// "YYYY-MM-DD" string; current writes set LastGeneratedAt plus DailyCount.
// Readers must honor both, preferring the timestamp when present.
type UserProfile struct {
	UserID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"user_id"`
	LastTankaDate   *string    `gorm:"size:10" json:"last_tanka_date,omitempty"`
	LastGeneratedAt *time.Time `json:"last_generated_at,omitempty"`
	DailyCount      int        `gorm:"not null;default:0" json:"daily_count"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}
