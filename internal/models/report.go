package models

import (
	"time"

	"github.com/google/uuid"
)

// Report is an append-only moderation record. Repeat reports from the same
// reporter are allowed and each one increments the tanka's report count.
type Report struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TankaID    uuid.UUID `gorm:"type:uuid;not null;index" json:"tanka_id"`
	ReporterID uuid.UUID `gorm:"type:uuid;not null;index" json:"reporter_id"`
	Reason     string    `gorm:"not null;size:500" json:"reason"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Report) TableName() string {
	return "reports"
}
