package models

import (
	"time"

	"github.com/google/uuid"
)

// Like marks that a user liked a tanka. Existence of the row is the liked
// state; the composite key enforces at most one like per (tanka, user).
// UserID is indexed on its own for the reverse "poems I liked" lookup.
type Like struct {
	TankaID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"tanka_id"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (Like) TableName() string {
	return "likes"
}
