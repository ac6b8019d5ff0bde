package models

import (
	"time"

	"github.com/google/uuid"
)

// WorryCategory values accepted by the generation endpoint.
const (
	CategoryRelationship = "relationship"
	CategoryLove         = "love"
	CategoryWork         = "work"
	CategoryHealth       = "health"
	CategoryOther        = "other"
)

var validCategories = map[string]bool{
	CategoryRelationship: true,
	CategoryLove:         true,
	CategoryWork:         true,
	CategoryHealth:       true,
	CategoryOther:        true,
}

// ValidCategory reports whether c is one of the fixed worry categories.
func ValidCategory(c string) bool {
	return validCategories[c]
}

// Tanka is a generated poem. LikeCount and ReportCount are denormalized
// aggregates kept consistent with the likes/reports tables inside
// transactions. IsHidden only ever transitions false -> true.
type Tanka struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AuthorID    uuid.UUID `gorm:"type:uuid;not null;index" json:"author_id"`
	Category    string    `gorm:"size:20;not null" json:"category"`
	WorryText   string    `gorm:"size:300;not null" json:"worry_text"`
	TankaText   string    `gorm:"type:text;not null" json:"tanka_text"`
	LikeCount   int       `gorm:"not null;default:0" json:"like_count"`
	ReportCount int       `gorm:"not null;default:0" json:"report_count"`
	IsHidden    bool      `gorm:"not null;default:false;index:idx_tankas_feed,priority:1" json:"-"`
	CreatedAt   time.Time `gorm:"index:idx_tankas_feed,priority:2,sort:desc" json:"created_at"`
}

func (Tanka) TableName() string {
	return "tankas"
}
