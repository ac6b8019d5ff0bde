package dto

import (
	"time"

	"github.com/nagomiworks/utayomi-backend/internal/models"
)

// Field names follow the mobile client's wire contract (camelCase,
// ISO-8601 timestamps), which predates this service.

type GenerateTankaRequest struct {
	Category  string `json:"category"`
	WorryText string `json:"worryText"`
}

type TankaResponse struct {
	ID          string `json:"id"`
	AuthorID    string `json:"authorID"`
	Category    string `json:"category"`
	WorryText   string `json:"worryText"`
	TankaText   string `json:"tankaText"`
	LikeCount   int    `json:"likeCount"`
	IsLikedByMe bool   `json:"isLikedByMe"`
	CreatedAt   string `json:"createdAt"`
}

// NewTankaResponse converts a stored poem for the wire.
func NewTankaResponse(t *models.Tanka, likedByMe bool) TankaResponse {
	return TankaResponse{
		ID:          t.ID.String(),
		AuthorID:    t.AuthorID.String(),
		Category:    t.Category,
		WorryText:   t.WorryText,
		TankaText:   t.TankaText,
		LikeCount:   t.LikeCount,
		IsLikedByMe: likedByMe,
		CreatedAt:   t.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type GenerateTankaResponse struct {
	Tanka TankaResponse `json:"tanka"`
}

type FeedResponse struct {
	TankaList  []TankaResponse `json:"tankaList"`
	HasMore    bool            `json:"hasMore"`
	NextCursor *string         `json:"nextCursor,omitempty"`
}

type TankaListResponse struct {
	TankaList []TankaResponse `json:"tankaList"`
}

type LikeCountResponse struct {
	LikeCount int `json:"likeCount"`
}

type ReportTankaRequest struct {
	Reason string `json:"reason"`
}

type BlockedUserResponse struct {
	BlockedID string `json:"blockedID"`
	CreatedAt string `json:"createdAt"`
}

type BlockedUsersResponse struct {
	BlockedUsers []BlockedUserResponse `json:"blockedUsers"`
}
