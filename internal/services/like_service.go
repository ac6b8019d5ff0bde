package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/nagomiworks/utayomi-backend/internal/apperr"
	"github.com/nagomiworks/utayomi-backend/internal/dto"
	"github.com/nagomiworks/utayomi-backend/internal/repository"
	"gorm.io/gorm"
)

// LikeService exposes the like ledger. The transactional counter math
// lives in the repository; this layer maps store errors to the taxonomy.
type LikeService struct {
	likes repository.LikeRepository
}

func NewLikeService(likes repository.LikeRepository) *LikeService {
	return &LikeService{likes: likes}
}

func (s *LikeService) Like(ctx context.Context, tankaID uuid.UUID, userID uuid.UUID) (*dto.LikeCountResponse, error) {
	count, err := s.likes.Like(ctx, tankaID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "tanka not found")
		}
		return nil, apperr.Wrap(apperr.Internal, "failed to like tanka", err)
	}
	return &dto.LikeCountResponse{LikeCount: count}, nil
}

func (s *LikeService) Unlike(ctx context.Context, tankaID uuid.UUID, userID uuid.UUID) (*dto.LikeCountResponse, error) {
	count, err := s.likes.Unlike(ctx, tankaID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "tanka not found")
		}
		return nil, apperr.Wrap(apperr.Internal, "failed to unlike tanka", err)
	}
	return &dto.LikeCountResponse{LikeCount: count}, nil
}
