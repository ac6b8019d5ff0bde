package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/nagomiworks/utayomi-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository maintains like rows and the denormalized like_count on
// tankas. Like and Unlike run as single transactions with the poem row
// locked, so concurrent likers serialize instead of losing updates. Both
// are idempotent: liking twice or unliking a non-like returns the current
// count unchanged.
type LikeRepository interface {
	Like(ctx context.Context, tankaID, userID uuid.UUID) (int, error)
	Unlike(ctx context.Context, tankaID, userID uuid.UUID) (int, error)
	Exists(ctx context.Context, tankaID, userID uuid.UUID) (bool, error)
	ListTankaIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) Like(ctx context.Context, tankaID, userID uuid.UUID) (int, error) {
	var newCount int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tanka models.Tanka
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&tanka, "id = ?", tankaID).Error
		if err != nil {
			return err
		}

		var like models.Like
		err = tx.First(&like, "tanka_id = ? AND user_id = ?", tankaID, userID).Error
		if err == nil {
			newCount = tanka.LikeCount
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Create(&models.Like{TankaID: tankaID, UserID: userID}).Error; err != nil {
			return err
		}
		newCount = tanka.LikeCount + 1
		return tx.Model(&tanka).Update("like_count", newCount).Error
	})
	return newCount, err
}

func (r *likeRepository) Unlike(ctx context.Context, tankaID, userID uuid.UUID) (int, error) {
	var newCount int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tanka models.Tanka
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&tanka, "id = ?", tankaID).Error
		if err != nil {
			return err
		}

		res := tx.Where("tanka_id = ? AND user_id = ?", tankaID, userID).
			Delete(&models.Like{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			newCount = tanka.LikeCount
			return nil
		}

		// Floor at zero in case the aggregate ever drifted.
		newCount = tanka.LikeCount - 1
		if newCount < 0 {
			newCount = 0
		}
		return tx.Model(&tanka).Update("like_count", newCount).Error
	})
	return newCount, err
}

func (r *likeRepository) Exists(ctx context.Context, tankaID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("tanka_id = ? AND user_id = ?", tankaID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *likeRepository) ListTankaIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Pluck("tanka_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
