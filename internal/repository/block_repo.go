package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/nagomiworks/utayomi-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BlockRepository stores per-user block records. Upsert and Delete are
// idempotent so clients can retry freely.
type BlockRepository interface {
	Upsert(ctx context.Context, blockerID, blockedID uuid.UUID) error
	Delete(ctx context.Context, blockerID, blockedID uuid.UUID) error
	ListByBlocker(ctx context.Context, blockerID uuid.UUID) ([]models.Block, error)
	BlockedIDSet(ctx context.Context, blockerID uuid.UUID) (map[uuid.UUID]bool, error)
	DeleteAllByBlocker(ctx context.Context, blockerID uuid.UUID) error
}

type blockRepository struct {
	db *gorm.DB
}

func NewBlockRepository(db *gorm.DB) BlockRepository {
	return &blockRepository{db: db}
}

func (r *blockRepository) Upsert(ctx context.Context, blockerID, blockedID uuid.UUID) error {
	block := models.Block{BlockerID: blockerID, BlockedID: blockedID}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "blocker_id"}, {Name: "blocked_id"}},
			DoNothing: true,
		}).
		Create(&block).Error
}

func (r *blockRepository) Delete(ctx context.Context, blockerID, blockedID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Delete(&models.Block{}).Error
}

func (r *blockRepository) ListByBlocker(ctx context.Context, blockerID uuid.UUID) ([]models.Block, error) {
	var blocks []models.Block
	err := r.db.WithContext(ctx).
		Where("blocker_id = ?", blockerID).
		Order("created_at DESC").
		Find(&blocks).Error
	if err != nil {
		return nil, err
	}
	return blocks, nil
}

func (r *blockRepository) BlockedIDSet(ctx context.Context, blockerID uuid.UUID) (map[uuid.UUID]bool, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&models.Block{}).
		Where("blocker_id = ?", blockerID).
		Pluck("blocked_id", &ids).Error
	if err != nil {
		return nil, err
	}
	set := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func (r *blockRepository) DeleteAllByBlocker(ctx context.Context, blockerID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("blocker_id = ?", blockerID).
		Delete(&models.Block{}).Error
}
