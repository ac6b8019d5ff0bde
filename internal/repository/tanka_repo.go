package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/nagomiworks/utayomi-backend/internal/models"
	"gorm.io/gorm"
)

// TankaRepository is the poem side of the store. FeedWindow returns rows in
// the store's absolute order (created_at desc, id desc as tiebreak) with no
// block filtering; filtering is the feed assembler's job.
type TankaRepository interface {
	Create(ctx context.Context, tanka *models.Tanka) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Tanka, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Tanka, error)
	FeedWindow(ctx context.Context, after *models.Tanka, limit int) ([]models.Tanka, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.Tanka, error)
	HideByAuthor(ctx context.Context, authorID uuid.UUID) error
}

// hideChunkSize bounds one UPDATE during account erasure, mirroring the
// store's per-batch write limit.
const hideChunkSize = 500

type tankaRepository struct {
	db *gorm.DB
}

func NewTankaRepository(db *gorm.DB) TankaRepository {
	return &tankaRepository{db: db}
}

func (r *tankaRepository) Create(ctx context.Context, tanka *models.Tanka) error {
	return r.db.WithContext(ctx).Create(tanka).Error
}

func (r *tankaRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Tanka, error) {
	var tanka models.Tanka
	if err := r.db.WithContext(ctx).First(&tanka, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &tanka, nil
}

func (r *tankaRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Tanka, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var tankas []models.Tanka
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&tankas).Error; err != nil {
		return nil, err
	}
	return tankas, nil
}

// FeedWindow fetches up to limit visible rows, strictly after the cursor
// row when one is given. The row-value comparison keeps keyset pagination
// stable for poems created in the same instant.
func (r *tankaRepository) FeedWindow(ctx context.Context, after *models.Tanka, limit int) ([]models.Tanka, error) {
	q := r.db.WithContext(ctx).
		Where("is_hidden = false").
		Order("created_at DESC, id DESC").
		Limit(limit)
	if after != nil {
		q = q.Where("(created_at, id) < (?, ?)", after.CreatedAt, after.ID)
	}

	var tankas []models.Tanka
	if err := q.Find(&tankas).Error; err != nil {
		return nil, err
	}
	return tankas, nil
}

func (r *tankaRepository) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.Tanka, error) {
	var tankas []models.Tanka
	err := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC, id DESC").
		Find(&tankas).Error
	if err != nil {
		return nil, err
	}
	return tankas, nil
}

// HideByAuthor soft-hides every poem by the author in id chunks, so a rerun
// after a partial failure picks up where the last one stopped.
func (r *tankaRepository) HideByAuthor(ctx context.Context, authorID uuid.UUID) error {
	for {
		var ids []uuid.UUID
		err := r.db.WithContext(ctx).Model(&models.Tanka{}).
			Where("author_id = ? AND is_hidden = false", authorID).
			Limit(hideChunkSize).
			Pluck("id", &ids).Error
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		err = r.db.WithContext(ctx).Model(&models.Tanka{}).
			Where("id IN ?", ids).
			Update("is_hidden", true).Error
		if err != nil {
			return err
		}
		if len(ids) < hideChunkSize {
			return nil
		}
	}
}
