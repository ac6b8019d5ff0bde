package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/nagomiworks/utayomi-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReportRepository appends report rows and keeps the tanka's report_count
// aggregate in step, hiding the poem once the count reaches the threshold.
type ReportRepository interface {
	File(ctx context.Context, tankaID, reporterID uuid.UUID, reason string, hideAt int) error
	List(ctx context.Context, limit, offset int) ([]models.Report, int64, error)
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

// File appends a report unconditionally (no reporter dedup) and bumps the
// aggregate inside one transaction with the poem row locked. is_hidden is
// only ever set, never cleared.
func (r *reportRepository) File(ctx context.Context, tankaID, reporterID uuid.UUID, reason string, hideAt int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tanka models.Tanka
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&tanka, "id = ?", tankaID).Error
		if err != nil {
			return err
		}

		report := models.Report{
			TankaID:    tankaID,
			ReporterID: reporterID,
			Reason:     reason,
		}
		if err := tx.Create(&report).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{"report_count": tanka.ReportCount + 1}
		if tanka.ReportCount+1 >= hideAt {
			updates["is_hidden"] = true
		}
		return tx.Model(&tanka).Updates(updates).Error
	})
}

func (r *reportRepository) List(ctx context.Context, limit, offset int) ([]models.Report, int64, error) {
	var reports []models.Report
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Report{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&reports).Error
	if err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}
