package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nagomiworks/utayomi-backend/internal/apperr"
	"github.com/nagomiworks/utayomi-backend/internal/dto"
	"github.com/nagomiworks/utayomi-backend/internal/models"
	"github.com/nagomiworks/utayomi-backend/internal/repository"
	"gorm.io/gorm"
)

// HideReportThreshold is the report count at which a poem is hidden from
// every feed. There is no un-hide path.
const HideReportThreshold = 3

// ModerationService handles reporting and the block registry.
//
// Reports are append-only and deliberately not deduplicated per reporter;
// the threshold counts reports, not reporters.
type ModerationService struct {
	reports repository.ReportRepository
	blocks  repository.BlockRepository
}

func NewModerationService(reports repository.ReportRepository, blocks repository.BlockRepository) *ModerationService {
	return &ModerationService{reports: reports, blocks: blocks}
}

func (s *ModerationService) ReportTanka(ctx context.Context, tankaID, reporterID uuid.UUID, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return apperr.New(apperr.InvalidArgument, "report reason is required")
	}

	err := s.reports.File(ctx, tankaID, reporterID, reason, HideReportThreshold)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.NotFound, "tanka not found")
		}
		return apperr.Wrap(apperr.Internal, "failed to report tanka", err)
	}
	return nil
}

func (s *ModerationService) BlockUser(ctx context.Context, blockerID, blockedID uuid.UUID) error {
	if blockedID == uuid.Nil {
		return apperr.New(apperr.InvalidArgument, "userID is required")
	}
	if blockerID == blockedID {
		return apperr.New(apperr.InvalidArgument, "you cannot block yourself")
	}
	if err := s.blocks.Upsert(ctx, blockerID, blockedID); err != nil {
		return apperr.Wrap(apperr.Internal, "failed to block user", err)
	}
	return nil
}

func (s *ModerationService) UnblockUser(ctx context.Context, blockerID, blockedID uuid.UUID) error {
	if err := s.blocks.Delete(ctx, blockerID, blockedID); err != nil {
		return apperr.Wrap(apperr.Internal, "failed to unblock user", err)
	}
	return nil
}

func (s *ModerationService) ListBlockedUsers(ctx context.Context, blockerID uuid.UUID) (*dto.BlockedUsersResponse, error) {
	blocks, err := s.blocks.ListByBlocker(ctx, blockerID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to fetch blocked users", err)
	}

	users := make([]dto.BlockedUserResponse, len(blocks))
	for i, b := range blocks {
		users[i] = dto.BlockedUserResponse{
			BlockedID: b.BlockedID.String(),
			CreatedAt: b.CreatedAt.UTC().Format(time.RFC3339),
		}
	}
	return &dto.BlockedUsersResponse{BlockedUsers: users}, nil
}

// ListReports backs the admin moderation panel.
func (s *ModerationService) ListReports(ctx context.Context, limit, offset int) ([]models.Report, int64, error) {
	return s.reports.List(ctx, limit, offset)
}
