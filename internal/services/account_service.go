package services

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/nagomiworks/utayomi-backend/internal/apperr"
	"github.com/nagomiworks/utayomi-backend/internal/repository"
)

// IdentityDeleter is the identity-provider hook invoked last during
// account erasure.
type IdentityDeleter interface {
	DeleteIdentity(ctx context.Context, userID uuid.UUID) error
}

// AccountService cascades an account deletion: soft-hide every poem the
// user authored (hard deletion would orphan other users' likes and
// reports), hard-delete their block records, drop the generation profile,
// then delete the identity. Every phase is idempotent, so a rerun after a
// partial failure completes the remainder without error.
type AccountService struct {
	tankas   repository.TankaRepository
	blocks   repository.BlockRepository
	profiles repository.ProfileRepository
	identity IdentityDeleter
}

func NewAccountService(
	tankas repository.TankaRepository,
	blocks repository.BlockRepository,
	profiles repository.ProfileRepository,
	identity IdentityDeleter,
) *AccountService {
	return &AccountService{tankas: tankas, blocks: blocks, profiles: profiles, identity: identity}
}

func (s *AccountService) EraseAccount(ctx context.Context, userID uuid.UUID) error {
	if err := s.tankas.HideByAuthor(ctx, userID); err != nil {
		return apperr.Wrap(apperr.Internal, "failed to hide authored tanka", err)
	}
	if err := s.blocks.DeleteAllByBlocker(ctx, userID); err != nil {
		return apperr.Wrap(apperr.Internal, "failed to delete block records", err)
	}
	if err := s.profiles.Delete(ctx, userID); err != nil {
		return apperr.Wrap(apperr.Internal, "failed to delete user profile", err)
	}
	if err := s.identity.DeleteIdentity(ctx, userID); err != nil {
		return apperr.Wrap(apperr.Internal, "failed to delete identity", err)
	}

	slog.Info("account erased", "user_id", userID.String(), "action", "delete_account")
	return nil
}
