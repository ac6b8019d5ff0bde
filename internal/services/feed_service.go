package services

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"github.com/google/uuid"
	"github.com/nagomiworks/utayomi-backend/internal/apperr"
	"github.com/nagomiworks/utayomi-backend/internal/dto"
	"github.com/nagomiworks/utayomi-backend/internal/models"
	"github.com/nagomiworks/utayomi-backend/internal/repository"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	// likeCheckParallelism bounds the per-item like lookups issued at once.
	likeCheckParallelism = 8

	maxFeedLimit = 100
)

// FeedService assembles paginated, block-filtered, like-annotated pages.
//
// Pagination is anchored to the store's absolute ordering: the window of
// limit+1 visible rows decides hasMore and nextCursor BEFORE blocked
// authors are filtered out. A page may therefore carry fewer than limit
// items while hasMore stays true; the cursor still lands on the right row.
type FeedService struct {
	tankas repository.TankaRepository
	likes  repository.LikeRepository
	blocks repository.BlockRepository
}

func NewFeedService(tankas repository.TankaRepository, likes repository.LikeRepository, blocks repository.BlockRepository) *FeedService {
	return &FeedService{tankas: tankas, likes: likes, blocks: blocks}
}

func (s *FeedService) FetchFeed(ctx context.Context, requesterID uuid.UUID, limit int, afterID *string) (*dto.FeedResponse, error) {
	if limit < 1 || limit > maxFeedLimit {
		return nil, apperr.New(apperr.InvalidArgument, "limit must be between 1 and 100")
	}

	blocked, err := s.blocks.BlockedIDSet(ctx, requesterID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to load block list", err)
	}

	var after *models.Tanka
	if afterID != nil && *afterID != "" {
		cursorID, err := uuid.Parse(*afterID)
		if err != nil {
			return nil, apperr.New(apperr.InvalidArgument, "afterID is not a valid id")
		}
		after, err = s.tankas.FindByID(ctx, cursorID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.New(apperr.NotFound, "cursor tanka no longer exists, restart from the first page")
			}
			return nil, apperr.Wrap(apperr.Internal, "failed to resolve cursor", err)
		}
	}

	window, err := s.tankas.FeedWindow(ctx, after, limit+1)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to fetch feed", err)
	}

	hasMore := len(window) > limit
	page := window
	if hasMore {
		page = window[:limit]
	}

	var nextCursor *string
	if hasMore && len(page) > 0 {
		id := page[len(page)-1].ID.String()
		nextCursor = &id
	}

	visible := make([]models.Tanka, 0, len(page))
	for _, t := range page {
		if !blocked[t.AuthorID] {
			visible = append(visible, t)
		}
	}

	items := s.annotateLikes(ctx, requesterID, visible)
	return &dto.FeedResponse{TankaList: items, HasMore: hasMore, NextCursor: nextCursor}, nil
}

// FetchMine returns the requester's own poems, hidden ones included, newest
// first. No pagination: one author's output is bounded by the daily cap.
func (s *FeedService) FetchMine(ctx context.Context, requesterID uuid.UUID) (*dto.TankaListResponse, error) {
	tankas, err := s.tankas.ListByAuthor(ctx, requesterID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to fetch your tanka", err)
	}
	return &dto.TankaListResponse{TankaList: s.annotateLikes(ctx, requesterID, tankas)}, nil
}

// FetchLiked recovers poem ids from the requester's like records, then
// fetches the poems. Poems hidden or deleted since the like are dropped.
func (s *FeedService) FetchLiked(ctx context.Context, requesterID uuid.UUID) (*dto.TankaListResponse, error) {
	ids, err := s.likes.ListTankaIDs(ctx, requesterID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to fetch liked tanka", err)
	}

	tankas, err := s.tankas.FindByIDs(ctx, ids)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to fetch liked tanka", err)
	}

	sortTankasDesc(tankas)
	items := make([]dto.TankaResponse, 0, len(tankas))
	for i := range tankas {
		if tankas[i].IsHidden {
			continue
		}
		items = append(items, dto.NewTankaResponse(&tankas[i], true))
	}
	return &dto.TankaListResponse{TankaList: items}, nil
}

// annotateLikes resolves isLikedByMe for each poem concurrently. Each
// lookup touches a disjoint key, so they fan out with bounded parallelism;
// items are written positionally, so completion order cannot reorder the
// page. A failed lookup degrades that one item to unliked rather than
// failing the page.
func (s *FeedService) annotateLikes(ctx context.Context, requesterID uuid.UUID, tankas []models.Tanka) []dto.TankaResponse {
	sortTankasDesc(tankas)
	items := make([]dto.TankaResponse, len(tankas))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(likeCheckParallelism)
	for i := range tankas {
		g.Go(func() error {
			liked, err := s.likes.Exists(gctx, tankas[i].ID, requesterID)
			if err != nil {
				slog.Error("like lookup failed", "error", err, "tanka_id", tankas[i].ID.String())
				liked = false
			}
			items[i] = dto.NewTankaResponse(&tankas[i], liked)
			return nil
		})
	}
	_ = g.Wait()

	return items
}

// sortTankasDesc orders poems exactly as the store's feed window does:
// created_at descending, id descending as tiebreak. Sorting the models
// keeps sub-second precision that the serialized timestamps drop.
func sortTankasDesc(tankas []models.Tanka) {
	sort.SliceStable(tankas, func(i, j int) bool {
		if !tankas[i].CreatedAt.Equal(tankas[j].CreatedAt) {
			return tankas[i].CreatedAt.After(tankas[j].CreatedAt)
		}
		return tankas[i].ID.String() > tankas[j].ID.String()
	})
}
