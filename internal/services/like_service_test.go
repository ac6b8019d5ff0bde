package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/nagomiworks/utayomi-backend/internal/apperr"
	"github.com/nagomiworks/utayomi-backend/internal/models"
)

func newLikeFixture() (*LikeService, *models.Tanka) {
	tankas := newFakeTankaRepo()
	poem := tankas.add(&models.Tanka{
		ID:        uuid.New(),
		AuthorID:  uuid.New(),
		Category:  models.CategoryLove,
		TankaText: "poem",
		CreatedAt: time.Now(),
	})
	return NewLikeService(newFakeLikeRepo(tankas)), poem
}

func TestLikeIncrementsOnce(t *testing.T) {
	svc, poem := newLikeFixture()
	userID := uuid.New()
	ctx := context.Background()

	resp, err := svc.Like(ctx, poem.ID, userID)
	require.NoError(t, err)
	require.Equal(t, 1, resp.LikeCount)

	// Second like from the same user is a no-op.
	resp, err = svc.Like(ctx, poem.ID, userID)
	require.NoError(t, err)
	require.Equal(t, 1, resp.LikeCount)
}

func TestLikeCountsDistinctUsers(t *testing.T) {
	svc, poem := newLikeFixture()
	ctx := context.Background()

	_, err := svc.Like(ctx, poem.ID, uuid.New())
	require.NoError(t, err)
	resp, err := svc.Like(ctx, poem.ID, uuid.New())
	require.NoError(t, err)
	require.Equal(t, 2, resp.LikeCount)
}

func TestUnlikeDecrementsAndFloors(t *testing.T) {
	svc, poem := newLikeFixture()
	userID := uuid.New()
	ctx := context.Background()

	_, err := svc.Like(ctx, poem.ID, userID)
	require.NoError(t, err)

	resp, err := svc.Unlike(ctx, poem.ID, userID)
	require.NoError(t, err)
	require.Equal(t, 0, resp.LikeCount)

	// Unliking without a like row leaves the count untouched.
	resp, err = svc.Unlike(ctx, poem.ID, userID)
	require.NoError(t, err)
	require.Equal(t, 0, resp.LikeCount)
}

func TestLikeMissingTanka(t *testing.T) {
	svc, _ := newLikeFixture()

	_, err := svc.Like(context.Background(), uuid.New(), uuid.New())
	require.Equal(t, apperr.NotFound, apperr.KindOf(err))

	_, err = svc.Unlike(context.Background(), uuid.New(), uuid.New())
	require.Equal(t, apperr.NotFound, apperr.KindOf(err))
}
