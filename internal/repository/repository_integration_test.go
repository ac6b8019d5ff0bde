//go:build integration
// +build integration

package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nagomiworks/utayomi-backend/internal/database"
	"github.com/nagomiworks/utayomi-backend/internal/models"
)

// setupTestDB starts a PostgreSQL container, runs migrations, and returns
// a connected gorm handle.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("utayomi_test"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func seedTanka(t *testing.T, db *gorm.DB, authorID uuid.UUID, createdAt time.Time) *models.Tanka {
	t.Helper()
	tanka := &models.Tanka{
		ID:        uuid.New(),
		AuthorID:  authorID,
		Category:  models.CategoryOther,
		WorryText: "integration seed",
		TankaText: "poem",
		CreatedAt: createdAt,
	}
	require.NoError(t, db.Create(tanka).Error)
	return tanka
}

func TestLikeTransactionUnderContention(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLikeRepository(db)
	ctx := context.Background()

	poem := seedTanka(t, db, uuid.New(), time.Now())

	const likers = 10
	var wg sync.WaitGroup
	errs := make(chan error, likers)
	for i := 0; i < likers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Like(ctx, poem.ID, uuid.New())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	var reloaded models.Tanka
	require.NoError(t, db.First(&reloaded, "id = ?", poem.ID).Error)
	require.Equal(t, likers, reloaded.LikeCount, "row lock must serialize concurrent likers")

	var likeRows int64
	require.NoError(t, db.Model(&models.Like{}).Where("tanka_id = ?", poem.ID).Count(&likeRows).Error)
	require.Equal(t, int64(likers), likeRows)
}

func TestLikeUnlikeIdempotencyAgainstRealStore(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLikeRepository(db)
	ctx := context.Background()

	poem := seedTanka(t, db, uuid.New(), time.Now())
	userID := uuid.New()

	count, err := repo.Like(ctx, poem.ID, userID)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	count, err = repo.Like(ctx, poem.ID, userID)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	count, err = repo.Unlike(ctx, poem.ID, userID)
	require.NoError(t, err)
	require.Equal(t, 0, count)

	count, err = repo.Unlike(ctx, poem.ID, userID)
	require.NoError(t, err)
	require.Equal(t, 0, count)
}

// Poems created in the same instant must not be skipped or repeated when
// the page boundary falls between them.
func TestFeedWindowKeysetWithEqualTimestamps(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTankaRepository(db)
	ctx := context.Background()

	author := uuid.New()
	sameInstant := time.Now().Truncate(time.Microsecond)
	for i := 0; i < 5; i++ {
		seedTanka(t, db, author, sameInstant)
	}

	seen := make(map[uuid.UUID]bool)
	var after *models.Tanka
	for {
		window, err := repo.FeedWindow(ctx, after, 2)
		require.NoError(t, err)
		if len(window) == 0 {
			break
		}
		for _, tanka := range window {
			require.False(t, seen[tanka.ID], "poem %s served twice", tanka.ID)
			seen[tanka.ID] = true
		}
		last := window[len(window)-1]
		after = &last
	}
	require.Len(t, seen, 5)
}

func TestHideByAuthorOnlyTouchesAuthor(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTankaRepository(db)
	ctx := context.Background()

	author := uuid.New()
	other := uuid.New()
	mine := seedTanka(t, db, author, time.Now())
	theirs := seedTanka(t, db, other, time.Now())

	require.NoError(t, repo.HideByAuthor(ctx, author))
	require.NoError(t, repo.HideByAuthor(ctx, author)) // rerun is a no-op

	var reloaded models.Tanka
	require.NoError(t, db.First(&reloaded, "id = ?", mine.ID).Error)
	require.True(t, reloaded.IsHidden)
	require.NoError(t, db.First(&reloaded, "id = ?", theirs.ID).Error)
	require.False(t, reloaded.IsHidden)
}

func TestProfileUpsertPreservesCreatedAt(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	first := time.Now().Add(-24 * time.Hour).Truncate(time.Microsecond)
	date := "2025-06-14"
	require.NoError(t, repo.Upsert(ctx, &models.UserProfile{
		UserID:        userID,
		LastTankaDate: &date,
		DailyCount:    1,
		CreatedAt:     first,
		UpdatedAt:     first,
	}))

	now := time.Now().Truncate(time.Microsecond)
	today := "2025-06-15"
	require.NoError(t, repo.Upsert(ctx, &models.UserProfile{
		UserID:          userID,
		LastTankaDate:   &today,
		LastGeneratedAt: &now,
		DailyCount:      1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}))

	saved, err := repo.Get(ctx, userID)
	require.NoError(t, err)
	require.True(t, saved.CreatedAt.Equal(first), "upsert must not rewrite created_at")
	require.Equal(t, today, *saved.LastTankaDate)
	require.NotNil(t, saved.LastGeneratedAt)
}

func TestReportFileHidesAtThreshold(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReportRepository(db)
	ctx := context.Background()

	poem := seedTanka(t, db, uuid.New(), time.Now())

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.File(ctx, poem.ID, uuid.New(), "inappropriate", 3))
	}

	var reloaded models.Tanka
	require.NoError(t, db.First(&reloaded, "id = ?", poem.ID).Error)
	require.Equal(t, 3, reloaded.ReportCount)
	require.True(t, reloaded.IsHidden)
}
