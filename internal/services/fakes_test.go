package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nagomiworks/utayomi-backend/internal/models"
	"github.com/nagomiworks/utayomi-backend/internal/provider"
)

// fakeTankaRepo is an in-memory stand-in that mirrors the store's feed
// ordering (created_at desc, id desc) so pagination tests are exact.
type fakeTankaRepo struct {
	mu        sync.Mutex
	tankas    map[uuid.UUID]*models.Tanka
	createErr error
}

func newFakeTankaRepo() *fakeTankaRepo {
	return &fakeTankaRepo{tankas: make(map[uuid.UUID]*models.Tanka)}
}

func (r *fakeTankaRepo) add(t *models.Tanka) *models.Tanka {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.tankas[t.ID] = t
	return t
}

func (r *fakeTankaRepo) Create(_ context.Context, t *models.Tanka) error {
	if r.createErr != nil {
		return r.createErr
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	r.add(t)
	return nil
}

func (r *fakeTankaRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Tanka, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tankas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTankaRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]models.Tanka, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Tanka
	for _, id := range ids {
		if t, ok := r.tankas[id]; ok {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeTankaRepo) sortedVisible() []models.Tanka {
	var out []models.Tanka
	for _, t := range r.tankas {
		if !t.IsHidden {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() > out[j].ID.String()
	})
	return out
}

func (r *fakeTankaRepo) FeedWindow(_ context.Context, after *models.Tanka, limit int) ([]models.Tanka, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rows := r.sortedVisible()
	if after != nil {
		cut := 0
		for i, t := range rows {
			if t.CreatedAt.Before(after.CreatedAt) ||
				(t.CreatedAt.Equal(after.CreatedAt) && t.ID.String() < after.ID.String()) {
				cut = i
				break
			}
			cut = i + 1
		}
		rows = rows[cut:]
	}
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (r *fakeTankaRepo) ListByAuthor(_ context.Context, authorID uuid.UUID) ([]models.Tanka, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Tanka
	for _, t := range r.tankas {
		if t.AuthorID == authorID {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *fakeTankaRepo) HideByAuthor(_ context.Context, authorID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tankas {
		if t.AuthorID == authorID {
			t.IsHidden = true
		}
	}
	return nil
}

type likeKey struct {
	tankaID uuid.UUID
	userID  uuid.UUID
}

// fakeLikeRepo shares tanka rows with a fakeTankaRepo so like counts land
// on the same poems the feed serves.
type fakeLikeRepo struct {
	mu     sync.Mutex
	tankas *fakeTankaRepo
	likes  map[likeKey]time.Time
}

func newFakeLikeRepo(tankas *fakeTankaRepo) *fakeLikeRepo {
	return &fakeLikeRepo{tankas: tankas, likes: make(map[likeKey]time.Time)}
}

func (r *fakeLikeRepo) Like(_ context.Context, tankaID, userID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tankas.mu.Lock()
	defer r.tankas.mu.Unlock()

	t, ok := r.tankas.tankas[tankaID]
	if !ok {
		return 0, gorm.ErrRecordNotFound
	}
	key := likeKey{tankaID, userID}
	if _, liked := r.likes[key]; liked {
		return t.LikeCount, nil
	}
	r.likes[key] = time.Now()
	t.LikeCount++
	return t.LikeCount, nil
}

func (r *fakeLikeRepo) Unlike(_ context.Context, tankaID, userID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tankas.mu.Lock()
	defer r.tankas.mu.Unlock()

	t, ok := r.tankas.tankas[tankaID]
	if !ok {
		return 0, gorm.ErrRecordNotFound
	}
	key := likeKey{tankaID, userID}
	if _, liked := r.likes[key]; !liked {
		return t.LikeCount, nil
	}
	delete(r.likes, key)
	if t.LikeCount > 0 {
		t.LikeCount--
	}
	return t.LikeCount, nil
}

func (r *fakeLikeRepo) Exists(_ context.Context, tankaID, userID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.likes[likeKey{tankaID, userID}]
	return ok, nil
}

func (r *fakeLikeRepo) ListTankaIDs(_ context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	type entry struct {
		id uuid.UUID
		at time.Time
	}
	var entries []entry
	for k, at := range r.likes {
		if k.userID == userID {
			entries = append(entries, entry{k.tankaID, at})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].at.After(entries[j].at) })
	ids := make([]uuid.UUID, len(entries))
	for i, e := range entries {
		ids[i] = e.id
	}
	return ids, nil
}

type blockKey struct {
	blockerID uuid.UUID
	blockedID uuid.UUID
}

type fakeBlockRepo struct {
	mu     sync.Mutex
	blocks map[blockKey]time.Time
}

func newFakeBlockRepo() *fakeBlockRepo {
	return &fakeBlockRepo{blocks: make(map[blockKey]time.Time)}
}

func (r *fakeBlockRepo) Upsert(_ context.Context, blockerID, blockedID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := blockKey{blockerID, blockedID}
	if _, ok := r.blocks[key]; !ok {
		r.blocks[key] = time.Now()
	}
	return nil
}

func (r *fakeBlockRepo) Delete(_ context.Context, blockerID, blockedID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.blocks, blockKey{blockerID, blockedID})
	return nil
}

func (r *fakeBlockRepo) ListByBlocker(_ context.Context, blockerID uuid.UUID) ([]models.Block, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Block
	for k, at := range r.blocks {
		if k.blockerID == blockerID {
			out = append(out, models.Block{
				BlockerID: k.blockerID,
				BlockedID: k.blockedID,
				CreatedAt: at,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeBlockRepo) BlockedIDSet(_ context.Context, blockerID uuid.UUID) (map[uuid.UUID]bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set := make(map[uuid.UUID]bool)
	for k := range r.blocks {
		if k.blockerID == blockerID {
			set[k.blockedID] = true
		}
	}
	return set, nil
}

func (r *fakeBlockRepo) DeleteAllByBlocker(_ context.Context, blockerID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k := range r.blocks {
		if k.blockerID == blockerID {
			delete(r.blocks, k)
		}
	}
	return nil
}

type fakeReportRepo struct {
	mu      sync.Mutex
	tankas  *fakeTankaRepo
	reports []models.Report
}

func newFakeReportRepo(tankas *fakeTankaRepo) *fakeReportRepo {
	return &fakeReportRepo{tankas: tankas}
}

func (r *fakeReportRepo) File(_ context.Context, tankaID, reporterID uuid.UUID, reason string, hideAt int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tankas.mu.Lock()
	defer r.tankas.mu.Unlock()

	t, ok := r.tankas.tankas[tankaID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	r.reports = append(r.reports, models.Report{
		ID:         uuid.New(),
		TankaID:    tankaID,
		ReporterID: reporterID,
		Reason:     reason,
		CreatedAt:  time.Now(),
	})
	t.ReportCount++
	if t.ReportCount >= hideAt {
		t.IsHidden = true
	}
	return nil
}

func (r *fakeReportRepo) List(_ context.Context, limit, offset int) ([]models.Report, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := int64(len(r.reports))
	if offset >= len(r.reports) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(r.reports) {
		end = len(r.reports)
	}
	return r.reports[offset:end], total, nil
}

type fakeProfileRepo struct {
	mu        sync.Mutex
	profiles  map[uuid.UUID]*models.UserProfile
	upsertErr error
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[uuid.UUID]*models.UserProfile)}
}

func (r *fakeProfileRepo) Get(_ context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProfileRepo) Upsert(_ context.Context, profile *models.UserProfile) error {
	if r.upsertErr != nil {
		return r.upsertErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *profile
	if existing, ok := r.profiles[profile.UserID]; ok {
		cp.CreatedAt = existing.CreatedAt
	}
	r.profiles[profile.UserID] = &cp
	return nil
}

func (r *fakeProfileRepo) Delete(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.profiles, userID)
	return nil
}

type fakeGenerator struct {
	result *provider.Result
	err    error
	calls  int
}

func (g *fakeGenerator) GenerateTanka(context.Context, string, string) (*provider.Result, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return g.result, nil
}

type fakeIdentity struct {
	deleted []uuid.UUID
	err     error
}

func (f *fakeIdentity) DeleteIdentity(_ context.Context, userID uuid.UUID) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, userID)
	return nil
}
