package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/nagomiworks/utayomi-backend/internal/apperr"
	"github.com/nagomiworks/utayomi-backend/internal/models"
	"github.com/nagomiworks/utayomi-backend/internal/repository"
	"gorm.io/gorm"
)

// DailyGenerationCap is the number of poems one user may generate per
// calendar day.
const DailyGenerationCap = 1

// legacyDateLayout is the date-string format written by early releases.
const legacyDateLayout = "2006-01-02"

// DailyLimitService decides whether a user may generate today and records
// successful generations. "Today" is evaluated in a fixed reference
// timezone so the limit doesn't shift with the device clock.
//
// Two profile formats coexist in the store: a legacy date string and the
// newer timestamp+count pair. Both are interpreted at read time; no
// migration rewrites historical rows.
type DailyLimitService struct {
	profiles repository.ProfileRepository
	loc      *time.Location
	now      func() time.Time
}

func NewDailyLimitService(profiles repository.ProfileRepository, loc *time.Location) *DailyLimitService {
	return &DailyLimitService{
		profiles: profiles,
		loc:      loc,
		now:      time.Now,
	}
}

// Check returns nil when the user may generate, or a ResourceExhausted
// error carrying the next available instant (start of tomorrow).
func (s *DailyLimitService) Check(ctx context.Context, userID uuid.UUID) error {
	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return apperr.Wrap(apperr.Internal, "failed to load generation state", err)
	}

	used, usedToday := s.usageToday(profile)
	if usedToday && used >= DailyGenerationCap {
		return apperr.RateLimited(
			"daily tanka limit reached, come back tomorrow",
			s.startOfTomorrow(),
		)
	}
	return nil
}

// Record upserts the profile after a successful generation: count bumped
// if the previous generation was today, reset to 1 otherwise. The legacy
// date string is rewritten too so downgraded clients stay consistent.
func (s *DailyLimitService) Record(ctx context.Context, userID uuid.UUID) error {
	now := s.now().In(s.loc)
	today := now.Format(legacyDateLayout)

	count := 1
	createdAt := now
	if profile, err := s.profiles.Get(ctx, userID); err == nil {
		createdAt = profile.CreatedAt
		if used, usedToday := s.usageToday(profile); usedToday {
			count = used + 1
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Wrap(apperr.Internal, "failed to load generation state", err)
	}

	profile := &models.UserProfile{
		UserID:          userID,
		LastTankaDate:   &today,
		LastGeneratedAt: &now,
		DailyCount:      count,
		CreatedAt:       createdAt,
		UpdatedAt:       now,
	}
	if err := s.profiles.Upsert(ctx, profile); err != nil {
		return apperr.Wrap(apperr.Internal, "failed to record generation", err)
	}
	return nil
}

// usageToday resolves both profile formats to (count used today, whether
// the last generation was today). The timestamp wins when present; a
// timestamp row without an explicit count defaults to one use.
func (s *DailyLimitService) usageToday(profile *models.UserProfile) (int, bool) {
	today := s.now().In(s.loc).Format(legacyDateLayout)

	if profile.LastGeneratedAt != nil {
		if profile.LastGeneratedAt.In(s.loc).Format(legacyDateLayout) != today {
			return 0, false
		}
		if profile.DailyCount <= 0 {
			return 1, true
		}
		return profile.DailyCount, true
	}

	if profile.LastTankaDate != nil && *profile.LastTankaDate == today {
		return 1, true
	}
	return 0, false
}

func (s *DailyLimitService) startOfTomorrow() time.Time {
	now := s.now().In(s.loc)
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	return midnight.AddDate(0, 0, 1)
}
