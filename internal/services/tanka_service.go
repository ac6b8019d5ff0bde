package services

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/nagomiworks/utayomi-backend/internal/apperr"
	"github.com/nagomiworks/utayomi-backend/internal/dto"
	"github.com/nagomiworks/utayomi-backend/internal/models"
	"github.com/nagomiworks/utayomi-backend/internal/provider"
	"github.com/nagomiworks/utayomi-backend/internal/repository"
)

const (
	minWorryLen = 10
	maxWorryLen = 300

	// A single rune making up this share of the trimmed text is treated
	// as gibberish ("aaaaaaaaaa") before we spend a provider call on it.
	dominantRuneRatio = 0.7
)

// TankaService runs the generation pipeline: validate, consult the daily
// limiter, call the provider, persist, then consume the day's quota.
// Quota is recorded after persisting so a failed persist does not cost
// the user their generation for the day.
type TankaService struct {
	tankas    repository.TankaRepository
	limiter   *DailyLimitService
	generator provider.Generator
}

func NewTankaService(tankas repository.TankaRepository, limiter *DailyLimitService, generator provider.Generator) *TankaService {
	return &TankaService{tankas: tankas, limiter: limiter, generator: generator}
}

func (s *TankaService) Generate(ctx context.Context, userID uuid.UUID, category, worryText string) (*dto.GenerateTankaResponse, error) {
	if !models.ValidCategory(category) {
		return nil, apperr.New(apperr.InvalidArgument, "category must be one of relationship, love, work, health, other")
	}
	if err := validateWorryText(worryText); err != nil {
		return nil, err
	}

	if err := s.limiter.Check(ctx, userID); err != nil {
		return nil, err
	}

	result, err := s.generator.GenerateTanka(ctx, category, worryText)
	if err != nil {
		slog.Error("tanka generation failed", "error", err, "user_id", userID.String(), "action", "generate_tanka")
		return nil, apperr.Wrap(apperr.Internal, "failed to generate tanka, please try again", err)
	}
	if !result.Valid {
		msg := "the worry text could not be turned into a tanka, please rephrase it"
		if result.Reason != "" {
			msg = result.Reason
		}
		return nil, apperr.New(apperr.InvalidArgument, msg)
	}

	tanka := &models.Tanka{
		ID:        uuid.New(),
		AuthorID:  userID,
		Category:  category,
		WorryText: worryText,
		TankaText: strings.TrimSpace(result.Tanka),
	}
	if err := s.tankas.Create(ctx, tanka); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to save tanka", err)
	}

	// Quota is consumed only after the poem is safely stored. A failed
	// Record still returns the poem: the user may get one extra
	// generation that day, which beats charging quota for nothing.
	if err := s.limiter.Record(ctx, userID); err != nil {
		slog.Error("failed to record generation", "error", err, "user_id", userID.String(), "action", "generate_tanka")
	}

	return &dto.GenerateTankaResponse{Tanka: dto.NewTankaResponse(tanka, false)}, nil
}

func validateWorryText(worryText string) error {
	trimmed := strings.TrimSpace(worryText)
	if trimmed == "" {
		return apperr.New(apperr.InvalidArgument, "worry text is required")
	}
	length := utf8.RuneCountInString(trimmed)
	if length < minWorryLen {
		return apperr.New(apperr.InvalidArgument, "worry text is too short, write at least 10 characters")
	}
	if length > maxWorryLen {
		return apperr.New(apperr.InvalidArgument, "worry text is too long, keep it under 300 characters")
	}

	counts := make(map[rune]int)
	max := 0
	for _, r := range trimmed {
		counts[r]++
		if counts[r] > max {
			max = counts[r]
		}
	}
	if float64(max) >= dominantRuneRatio*float64(length) {
		return apperr.New(apperr.InvalidArgument, "worry text looks like repeated characters, write about your worry")
	}
	return nil
}
