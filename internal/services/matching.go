package services

import (
	"context"

	"github.com/google/uuid"

	types "github.com/yungbote/chekinn-backend/internal/domain"
	"github.com/yungbote/chekinn-backend/internal/modules/matching"
	"github.com/yungbote/chekinn-backend/internal/pkg/apperr"
	"github.com/yungbote/chekinn-backend/internal/pkg/logger"
)

// GenerateResult lists what a generation run produced.
type GenerateResult struct {
	Suggestions []matching.Suggestion `json:"suggestions"`
	Created     []*types.Introduction `json:"created"`
	Skipped     int                   `json:"skipped"`
}

type MatchingService interface {
	// Generate ranks suggestions for userID and records each one as a
	// pending introduction. Pairs that already have a live introduction
	// are skipped.
	Generate(ctx context.Context, userID uuid.UUID, maxMatches int) (*GenerateResult, error)
}

type matchingService struct {
	log      *logger.Logger
	pipeline *matching.Pipeline
	intros   IntroService
}

func NewMatchingService(log *logger.Logger, pipeline *matching.Pipeline, intros IntroService) MatchingService {
	return &matchingService{
		log:      log.With("service", "MatchingService"),
		pipeline: pipeline,
		intros:   intros,
	}
}

func (s *matchingService) Generate(ctx context.Context, userID uuid.UUID, maxMatches int) (*GenerateResult, error) {
	const op = "matching.Generate"
	if userID == uuid.Nil {
		return nil, apperr.Validation(op, "missing user_id")
	}
	suggestions, err := s.pipeline.GenerateSuggestions(ctx, userID, maxMatches)
	if err != nil {
		return nil, err
	}

	out := &GenerateResult{Suggestions: suggestions, Created: []*types.Introduction{}}
	for _, sug := range suggestions {
		rec, err := s.intros.Create(ctx, userID, sug.UserID, sug.Reason, sug.Score)
		if apperr.IsCode(err, apperr.CodeConflict) {
			out.Skipped++
			continue
		}
		if err != nil {
			return out, err
		}
		out.Created = append(out.Created, rec)
	}
	s.log.Info("introductions generated", "user_id", userID, "suggested", len(suggestions), "created", len(out.Created), "skipped", out.Skipped)
	return out, nil
}
