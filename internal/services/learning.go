package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/yungbote/chekinn-backend/internal/data/repos"
	types "github.com/yungbote/chekinn-backend/internal/domain"
	"github.com/yungbote/chekinn-backend/internal/modules/learning"
	"github.com/yungbote/chekinn-backend/internal/observability"
	"github.com/yungbote/chekinn-backend/internal/pkg/apperr"
	"github.com/yungbote/chekinn-backend/internal/pkg/dbctx"
	"github.com/yungbote/chekinn-backend/internal/pkg/logger"
)

const maxMergeAttempts = 8

type LearningService interface {
	// Get returns the stored learnings, empty when none exist yet.
	Get(ctx context.Context, userID uuid.UUID) (types.Learnings, error)
	// Merge folds delta into the stored learnings and returns the result.
	Merge(ctx context.Context, userID uuid.UUID, delta types.Learnings) (types.Learnings, error)
	// ExtractAndMerge asks the extraction oracle about transcript and merges
	// what it found. A failed extraction leaves the profile untouched.
	ExtractAndMerge(ctx context.Context, userID uuid.UUID, transcript []learning.Turn) (types.Learnings, error)
}

type learningService struct {
	log       *logger.Logger
	repo      repos.LearningProfileRepo
	extractor *learning.Extractor
	timeout   time.Duration
	metrics   *observability.Metrics
}

func NewLearningService(
	log *logger.Logger,
	repo repos.LearningProfileRepo,
	extractor *learning.Extractor,
	timeout time.Duration,
	metrics *observability.Metrics,
) LearningService {
	return &learningService{
		log:       log.With("service", "LearningService"),
		repo:      repo,
		extractor: extractor,
		timeout:   timeout,
		metrics:   metrics,
	}
}

func (s *learningService) Get(ctx context.Context, userID uuid.UUID) (types.Learnings, error) {
	const op = "learning.Get"
	if userID == uuid.Nil {
		return types.Learnings{}, apperr.Validation(op, "missing user_id")
	}
	cur, err := s.repo.GetByUserID(dbctx.New(ctx), userID)
	if err != nil {
		return types.Learnings{}, apperr.MapError(op, err)
	}
	if cur == nil {
		return types.Learnings{}.Normalized(), nil
	}
	return cur.Data.Data().Normalized(), nil
}

func (s *learningService) Merge(ctx context.Context, userID uuid.UUID, delta types.Learnings) (types.Learnings, error) {
	const op = "learning.Merge"
	if userID == uuid.Nil {
		return types.Learnings{}, apperr.Validation(op, "missing user_id")
	}
	ctx, span := observability.StartSpan(ctx, op, attribute.String("user_id", userID.String()))
	defer span.End()
	dbc := dbctx.New(ctx)

	for attempt := 0; attempt < maxMergeAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return types.Learnings{}, err
		}
		cur, err := s.repo.GetByUserID(dbc, userID)
		if err != nil {
			s.metrics.IncLearningMerge("error")
			return types.Learnings{}, apperr.MapError(op, err)
		}

		var existing types.Learnings
		if cur != nil {
			existing = cur.Data.Data()
		}
		if delta.IsEmpty() {
			s.metrics.IncLearningMerge("noop")
			return existing.Normalized(), nil
		}
		merged := learning.Merge(existing, delta)

		var won bool
		if cur == nil {
			won, err = s.repo.InsertIfAbsent(dbc, userID, merged)
		} else {
			won, err = s.repo.CompareAndSwap(dbc, userID, cur.Version, merged)
		}
		if err != nil {
			s.metrics.IncLearningMerge("error")
			return types.Learnings{}, apperr.MapError(op, err)
		}
		if won {
			s.metrics.IncLearningMerge("merged")
			span.SetAttributes(attribute.Int("attempts", attempt+1))
			return merged, nil
		}
		s.metrics.IncMergeRetry()
		s.log.Debug("learning merge lost race, retrying", "user_id", userID, "attempt", attempt+1)
	}

	s.metrics.IncLearningMerge("conflict")
	return types.Learnings{}, apperr.Conflict(op, "learnings for user %s kept changing, gave up after %d attempts", userID, maxMergeAttempts)
}

func (s *learningService) ExtractAndMerge(ctx context.Context, userID uuid.UUID, transcript []learning.Turn) (types.Learnings, error) {
	const op = "learning.ExtractAndMerge"
	existing, err := s.Get(ctx, userID)
	if err != nil {
		return types.Learnings{}, err
	}
	if s.extractor == nil || len(transcript) == 0 {
		return existing, nil
	}

	octx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		octx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	start := time.Now()
	out := s.extractor.Extract(octx, transcript, existing)
	if !out.OK() {
		s.metrics.ObserveOracle("extraction", string(out.Failure.Kind), time.Since(start))
		s.metrics.IncLearningMerge("skipped")
		s.log.Warn("learning extraction failed, keeping existing profile", "op", op, "user_id", userID, "kind", out.Failure.Kind, "error", out.Failure.Err)
		return existing, nil
	}
	s.metrics.ObserveOracle("extraction", "ok", time.Since(start))
	return s.Merge(ctx, userID, out.Value)
}
