package matching

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/chekinn-backend/internal/data/repos"
	types "github.com/yungbote/chekinn-backend/internal/domain"
	"github.com/yungbote/chekinn-backend/internal/observability"
	"github.com/yungbote/chekinn-backend/internal/pkg/apperr"
	"github.com/yungbote/chekinn-backend/internal/pkg/dbctx"
	"github.com/yungbote/chekinn-backend/internal/pkg/logger"
)

// PairEvaluator judges one pair. Implementations must not fail; problems are
// reported as FailedVerdict.
type PairEvaluator interface {
	Evaluate(ctx context.Context, a, b UserView) Verdict
}

type Config struct {
	// CandidatePool caps how many candidates are evaluated per run.
	CandidatePool int
	// MaxSuggestions is used when the caller passes maxMatches <= 0.
	MaxSuggestions int
	// Concurrency bounds in-flight evaluations.
	Concurrency int
	Threshold   float64
}

func DefaultConfig() Config {
	return Config{
		CandidatePool:  20,
		MaxSuggestions: 3,
		Concurrency:    4,
		Threshold:      MatchThreshold,
	}
}

type Pipeline struct {
	users     repos.UserProfileRepo
	learnings repos.LearningProfileRepo
	selector  *Selector
	evaluator PairEvaluator
	cfg       Config
	log       *logger.Logger
	metrics   *observability.Metrics
}

func NewPipeline(
	users repos.UserProfileRepo,
	learnings repos.LearningProfileRepo,
	selector *Selector,
	evaluator PairEvaluator,
	cfg Config,
	log *logger.Logger,
	metrics *observability.Metrics,
) *Pipeline {
	def := DefaultConfig()
	if cfg.CandidatePool <= 0 {
		cfg.CandidatePool = def.CandidatePool
	}
	if cfg.MaxSuggestions <= 0 {
		cfg.MaxSuggestions = def.MaxSuggestions
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = def.Concurrency
	}
	// MatchThreshold is a floor; configuration may only raise it
	if cfg.Threshold < MatchThreshold {
		cfg.Threshold = MatchThreshold
	}
	return &Pipeline{
		users:     users,
		learnings: learnings,
		selector:  selector,
		evaluator: evaluator,
		cfg:       cfg,
		log:       log.With("module", "MatchPipeline"),
		metrics:   metrics,
	}
}

// GenerateSuggestions ranks candidates for userID. It returns an empty list
// when the user is unknown or closed to introductions. If ctx is cancelled
// before every evaluation finishes, nothing is returned but ctx.Err().
func (p *Pipeline) GenerateSuggestions(ctx context.Context, userID uuid.UUID, maxMatches int) ([]Suggestion, error) {
	const op = "matching.GenerateSuggestions"
	ctx, span := observability.StartSpan(ctx, op, attribute.String("user_id", userID.String()))
	defer span.End()

	if maxMatches <= 0 {
		maxMatches = p.cfg.MaxSuggestions
	}
	dbc := dbctx.New(ctx)

	requester, err := p.users.GetByID(dbc, userID)
	if err != nil {
		p.metrics.ObserveMatchRun("error", 0)
		return nil, apperr.MapError(op, err)
	}
	if requester == nil || !requester.OpenToIntros {
		p.metrics.ObserveMatchRun("ineligible", 0)
		return []Suggestion{}, nil
	}

	ids, err := p.selector.SelectFor(ctx, requester, p.cfg.CandidatePool)
	if err != nil {
		p.metrics.ObserveMatchRun("error", 0)
		return nil, err
	}
	if len(ids) == 0 {
		p.metrics.ObserveMatchRun("ok", 0)
		return []Suggestion{}, nil
	}

	self, candidates, err := p.loadViews(dbc, requester, ids)
	if err != nil {
		p.metrics.ObserveMatchRun("error", 0)
		return nil, apperr.MapError(op, err)
	}

	verdicts := make([]Verdict, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Concurrency)
	for i := range candidates {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			verdicts[i] = p.evaluator.Evaluate(gctx, self, candidates[i])
			return nil
		})
	}
	waitErr := g.Wait()
	if err := ctx.Err(); err != nil {
		p.metrics.ObserveMatchRun("cancelled", 0)
		return nil, err
	}
	if waitErr != nil {
		p.metrics.ObserveMatchRun("error", 0)
		return nil, waitErr
	}

	out := Rank(candidates, verdicts, p.cfg.Threshold, maxMatches)
	p.metrics.ObserveMatchRun("ok", len(out))
	span.SetAttributes(attribute.Int("candidates", len(candidates)), attribute.Int("suggestions", len(out)))
	p.log.Info("suggestions generated", "user_id", userID, "candidates", len(candidates), "suggestions", len(out))
	return out, nil
}

// Rank keeps positive verdicts at or above threshold, orders them by score
// descending (ties keep candidate order) and truncates to max.
func Rank(candidates []UserView, verdicts []Verdict, threshold float64, max int) []Suggestion {
	out := make([]Suggestion, 0, len(candidates))
	for i, v := range verdicts {
		if !v.ShouldMatch || v.Score < threshold {
			continue
		}
		out = append(out, Suggestion{UserID: candidates[i].ID, Score: v.Score, Reason: v.Reason})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if max >= 0 && len(out) > max {
		out = out[:max]
	}
	return out
}

// loadViews returns the requester view and candidate views in ids order.
// Candidates deleted since selection are dropped.
func (p *Pipeline) loadViews(dbc dbctx.Context, requester *types.UserProfile, ids []uuid.UUID) (UserView, []UserView, error) {
	profiles, err := p.users.GetByIDs(dbc, ids)
	if err != nil {
		return UserView{}, nil, err
	}
	learned, err := p.learnings.GetByUserIDs(dbc, append([]uuid.UUID{requester.ID}, ids...))
	if err != nil {
		return UserView{}, nil, err
	}

	byUser := make(map[uuid.UUID]*types.LearningProfile, len(learned))
	for _, l := range learned {
		byUser[l.UserID] = l
	}
	byID := make(map[uuid.UUID]*types.UserProfile, len(profiles))
	for _, prof := range profiles {
		byID[prof.ID] = prof
	}

	candidates := make([]UserView, 0, len(ids))
	for _, id := range ids {
		prof, ok := byID[id]
		if !ok {
			continue
		}
		candidates = append(candidates, NewUserView(prof, byUser[id]))
	}
	return NewUserView(requester, byUser[requester.ID]), candidates, nil
}
