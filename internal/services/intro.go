package services

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/chekinn-backend/internal/clients/redis"
	"github.com/yungbote/chekinn-backend/internal/data/repos"
	types "github.com/yungbote/chekinn-backend/internal/domain"
	"github.com/yungbote/chekinn-backend/internal/observability"
	"github.com/yungbote/chekinn-backend/internal/pkg/apperr"
	"github.com/yungbote/chekinn-backend/internal/pkg/dbctx"
	"github.com/yungbote/chekinn-backend/internal/pkg/logger"
)

// IntroParty summarizes the other side of an introduction.
type IntroParty struct {
	UserID      uuid.UUID `json:"user_id"`
	Name        string    `json:"name"`
	City        string    `json:"city,omitempty"`
	CurrentRole string    `json:"current_role,omitempty"`
}

// IntroView is an introduction as seen by one of its parties.
type IntroView struct {
	ID        uuid.UUID         `json:"id"`
	Direction string            `json:"direction"`
	Other     IntroParty        `json:"other"`
	Reason    string            `json:"reason"`
	Score     float64           `json:"score"`
	Status    types.IntroStatus `json:"status"`
	IsNew     bool              `json:"is_new"`
	CreatedAt time.Time         `json:"created_at"`
}

const (
	IntroDirectionSent     = "sent"
	IntroDirectionReceived = "received"
)

type IntroService interface {
	Create(ctx context.Context, from, to uuid.UUID, reason string, score float64) (*types.Introduction, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Introduction, error)
	// ListFor returns the user's introductions newest first. Each party sees
	// IsNew=true on a record exactly once.
	ListFor(ctx context.Context, userID uuid.UUID) ([]IntroView, error)
	ApplyAction(ctx context.Context, id uuid.UUID, action types.IntroAction) (*types.Introduction, error)
}

type introService struct {
	log     *logger.Logger
	intros  repos.IntroductionRepo
	users   repos.UserProfileRepo
	bus     redis.IntroBus
	metrics *observability.Metrics
}

func NewIntroService(log *logger.Logger, intros repos.IntroductionRepo, users repos.UserProfileRepo, bus redis.IntroBus, metrics *observability.Metrics) IntroService {
	if bus == nil {
		bus = redis.NopIntroBus{}
	}
	return &introService{
		log:     log.With("service", "IntroService"),
		intros:  intros,
		users:   users,
		bus:     bus,
		metrics: metrics,
	}
}

func (s *introService) Create(ctx context.Context, from, to uuid.UUID, reason string, score float64) (*types.Introduction, error) {
	const op = "intro.Create"
	switch {
	case from == uuid.Nil || to == uuid.Nil:
		return nil, apperr.Validation(op, "from_user_id and to_user_id are required")
	case from == to:
		return nil, apperr.Validation(op, "cannot introduce a user to themselves")
	case math.IsNaN(score) || score < 0 || score > 1:
		return nil, apperr.Validation(op, "score must be between 0 and 1")
	}

	rec := &types.Introduction{
		FromUserID: from,
		ToUserID:   to,
		Reason:     strings.TrimSpace(reason),
		Score:      score,
		Status:     types.IntroStatusPending,
	}
	if err := s.intros.Create(dbctx.New(ctx), rec); err != nil {
		if errors.Is(err, repos.ErrActivePair) || apperr.IsUniqueViolation(err) {
			s.metrics.IncIntroEvent("duplicate")
			return nil, apperr.Conflict(op, "an introduction between these users already exists")
		}
		return nil, apperr.MapError(op, err)
	}
	s.metrics.IncIntroEvent("created")
	s.publish(ctx, redis.IntroEventCreated, rec)
	return rec, nil
}

func (s *introService) Get(ctx context.Context, id uuid.UUID) (*types.Introduction, error) {
	const op = "intro.Get"
	rec, err := s.intros.GetByID(dbctx.New(ctx), id)
	if err != nil {
		return nil, apperr.MapError(op, err)
	}
	if rec == nil {
		return nil, apperr.NotFound(op, "introduction %s not found", id)
	}
	return rec, nil
}

func (s *introService) ListFor(ctx context.Context, userID uuid.UUID) ([]IntroView, error) {
	const op = "intro.ListFor"
	if userID == uuid.Nil {
		return nil, apperr.Validation(op, "missing user_id")
	}
	dbc := dbctx.New(ctx)
	recs, err := s.intros.ListForUser(dbc, userID, 0)
	if err != nil {
		return nil, apperr.MapError(op, err)
	}
	out := make([]IntroView, 0, len(recs))
	if len(recs) == 0 {
		return out, nil
	}

	otherIDs := make([]uuid.UUID, 0, len(recs))
	for _, r := range recs {
		otherIDs = append(otherIDs, r.Other(userID))
	}
	profiles, err := s.users.GetByIDs(dbc, otherIDs)
	if err != nil {
		return nil, apperr.MapError(op, err)
	}
	byID := make(map[uuid.UUID]*types.UserProfile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}

	// the conditional flip is the read-once signal; whichever caller
	// performs it is the one that reports the record as new
	bySide := map[repos.IntroSide][]uuid.UUID{}
	for _, r := range recs {
		side := repos.IntroSideTo
		if r.FromUserID == userID {
			side = repos.IntroSideFrom
		}
		bySide[side] = append(bySide[side], r.ID)
	}
	flipped := map[repos.IntroSide]map[uuid.UUID]bool{}
	for side, ids := range bySide {
		got, err := s.intros.MarkNotifiedMany(dbc, ids, side)
		if err != nil {
			return nil, apperr.MapError(op, err)
		}
		flipped[side] = got
	}

	for _, r := range recs {
		side, dir := repos.IntroSideTo, IntroDirectionReceived
		if r.FromUserID == userID {
			side, dir = repos.IntroSideFrom, IntroDirectionSent
		}
		isNew := flipped[side][r.ID]
		if isNew {
			s.metrics.IncNotification(string(side))
		}

		other := IntroParty{UserID: r.Other(userID)}
		if p := byID[other.UserID]; p != nil {
			other.Name = p.Name
			other.City = p.City
			other.CurrentRole = p.CurrentRole
		}
		out = append(out, IntroView{
			ID:        r.ID,
			Direction: dir,
			Other:     other,
			Reason:    r.Reason,
			Score:     r.Score,
			Status:    r.Status,
			IsNew:     isNew,
			CreatedAt: r.CreatedAt,
		})
	}
	return out, nil
}

func (s *introService) ApplyAction(ctx context.Context, id uuid.UUID, action types.IntroAction) (*types.Introduction, error) {
	const op = "intro.ApplyAction"
	target, ok := action.Target()
	if !ok {
		return nil, apperr.Validation(op, "unknown action %q", action)
	}
	if id == uuid.Nil {
		return nil, apperr.Validation(op, "missing intro_id")
	}
	dbc := dbctx.New(ctx)

	moved, err := s.intros.Transition(dbc, id, target)
	if err != nil {
		return nil, apperr.MapError(op, err)
	}
	rec, err := s.intros.GetByID(dbc, id)
	if err != nil {
		return nil, apperr.MapError(op, err)
	}
	if rec == nil {
		return nil, apperr.NotFound(op, "introduction %s not found", id)
	}
	if !moved {
		return nil, apperr.Conflict(op, "introduction %s is already %s", id, rec.Status)
	}

	s.metrics.IncIntroEvent(string(target))
	ev := redis.IntroEventAccepted
	if target == types.IntroStatusDeclined {
		ev = redis.IntroEventDeclined
	}
	s.publish(ctx, ev, rec)
	return rec, nil
}

// publish is best effort; the record is already committed.
func (s *introService) publish(ctx context.Context, kind string, rec *types.Introduction) {
	err := s.bus.Publish(ctx, redis.IntroEvent{
		Type:       kind,
		IntroID:    rec.ID,
		FromUserID: rec.FromUserID,
		ToUserID:   rec.ToUserID,
		Status:     string(rec.Status),
		Score:      rec.Score,
	})
	if err != nil {
		s.log.Warn("intro event publish failed", "intro_id", rec.ID, "event", kind, "error", err)
	}
}
