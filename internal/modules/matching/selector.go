package matching

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/chekinn-backend/internal/data/repos"
	types "github.com/yungbote/chekinn-backend/internal/domain"
	"github.com/yungbote/chekinn-backend/internal/pkg/apperr"
	"github.com/yungbote/chekinn-backend/internal/pkg/dbctx"
	"github.com/yungbote/chekinn-backend/internal/pkg/logger"
)

// Selector finds users eligible to be suggested to a requester.
type Selector struct {
	users  repos.UserProfileRepo
	states repos.ConversationStateRepo
	log    *logger.Logger
}

func NewSelector(users repos.UserProfileRepo, states repos.ConversationStateRepo, log *logger.Logger) *Selector {
	return &Selector{users: users, states: states, log: log.With("module", "MatchSelector")}
}

// Select returns at most limit candidate ids in discovery order.
func (s *Selector) Select(ctx context.Context, userID uuid.UUID, limit int) ([]uuid.UUID, error) {
	const op = "matching.Select"
	requester, err := s.users.GetByID(dbctx.New(ctx), userID)
	if err != nil {
		return nil, apperr.MapError(op, err)
	}
	if requester == nil {
		return nil, apperr.NotFound(op, "user %s not found", userID)
	}
	return s.SelectFor(ctx, requester, limit)
}

// SelectFor is Select with the requester already loaded.
//
// Candidates are other users open to introductions, in the requester's city
// when the requester has one, not already introduced by the requester, and
// not on a different track when both tracks are known.
func (s *Selector) SelectFor(ctx context.Context, requester *types.UserProfile, limit int) ([]uuid.UUID, error) {
	const op = "matching.Select"
	dbc := dbctx.New(ctx)

	track := types.TrackNone
	state, err := s.states.GetByUserID(dbc, requester.ID)
	if err != nil {
		return nil, apperr.MapError(op, err)
	}
	if state != nil {
		track = state.CurrentTrack
	}

	ids, err := s.users.ListCandidateIDs(dbc, repos.CandidateFilter{
		RequesterID: requester.ID,
		City:        requester.City,
		Track:       track,
		Limit:       limit,
	})
	if err != nil {
		return nil, apperr.MapError(op, err)
	}
	s.log.Debug("candidates selected", "user_id", requester.ID, "count", len(ids), "track", track)
	return ids, nil
}
