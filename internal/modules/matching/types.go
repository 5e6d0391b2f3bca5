package matching

import (
	"github.com/google/uuid"

	types "github.com/yungbote/chekinn-backend/internal/domain"
)

// MatchThreshold is the minimum score a positive verdict needs to be kept.
const MatchThreshold = 0.6

// UserView is what the evaluator sees of one user.
type UserView struct {
	ID          uuid.UUID
	Name        string
	City        string
	CurrentRole string
	Intent      string
	Learnings   types.Learnings
}

func NewUserView(p *types.UserProfile, l *types.LearningProfile) UserView {
	v := UserView{
		ID:          p.ID,
		Name:        p.Name,
		City:        p.City,
		CurrentRole: p.CurrentRole,
		Intent:      p.Intent,
	}
	if l != nil {
		v.Learnings = l.Data.Data()
	}
	return v
}

type Verdict struct {
	ShouldMatch bool    `json:"should_match"`
	Score       float64 `json:"score"`
	Reason      string  `json:"reason"`
}

// FailedVerdict stands in for any evaluation that could not be completed.
var FailedVerdict = Verdict{ShouldMatch: false, Score: 0, Reason: "evaluation failed"}

// Suggestion is a ranked candidate for the requester.
type Suggestion struct {
	UserID uuid.UUID `json:"user_id"`
	Score  float64   `json:"score"`
	Reason string    `json:"reason"`
}
