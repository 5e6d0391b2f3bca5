package domain

import (
	"github.com/yungbote/chekinn-backend/internal/domain/chat"
	"github.com/yungbote/chekinn-backend/internal/domain/intro"
	"github.com/yungbote/chekinn-backend/internal/domain/learning"
	"github.com/yungbote/chekinn-backend/internal/domain/user"
)

const (
	ModeVoice = user.ModeVoice
	ModeText  = user.ModeText

	TrackNone       = chat.TrackNone
	TrackCatMBA     = chat.TrackCatMBA
	TrackJobsCareer = chat.TrackJobsCareer
	TrackRoastPlay  = chat.TrackRoastPlay

	RoleUser      = chat.RoleUser
	RoleAssistant = chat.RoleAssistant

	IntroStatusPending  = intro.StatusPending
	IntroStatusAccepted = intro.StatusAccepted
	IntroStatusDeclined = intro.StatusDeclined

	IntroActionAccept  = intro.ActionAccept
	IntroActionDecline = intro.ActionDecline
)

type (
	UserProfile = user.UserProfile

	Learnings       = learning.Learnings
	LearningProfile = learning.LearningProfile
	Person          = learning.Person
	LifeEvent       = learning.LifeEvent

	Track             = chat.Track
	ConversationState = chat.ConversationState
	ChatMessage       = chat.ChatMessage

	Introduction = intro.Introduction
	IntroStatus  = intro.Status
	IntroAction  = intro.Action
)

var IntroPairKey = intro.PairKey
