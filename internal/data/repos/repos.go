package repos

import (
	"github.com/yungbote/chekinn-backend/internal/data/repos/analytics"
	"github.com/yungbote/chekinn-backend/internal/data/repos/chat"
	"github.com/yungbote/chekinn-backend/internal/data/repos/intro"
	"github.com/yungbote/chekinn-backend/internal/data/repos/learning"
	"github.com/yungbote/chekinn-backend/internal/data/repos/user"
	"github.com/yungbote/chekinn-backend/internal/pkg/logger"
	"gorm.io/gorm"
)

type UserProfileRepo = user.UserProfileRepo
type CandidateFilter = user.CandidateFilter

type LearningProfileRepo = learning.LearningProfileRepo

type ConversationStateRepo = chat.ConversationStateRepo
type ChatMessageRepo = chat.ChatMessageRepo

type IntroductionRepo = intro.IntroductionRepo
type IntroSide = intro.Side

type AnalyticsRepo = analytics.AnalyticsRepo
type AnalyticsCounts = analytics.Counts

const (
	IntroSideFrom = intro.SideFrom
	IntroSideTo   = intro.SideTo
)

var ErrActivePair = intro.ErrActivePair

func NewUserProfileRepo(db *gorm.DB, log *logger.Logger) UserProfileRepo {
	return user.NewUserProfileRepo(db, log)
}

func NewLearningProfileRepo(db *gorm.DB, log *logger.Logger) LearningProfileRepo {
	return learning.NewLearningProfileRepo(db, log)
}

func NewConversationStateRepo(db *gorm.DB, log *logger.Logger) ConversationStateRepo {
	return chat.NewConversationStateRepo(db, log)
}

func NewChatMessageRepo(db *gorm.DB, log *logger.Logger) ChatMessageRepo {
	return chat.NewChatMessageRepo(db, log)
}

func NewIntroductionRepo(db *gorm.DB, log *logger.Logger) IntroductionRepo {
	return intro.NewIntroductionRepo(db, log)
}

func NewAnalyticsRepo(db *gorm.DB, log *logger.Logger) AnalyticsRepo {
	return analytics.NewAnalyticsRepo(db, log)
}
