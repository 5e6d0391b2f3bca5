package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/chekinn-backend/internal/data/repos"
	"github.com/yungbote/chekinn-backend/internal/pkg/logger"
)

type Repos struct {
	Users     repos.UserProfileRepo
	Learnings repos.LearningProfileRepo
	States    repos.ConversationStateRepo
	Messages  repos.ChatMessageRepo
	Intros    repos.IntroductionRepo
	Analytics repos.AnalyticsRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Users:     repos.NewUserProfileRepo(db, log),
		Learnings: repos.NewLearningProfileRepo(db, log),
		States:    repos.NewConversationStateRepo(db, log),
		Messages:  repos.NewChatMessageRepo(db, log),
		Intros:    repos.NewIntroductionRepo(db, log),
		Analytics: repos.NewAnalyticsRepo(db, log),
	}
}
