package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/chekinn-backend/internal/modules/chat"
	"github.com/yungbote/chekinn-backend/internal/modules/learning"
	"github.com/yungbote/chekinn-backend/internal/modules/matching"
	"github.com/yungbote/chekinn-backend/internal/modules/oracle"
	"github.com/yungbote/chekinn-backend/internal/observability"
	"github.com/yungbote/chekinn-backend/internal/pkg/logger"
	"github.com/yungbote/chekinn-backend/internal/services"
)

type Services struct {
	User      services.UserService
	Learning  services.LearningService
	Chat      services.ChatService
	Intro     services.IntroService
	Matching  services.MatchingService
	Analytics services.AnalyticsService
}

// Oracles lets the companion, extraction and judgment calls use different
// clients. wireServices falls back to one shared client.
type Oracles struct {
	Companion  oracle.Client
	Extraction oracle.Client
	Judgment   oracle.Client
}

func sharedOracles(c oracle.Client) Oracles {
	return Oracles{Companion: c, Extraction: c, Judgment: c}
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, o Oracles, c Clients, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")

	learningSvc := services.NewLearningService(log, r.Learnings, learning.NewExtractor(o.Extraction), cfg.ExtractTimeout, metrics)
	introSvc := services.NewIntroService(log, r.Intros, r.Users, c.IntroBus, metrics)

	selector := matching.NewSelector(r.Users, r.States, log)
	evaluator := matching.NewEvaluator(o.Judgment, cfg.EvalTimeout, log, metrics)
	pipeline := matching.NewPipeline(r.Users, r.Learnings, selector, evaluator, cfg.Matching, log, metrics)

	return Services{
		User:     services.NewUserService(db, log, r.Users, r.States),
		Learning: learningSvc,
		Chat: services.NewChatService(db, log, r.Users, r.States, r.Messages, learningSvc,
			chat.NewTrackClassifier(log), chat.NewReplyGenerator(o.Companion),
			learning.EveryN{N: int64(cfg.ExtractEvery)}, metrics),
		Intro:     introSvc,
		Matching:  services.NewMatchingService(log, pipeline, introSvc),
		Analytics: services.NewAnalyticsService(log, r.Analytics),
	}
}
