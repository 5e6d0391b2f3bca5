package app

import (
	"context"

	"gorm.io/gorm"

	httpserver "github.com/yungbote/chekinn-backend/internal/http"
	httpH "github.com/yungbote/chekinn-backend/internal/http/handlers"
	"github.com/yungbote/chekinn-backend/internal/observability"
	"github.com/yungbote/chekinn-backend/internal/pkg/logger"
)

type Handlers struct {
	Health    *httpH.HealthHandler
	User      *httpH.UserHandler
	Chat      *httpH.ChatHandler
	Intro     *httpH.IntroHandler
	Learning  *httpH.LearningHandler
	Analytics *httpH.AnalyticsHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, s Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:    httpH.NewHealthHandler(dbPinger(db)),
		User:      httpH.NewUserHandler(s.User),
		Chat:      httpH.NewChatHandler(s.Chat),
		Intro:     httpH.NewIntroHandler(s.Intro, s.Matching),
		Learning:  httpH.NewLearningHandler(s.Learning),
		Analytics: httpH.NewAnalyticsHandler(s.Analytics),
	}
}

func wireServer(log *logger.Logger, cfg Config, metrics *observability.Metrics, h Handlers) *httpserver.Server {
	return httpserver.NewServer(httpserver.RouterConfig{
		Log:              log,
		Metrics:          metrics,
		CORSOrigins:      cfg.CORSOrigins,
		ServiceName:      cfg.ServiceName,
		HealthHandler:    h.Health,
		UserHandler:      h.User,
		ChatHandler:      h.Chat,
		IntroHandler:     h.Intro,
		LearningHandler:  h.Learning,
		AnalyticsHandler: h.Analytics,
	})
}

func dbPinger(db *gorm.DB) httpH.Pinger {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}
