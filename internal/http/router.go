package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/chekinn-backend/internal/http/handlers"
	httpMW "github.com/yungbote/chekinn-backend/internal/http/middleware"
	"github.com/yungbote/chekinn-backend/internal/observability"
	"github.com/yungbote/chekinn-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	CORSOrigins []string
	ServiceName string

	HealthHandler    *httpH.HealthHandler
	UserHandler      *httpH.UserHandler
	ChatHandler      *httpH.ChatHandler
	IntroHandler     *httpH.IntroHandler
	LearningHandler  *httpH.LearningHandler
	AnalyticsHandler *httpH.AnalyticsHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		if cfg.HealthHandler != nil {
			api.GET("/health", cfg.HealthHandler.APIHealth)
		}

		// Users
		if cfg.UserHandler != nil {
			api.POST("/users", cfg.UserHandler.Create)
			api.GET("/users/:id", cfg.UserHandler.Get)
			api.PATCH("/users/:id", cfg.UserHandler.Update)
		}

		// Chat
		if cfg.ChatHandler != nil {
			api.POST("/chat/message", cfg.ChatHandler.SendMessage)
			api.GET("/chat/history/:user_id", cfg.ChatHandler.History)
			api.POST("/track/select", cfg.ChatHandler.SelectTrack)
		}

		// Learnings
		if cfg.LearningHandler != nil {
			api.GET("/learnings/:user_id", cfg.LearningHandler.Get)
		}

		// Intros
		if cfg.IntroHandler != nil {
			api.GET("/intros/:user_id", cfg.IntroHandler.List)
			api.POST("/intros/action", cfg.IntroHandler.Action)
			api.POST("/intros/generate/:user_id", cfg.IntroHandler.Generate)
		}

		// Analytics
		if cfg.AnalyticsHandler != nil {
			api.GET("/analytics", cfg.AnalyticsHandler.Report)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"message": "route not found", "code": "not_found"}})
	})
	return r
}
