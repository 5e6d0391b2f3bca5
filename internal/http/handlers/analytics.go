package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/chekinn-backend/internal/http/response"
	"github.com/yungbote/chekinn-backend/internal/services"
)

type AnalyticsHandler struct {
	analytics services.AnalyticsService
}

func NewAnalyticsHandler(analytics services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// GET /api/analytics
func (h *AnalyticsHandler) Report(c *gin.Context) {
	r, err := h.analytics.Report(c.Request.Context())
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, r)
}
