package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/chekinn-backend/internal/http/response"
	"github.com/yungbote/chekinn-backend/internal/services"
)

type LearningHandler struct {
	learnings services.LearningService
}

func NewLearningHandler(learnings services.LearningService) *LearningHandler {
	return &LearningHandler{learnings: learnings}
}

// GET /api/learnings/:user_id
func (h *LearningHandler) Get(c *gin.Context) {
	userID, err := uuidParam(c, "user_id")
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	l, err := h.learnings.Get(c.Request.Context(), userID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"user_id": userID, "learnings": l})
}
