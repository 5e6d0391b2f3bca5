package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/chekinn-backend/internal/domain"
	"github.com/yungbote/chekinn-backend/internal/http/response"
	"github.com/yungbote/chekinn-backend/internal/pkg/apperr"
	"github.com/yungbote/chekinn-backend/internal/services"
)

type ChatHandler struct {
	chat services.ChatService
}

func NewChatHandler(chat services.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// POST /api/chat/message
// body: { "user_id": "...", "text": "...", "is_voice": false, "audio_duration": 3.2 }
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req services.SendMessageInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondAppError(c, apperr.Validation("http.chat.message", "invalid request body"))
		return
	}
	turn, err := h.chat.SendMessage(c.Request.Context(), req)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, turn)
}

// GET /api/chat/history/:user_id?limit=50
func (h *ChatHandler) History(c *gin.Context) {
	userID, err := uuidParam(c, "user_id")
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	limit, err := intQuery(c, "limit", 0)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	msgs, err := h.chat.History(c.Request.Context(), userID, limit)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"messages": msgs})
}

// POST /api/track/select
// body: { "user_id": "...", "track": "cat_mba" | "jobs_career" | "roast_play" }
func (h *ChatHandler) SelectTrack(c *gin.Context) {
	var req struct {
		UserID uuid.UUID   `json:"user_id"`
		Track  types.Track `json:"track"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondAppError(c, apperr.Validation("http.track.select", "invalid request body"))
		return
	}
	if err := h.chat.SelectTrack(c.Request.Context(), req.UserID, req.Track); err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"success": true, "track": req.Track})
}
