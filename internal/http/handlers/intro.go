package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/chekinn-backend/internal/domain"
	"github.com/yungbote/chekinn-backend/internal/http/response"
	"github.com/yungbote/chekinn-backend/internal/pkg/apperr"
	"github.com/yungbote/chekinn-backend/internal/services"
)

type IntroHandler struct {
	intros   services.IntroService
	matching services.MatchingService
}

func NewIntroHandler(intros services.IntroService, matching services.MatchingService) *IntroHandler {
	return &IntroHandler{intros: intros, matching: matching}
}

// GET /api/intros/:user_id
func (h *IntroHandler) List(c *gin.Context) {
	userID, err := uuidParam(c, "user_id")
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	views, err := h.intros.ListFor(c.Request.Context(), userID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"intros": views})
}

// POST /api/intros/action
// body: { "intro_id": "...", "action": "accept" | "decline" }
func (h *IntroHandler) Action(c *gin.Context) {
	var req struct {
		IntroID uuid.UUID         `json:"intro_id"`
		Action  types.IntroAction `json:"action"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondAppError(c, apperr.Validation("http.intros.action", "invalid request body"))
		return
	}
	rec, err := h.intros.ApplyAction(c.Request.Context(), req.IntroID, req.Action)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"success": true, "intro": rec})
}

// POST /api/intros/generate/:user_id?max=3
func (h *IntroHandler) Generate(c *gin.Context) {
	userID, err := uuidParam(c, "user_id")
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	max, err := intQuery(c, "max", 0)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	res, err := h.matching.Generate(c.Request.Context(), userID, max)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, res)
}
