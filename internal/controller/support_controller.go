package controller

import (
	"iaprender_backend/internal/model"
	"iaprender_backend/internal/service"
	"iaprender_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// SupportController exposes the emotional-support triage flow.
type SupportController struct {
	SupportService *service.SupportService
}

func NewSupportController(supportService *service.SupportService) *SupportController {
	return &SupportController{SupportService: supportService}
}

// SelectMoodRequest
// swagger:model SelectMoodRequest
type SelectMoodRequest struct {
	Mood string `json:"mood" binding:"required"`
}

// SubmitSituationRequest
// swagger:model SubmitSituationRequest
type SubmitSituationRequest struct {
	Situation string `json:"situation" binding:"max=4000"`
}

// Moods godoc
// @Summary Selectable moods
// @Tags support
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]service.MoodOption}
// @Router /api/support/moods [get]
func (c *SupportController) Moods(ctx *gin.Context) {
	util.Success(ctx, c.SupportService.Moods())
}

// Session godoc
// @Summary Current triage step
// @Tags support
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.TriageSession}
// @Router /api/support/session [get]
func (c *SupportController) Session(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	util.Success(ctx, c.SupportService.Session(user.UserID))
}

// SelectMood godoc
// @Summary Choose a mood
// @Tags support
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SelectMoodRequest true "Mood"
// @Success 200 {object} util.Response{data=service.TriageSession}
// @Failure 409 {object} util.Response "Not at mood selection"
// @Router /api/support/session/mood [post]
func (c *SupportController) SelectMood(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SelectMoodRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	session, err := c.SupportService.SelectMood(user.UserID, model.Mood(req.Mood))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, session)
}

// Back godoc
// @Summary Return to mood selection
// @Tags support
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.TriageSession}
// @Router /api/support/session/back [post]
func (c *SupportController) Back(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	session, err := c.SupportService.Back(user.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, session)
}

// Submit godoc
// @Summary Describe the situation and receive guidance
// @Tags support
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SubmitSituationRequest true "Situation"
// @Success 200 {object} util.Response{data=service.TriageSession}
// @Router /api/support/session/submit [post]
func (c *SupportController) Submit(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SubmitSituationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	session, err := c.SupportService.Submit(ctx.Request.Context(), user.UserID, req.Situation)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, session)
}

// Restart godoc
// @Summary Start over
// @Tags support
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.TriageSession}
// @Router /api/support/session/restart [post]
func (c *SupportController) Restart(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	util.Success(ctx, c.SupportService.Restart(user.UserID))
}
