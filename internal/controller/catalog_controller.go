package controller

import (
	"iaprender_backend/internal/service"
	"iaprender_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// CatalogController serves quiz games, tech modules and the caller's
// progress.
type CatalogController struct {
	CatalogService  *service.CatalogService
	ProgressService *service.ProgressService
}

func NewCatalogController(catalogService *service.CatalogService, progressService *service.ProgressService) *CatalogController {
	return &CatalogController{
		CatalogService:  catalogService,
		ProgressService: progressService,
	}
}

// AttemptRequest holds the selected option per question; null marks an
// unanswered question.
// swagger:model AttemptRequest
type AttemptRequest struct {
	Answers []*int `json:"answers"`
}

// ListGames godoc
// @Summary List quiz games
// @Tags games
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]service.GameSummary}
// @Router /api/games [get]
func (c *CatalogController) ListGames(ctx *gin.Context) {
	util.Success(ctx, c.CatalogService.ListGames())
}

// GetGame godoc
// @Summary Quiz questions without the answer key
// @Tags games
// @Produce json
// @Security BearerAuth
// @Param id path string true "Game ID"
// @Success 200 {object} util.Response{data=service.GameSummary}
// @Failure 404 {object} util.Response
// @Router /api/games/{id} [get]
func (c *CatalogController) GetGame(ctx *gin.Context) {
	game, err := c.CatalogService.GetGame(ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, game)
}

// SubmitGameAttempt godoc
// @Summary Score a quiz attempt and record the completion
// @Tags games
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Game ID"
// @Param body body AttemptRequest true "Answers"
// @Success 200 {object} util.Response{data=service.AttemptResult}
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response "Progress could not be saved"
// @Router /api/games/{id}/attempts [post]
func (c *CatalogController) SubmitGameAttempt(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req AttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	res, err := c.CatalogService.SubmitGameAttempt(ctx.Request.Context(), user.UserID, ctx.Param("id"), req.Answers)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// ListModules godoc
// @Summary List technology modules
// @Tags modules
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]service.ModuleSummary}
// @Router /api/modules [get]
func (c *CatalogController) ListModules(ctx *gin.Context) {
	util.Success(ctx, c.CatalogService.ListModules())
}

// SubmitModuleAttempt godoc
// @Summary Score a module quiz and store the module result
// @Tags modules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Module ID"
// @Param body body AttemptRequest true "Answers"
// @Success 200 {object} util.Response{data=service.AttemptResult}
// @Failure 404 {object} util.Response
// @Router /api/modules/{id}/attempts [post]
func (c *CatalogController) SubmitModuleAttempt(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req AttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	res, err := c.CatalogService.SubmitModuleAttempt(ctx.Request.Context(), user.UserID, ctx.Param("id"), req.Answers)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// GetProgress godoc
// @Summary The caller's game and module progress
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.UserProgress}
// @Router /api/progress [get]
func (c *CatalogController) GetProgress(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	p, err := c.ProgressService.GetProgress(ctx.Request.Context(), user.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, p)
}
