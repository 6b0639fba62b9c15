package controller

import (
	"iaprender_backend/internal/service"
	"iaprender_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ChatController struct {
	ConversationService *service.ConversationService
}

func NewChatController(conversationService *service.ConversationService) *ChatController {
	return &ChatController{ConversationService: conversationService}
}

// SendMessageRequest
// swagger:model SendMessageRequest
type SendMessageRequest struct {
	Text string `json:"text" binding:"required,max=2000"`
}

// SendMessage godoc
// @Summary Ask the tutor
// @Description Always answers; falls back to canned replies when the model is unavailable
// @Tags chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SendMessageRequest true "Message"
// @Success 200 {object} util.Response{data=map[string]string}
// @Router /api/chat/messages [post]
func (c *ChatController) SendMessage(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SendMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	reply, err := c.ConversationService.Respond(ctx.Request.Context(), user.UserID, req.Text)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"reply": reply})
}

// History godoc
// @Summary Tutor transcript, oldest first
// @Tags chat
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.ChatMessage}
// @Router /api/chat/messages [get]
func (c *ChatController) History(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	msgs, err := c.ConversationService.History(ctx.Request.Context(), user.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, msgs)
}
