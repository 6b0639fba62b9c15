package controller

import (
	"iaprender_backend/internal/service"
	"iaprender_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
	UserService *service.UserService
}

func NewAuthController(authService *service.AuthService, userService *service.UserService) *AuthController {
	return &AuthController{
		AuthService: authService,
		UserService: userService,
	}
}

// RegisterRequest defines model for registration
// swagger:model RegisterRequest
type RegisterRequest struct {
	DisplayName string `json:"displayName"`
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
}

// LoginRequest defines model for login
// swagger:model LoginRequest
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register godoc
// @Summary Create a student account
// @Tags auth
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "Account data"
// @Success 201 {object} util.Response{data=model.User}
// @Failure 400 {object} util.Response "Invalid email or weak password"
// @Failure 409 {object} util.Response "Email already in use"
// @Router /api/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.AuthService.SignUp(ctx.Request.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Created(ctx, user)
}

// Login godoc
// @Summary Sign in
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Credentials"
// @Success 200 {object} util.Response{data=service.SignInResult}
// @Failure 401 {object} util.Response "Unknown user or wrong password"
// @Failure 429 {object} util.Response "Too many failed attempts"
// @Router /api/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	res, err := c.AuthService.SignIn(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, res)
}

// Logout godoc
// @Summary Sign out and revoke the current token
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	if err := c.AuthService.SignOut(ctx.Request.Context(), util.GetUserFromContext(ctx)); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// Profile godoc
// @Summary Current user and session
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=map[string]interface{}}
// @Router /api/profile [get]
func (c *AuthController) Profile(ctx *gin.Context) {
	session, err := c.AuthService.CurrentSession(util.GetUserFromContext(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	user, err := c.UserService.Profile(session.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"user":    user,
		"session": session,
	})
}
