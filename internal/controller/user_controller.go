package controller

import (
	"iaprender_backend/internal/model"
	"iaprender_backend/internal/service"
	"iaprender_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// UserController serves the teacher's student views and the admin role
// change.
type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

// UpdateRoleRequest
// swagger:model UpdateRoleRequest
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=student teacher admin"`
}

// ListStudents godoc
// @Summary Every student with their progress
// @Tags teacher
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.StudentProgress}
// @Router /api/teacher/students [get]
func (c *UserController) ListStudents(ctx *gin.Context) {
	students, err := c.UserService.ListStudentsWithProgress(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, students)
}

// StudentDetail godoc
// @Summary One student's progress and submissions
// @Tags teacher
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} util.Response{data=service.StudentDetail}
// @Failure 404 {object} util.Response
// @Router /api/teacher/students/{id} [get]
func (c *UserController) StudentDetail(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	detail, err := c.UserService.StudentDetail(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}

// Overview godoc
// @Summary Class dashboard: active students, average score, leaderboard
// @Tags teacher
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.Overview}
// @Router /api/teacher/overview [get]
func (c *UserController) Overview(ctx *gin.Context) {
	o, err := c.UserService.Overview(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, o)
}

// UpdateRole godoc
// @Summary Change a user's role
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param body body UpdateRoleRequest true "Role"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/users/{id}/role [put]
func (c *UserController) UpdateRole(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	var req UpdateRoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.UserService.UpdateRole(ctx.Request.Context(), id, model.UserRole(req.Role)); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": id, "role": req.Role})
}
