package controller

import (
	"encoding/json"
	"strings"
	"time"

	"iaprender_backend/internal/model"
	"iaprender_backend/internal/service"
	"iaprender_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TaskController struct {
	TaskService *service.TaskService
}

func NewTaskController(taskService *service.TaskService) *TaskController {
	return &TaskController{TaskService: taskService}
}

// TaskRequest
// swagger:model TaskRequest
type TaskRequest struct {
	Title       string    `json:"title" binding:"required,max=255"`
	Description string    `json:"description"`
	Type        string    `json:"type" binding:"required,oneof=quiz exercise project reading"`
	DueDate     time.Time `json:"dueDate" binding:"required"`
	Points      int       `json:"points" binding:"gte=0"`
	AssignedTo  []uint    `json:"assignedTo"`
}

func (r TaskRequest) input() service.TaskInput {
	return service.TaskInput{
		Title:       r.Title,
		Description: r.Description,
		Type:        model.TaskType(r.Type),
		DueDate:     r.DueDate,
		Points:      r.Points,
		AssignedTo:  r.AssignedTo,
	}
}

// SubmissionRequest
// swagger:model SubmissionRequest
type SubmissionRequest struct {
	Content string                 `json:"content"`
	Payload map[string]interface{} `json:"payload"`
}

// GradeRequest
// swagger:model GradeRequest
type GradeRequest struct {
	Grade    *int   `json:"grade" binding:"required"`
	Feedback string `json:"feedback"`
}

func actor(claims *util.Claims) service.Actor {
	return service.Actor{ID: claims.UserID, Role: claims.Role}
}

// CreateTask godoc
// @Summary Create a task
// @Tags teacher-tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body TaskRequest true "Task"
// @Success 201 {object} util.Response{data=model.Task}
// @Failure 400 {object} util.Response
// @Router /api/teacher/tasks [post]
func (c *TaskController) CreateTask(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req TaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	task, err := c.TaskService.CreateTask(user.UserID, req.input())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, task)
}

// ListTeacherTasks godoc
// @Summary Tasks created by the caller, newest first
// @Tags teacher-tasks
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Task}
// @Router /api/teacher/tasks [get]
func (c *TaskController) ListTeacherTasks(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	tasks, err := c.TaskService.ListByTeacher(user.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, tasks)
}

// UpdateTask godoc
// @Summary Update a task
// @Tags teacher-tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Param body body TaskRequest true "Task"
// @Success 200 {object} util.Response{data=model.Task}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/teacher/tasks/{id} [put]
func (c *TaskController) UpdateTask(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	var req TaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	task, err := c.TaskService.UpdateTask(actor(user), id, req.input())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, task)
}

// DeleteTask godoc
// @Summary Delete a task with its submissions
// @Tags teacher-tasks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/tasks/{id} [delete]
func (c *TaskController) DeleteTask(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	if err := c.TaskService.DeleteTask(actor(user), id); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// ListSubmissions godoc
// @Summary Submissions of a task, newest first
// @Tags teacher-tasks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Success 200 {object} util.Response{data=[]model.TaskSubmission}
// @Router /api/teacher/tasks/{id}/submissions [get]
func (c *TaskController) ListSubmissions(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	subs, err := c.TaskService.ListSubmissions(actor(user), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, subs)
}

// GradeSubmission godoc
// @Summary Grade a submission (once)
// @Tags teacher-tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Submission ID"
// @Param body body GradeRequest true "Grade"
// @Success 200 {object} util.Response{data=model.TaskSubmission}
// @Failure 409 {object} util.Response "Already graded"
// @Router /api/teacher/submissions/{id}/grade [post]
func (c *TaskController) GradeSubmission(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	var req GradeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	sub, err := c.TaskService.Grade(actor(user), id, *req.Grade, req.Feedback)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, sub)
}

// MyTasks godoc
// @Summary Tasks assigned to the caller, earliest due first
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=map[string]interface{}}
// @Router /api/tasks [get]
func (c *TaskController) MyTasks(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	tasks, err := c.TaskService.ListForStudent(user.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	subs, err := c.TaskService.MySubmissions(user.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"tasks":       tasks,
		"submissions": subs,
	})
}

// Submit godoc
// @Summary Submit an assigned task
// @Description JSON body, or multipart form with content, payload (JSON) and an optional file
// @Tags tasks
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Param body body SubmissionRequest false "Submission"
// @Success 201 {object} util.Response{data=model.TaskSubmission}
// @Failure 403 {object} util.Response "Not assigned"
// @Failure 409 {object} util.Response "Already submitted"
// @Router /api/tasks/{id}/submissions [post]
func (c *TaskController) Submit(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	var in service.SubmissionInput
	if strings.HasPrefix(ctx.ContentType(), "multipart/") {
		in.Content = ctx.PostForm("content")
		if raw := ctx.PostForm("payload"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &in.Payload); err != nil {
				util.BadRequest(ctx, "payload inválido")
				return
			}
		}
		if fh, err := ctx.FormFile("file"); err == nil {
			f, err := fh.Open()
			if err != nil {
				util.LogInternalError(ctx, err)
				return
			}
			defer f.Close()
			in.Attachment = &service.Attachment{Name: fh.Filename, Size: fh.Size, Reader: f}
		}
	} else {
		var req SubmissionRequest
		if err := ctx.ShouldBindJSON(&req); err != nil {
			util.BadRequest(ctx, err.Error())
			return
		}
		in.Content = req.Content
		in.Payload = req.Payload
	}

	sub, err := c.TaskService.Submit(ctx.Request.Context(), user.UserID, id, in)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, sub)
}
