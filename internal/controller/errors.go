package controller

import (
	"errors"
	"net/http"

	"iaprender_backend/internal/service"
	"iaprender_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto the response envelope.
func respondError(ctx *gin.Context, err error) {
	var authErr *service.AuthError
	switch {
	case errors.As(err, &authErr):
		util.Error(ctx, authStatus(authErr.Code), authErr.Code.Message())
	case errors.Is(err, util.ErrNotAuthenticated):
		util.Unauthorized(ctx)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrQuizNotFound):
		util.Error(ctx, http.StatusNotFound, "Quiz não encontrado")
	case errors.Is(err, util.ErrModuleNotFound):
		util.Error(ctx, http.StatusNotFound, "Módulo não encontrado")
	case errors.Is(err, util.ErrTaskNotFound):
		util.Error(ctx, http.StatusNotFound, "Tarefa não encontrada")
	case errors.Is(err, util.ErrUserNotFound):
		util.Error(ctx, http.StatusNotFound, util.ErrUserNotFound.Error())
	case errors.Is(err, util.ErrNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrNotAssigned):
		util.Error(ctx, http.StatusForbidden, "Tarefa não atribuída a você")
	case errors.Is(err, util.ErrAlreadySubmitted):
		util.Conflict(ctx, "Tarefa já entregue")
	case errors.Is(err, util.ErrAlreadyGraded):
		util.Conflict(ctx, "Entrega já avaliada")
	case errors.Is(err, util.ErrConflict):
		util.Conflict(ctx, "Não foi possível salvar seu progresso. Tente novamente.")
	case errors.Is(err, util.ErrInvalidTransition):
		util.Conflict(ctx, "Etapa inválida")
	case errors.Is(err, util.ErrInvalidInput), errors.Is(err, util.ErrInvalidRole),
		errors.Is(err, service.ErrEmptyMessage):
		util.BadRequest(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

func authStatus(code service.AuthErrorCode) int {
	switch code {
	case service.AuthUserNotFound, service.AuthWrongPassword:
		return http.StatusUnauthorized
	case service.AuthEmailInUse:
		return http.StatusConflict
	case service.AuthTooManyRequests:
		return http.StatusTooManyRequests
	case service.AuthUnknown:
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}

func parseID(ctx *gin.Context, name string) (uint, bool) {
	id, ok := util.ParseID(ctx.Param(name))
	if !ok {
		util.BadRequest(ctx, "ID inválido")
		return 0, false
	}
	return id, true
}
