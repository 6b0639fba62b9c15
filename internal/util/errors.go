package util

import "errors"

var (
	ErrNotAuthenticated  = errors.New("not authenticated")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrNotFound          = errors.New("not found")
	ErrUserNotFound      = errors.New("usuário não encontrado")
	ErrConflict          = errors.New("concurrent modification: retries exhausted")
	ErrQuizNotFound      = errors.New("quiz not found")
	ErrModuleNotFound    = errors.New("module not found")
	ErrTaskNotFound      = errors.New("task not found")
	ErrNotAssigned       = errors.New("task not assigned to student")
	ErrAlreadySubmitted  = errors.New("task already submitted")
	ErrAlreadyGraded     = errors.New("submission already graded")
	ErrInvalidTransition = errors.New("invalid step transition")
	ErrInvalidRole       = errors.New("invalid role")
	ErrInvalidInput      = errors.New("invalid input")
)
