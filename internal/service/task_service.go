package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"iaprender_backend/internal/model"
	"iaprender_backend/internal/repository"
	"iaprender_backend/internal/util"
	"iaprender_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TaskInput carries the teacher-editable fields of a task.
type TaskInput struct {
	Title       string
	Description string
	Type        model.TaskType
	DueDate     time.Time
	Points      int
	AssignedTo  []uint
}

// Attachment is an uploaded file accompanying a submission.
type Attachment struct {
	Name   string
	Size   int64
	Reader io.Reader
}

type SubmissionInput struct {
	Content    string
	Payload    map[string]interface{}
	Attachment *Attachment
}

// Actor is the authenticated user performing a task operation.
type Actor struct {
	ID   uint
	Role model.UserRole
}

func (a Actor) owns(t *model.Task) bool {
	return a.Role == model.Admin || t.TeacherID == a.ID
}

type TaskService struct {
	TaskRepo       *repository.TaskRepository
	SubmissionRepo *repository.SubmissionRepository
	UserRepo       *repository.UserRepository
	Storage        *StorageService
	now            func() time.Time
}

func NewTaskService(
	taskRepo *repository.TaskRepository,
	submissionRepo *repository.SubmissionRepository,
	userRepo *repository.UserRepository,
	storage *StorageService,
) *TaskService {
	return &TaskService{
		TaskRepo:       taskRepo,
		SubmissionRepo: submissionRepo,
		UserRepo:       userRepo,
		Storage:        storage,
		now:            time.Now,
	}
}

func validTaskType(t model.TaskType) bool {
	switch t {
	case model.TaskQuiz, model.TaskExercise, model.TaskProject, model.TaskReading:
		return true
	}
	return false
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", util.ErrInvalidInput, fmt.Sprintf(format, args...))
}

func dedupIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// validate checks in and normalizes it in place.
func (s *TaskService) validate(in *TaskInput) error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return invalid("título é obrigatório")
	}
	if !validTaskType(in.Type) {
		return invalid("tipo de tarefa inválido: %q", in.Type)
	}
	if in.DueDate.IsZero() {
		return invalid("data de entrega é obrigatória")
	}
	if in.Points < 0 {
		return invalid("pontos não podem ser negativos")
	}

	in.AssignedTo = dedupIDs(in.AssignedTo)
	if len(in.AssignedTo) > 0 {
		n, err := s.UserRepo.CountByIDsAndRole(in.AssignedTo, model.Student)
		if err != nil {
			return err
		}
		if int(n) != len(in.AssignedTo) {
			return invalid("todos os destinatários devem ser alunos")
		}
	}
	return nil
}

func (s *TaskService) CreateTask(teacherID uint, in TaskInput) (*model.Task, error) {
	if err := s.validate(&in); err != nil {
		return nil, err
	}
	task := &model.Task{
		Title:       in.Title,
		Description: in.Description,
		Type:        in.Type,
		DueDate:     in.DueDate,
		Points:      in.Points,
		TeacherID:   teacherID,
		AssignedTo:  in.AssignedTo,
	}
	if err := s.TaskRepo.Create(task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) findTask(id uint) (*model.Task, error) {
	task, err := s.TaskRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrTaskNotFound
	}
	return task, err
}

// ownedTask loads task id and checks the actor may manage it.
func (s *TaskService) ownedTask(actor Actor, id uint) (*model.Task, error) {
	task, err := s.findTask(id)
	if err != nil {
		return nil, err
	}
	if !actor.owns(task) {
		return nil, util.ErrPermissionDenied
	}
	return task, nil
}

func (s *TaskService) UpdateTask(actor Actor, id uint, in TaskInput) (*model.Task, error) {
	task, err := s.ownedTask(actor, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(&in); err != nil {
		return nil, err
	}

	task.Title = in.Title
	task.Description = in.Description
	task.Type = in.Type
	task.DueDate = in.DueDate
	task.Points = in.Points
	task.AssignedTo = in.AssignedTo
	task.Assignments = nil
	if err := s.TaskRepo.Update(task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) DeleteTask(actor Actor, id uint) error {
	if _, err := s.ownedTask(actor, id); err != nil {
		return err
	}
	return s.TaskRepo.Delete(id)
}

func (s *TaskService) ListByTeacher(teacherID uint) ([]model.Task, error) {
	return s.TaskRepo.FindByTeacher(teacherID)
}

func (s *TaskService) ListForStudent(studentID uint) ([]model.Task, error) {
	return s.TaskRepo.FindForStudent(studentID)
}

// Submit records a student's answer to an assigned task. A student submits
// each task at most once.
func (s *TaskService) Submit(ctx context.Context, studentID, taskID uint, in SubmissionInput) (*model.TaskSubmission, error) {
	if _, err := s.findTask(taskID); err != nil {
		return nil, err
	}
	assigned, err := s.TaskRepo.IsAssigned(taskID, studentID)
	if err != nil {
		return nil, err
	}
	if !assigned {
		return nil, util.ErrNotAssigned
	}
	submitted, err := s.SubmissionRepo.Exists(taskID, studentID)
	if err != nil {
		return nil, err
	}
	if submitted {
		return nil, util.ErrAlreadySubmitted
	}

	content := strings.TrimSpace(in.Content)
	if content == "" && len(in.Payload) == 0 && in.Attachment == nil {
		return nil, invalid("a entrega está vazia")
	}

	sub := &model.TaskSubmission{
		TaskID:      taskID,
		StudentID:   studentID,
		Content:     content,
		Status:      model.SubmissionSubmitted,
		SubmittedAt: s.now(),
	}
	if len(in.Payload) > 0 {
		sub.Payload = datatypes.JSONMap(in.Payload)
	}

	var object string
	if in.Attachment != nil {
		prefix := fmt.Sprintf("submissions/%d/%d", taskID, studentID)
		name, url, err := s.Storage.SaveAttachment(ctx, prefix, in.Attachment.Name, in.Attachment.Reader, in.Attachment.Size)
		if err != nil {
			if errors.Is(err, util.ErrInvalidFileType) {
				return nil, invalid("%s", err.Error())
			}
			return nil, err
		}
		object = name
		sub.AttachmentURL = url
	}

	if err := s.SubmissionRepo.Create(sub); err != nil {
		if object != "" {
			if derr := s.Storage.Delete(ctx, object); derr != nil {
				logger.Log.Warn("Failed to remove orphaned attachment",
					zap.String("object", object),
					zap.Error(derr))
			}
		}
		return nil, err
	}
	return sub, nil
}

func (s *TaskService) ListSubmissions(actor Actor, taskID uint) ([]model.TaskSubmission, error) {
	if _, err := s.ownedTask(actor, taskID); err != nil {
		return nil, err
	}
	return s.SubmissionRepo.FindByTask(taskID)
}

func (s *TaskService) MySubmissions(studentID uint) ([]model.TaskSubmission, error) {
	return s.SubmissionRepo.FindByStudent(studentID)
}

// Grade assigns the grade and feedback of a submission. Grading is final.
func (s *TaskService) Grade(actor Actor, submissionID uint, grade int, feedback string) (*model.TaskSubmission, error) {
	sub, err := s.SubmissionRepo.FindByID(submissionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	} else if err != nil {
		return nil, err
	}
	task, err := s.ownedTask(actor, sub.TaskID)
	if err != nil {
		return nil, err
	}
	if grade < 0 || (task.Points > 0 && grade > task.Points) {
		return nil, invalid("nota deve estar entre 0 e %d", task.Points)
	}

	if err := s.SubmissionRepo.Grade(submissionID, grade, feedback, s.now()); err != nil {
		return nil, err
	}
	return s.SubmissionRepo.FindByID(submissionID)
}
