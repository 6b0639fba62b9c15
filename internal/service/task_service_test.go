package service

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"iaprender_backend/internal/config"
	"iaprender_backend/internal/model"
	"iaprender_backend/internal/repository"
	"iaprender_backend/internal/testutil"
	"iaprender_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type taskFixture struct {
	svc      *TaskService
	db       *gorm.DB
	dir      string
	users    *repository.UserRepository
	teacher  *model.User
	students []*model.User
}

func newTaskFixture(t *testing.T) *taskFixture {
	t.Helper()
	db := testutil.NewDB(t)
	users := repository.NewUserRepository(db)
	dir := t.TempDir()
	storage := NewStorageService(&config.Config{Storage: config.StorageConfig{Type: util.StorageLocal, LocalPath: dir}})
	f := &taskFixture{
		svc:   NewTaskService(repository.NewTaskRepository(db), repository.NewSubmissionRepository(db), users, storage),
		db:    db,
		dir:   dir,
		users: users,
	}

	f.teacher = &model.User{DisplayName: "Prof. Lima", Email: "lima@escola.br", Password: "x", Role: model.Teacher}
	require.NoError(t, users.Create(f.teacher))
	for _, name := range []string{"ana", "bruno"} {
		u := &model.User{DisplayName: name, Email: name + "@escola.br", Password: "x", Role: model.Student}
		require.NoError(t, users.Create(u))
		f.students = append(f.students, u)
	}
	return f
}

func (f *taskFixture) storedFiles(t *testing.T) []string {
	t.Helper()
	var files []string
	err := filepath.WalkDir(f.dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, p)
		}
		return nil
	})
	require.NoError(t, err)
	return files
}

func attachment(body string) *Attachment {
	return &Attachment{Name: "fracoes.txt", Size: int64(len(body)), Reader: strings.NewReader(body)}
}

func (f *taskFixture) actor() Actor {
	return Actor{ID: f.teacher.ID, Role: model.Teacher}
}

func (f *taskFixture) input(assigned ...uint) TaskInput {
	return TaskInput{
		Title:      "Lista de frações",
		Type:       model.TaskExercise,
		DueDate:    time.Now().Add(48 * time.Hour),
		Points:     10,
		AssignedTo: assigned,
	}
}

func TestTaskService_ResubmitKeepsSingleAttachment(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()
	ana := f.students[0]
	task, err := f.svc.CreateTask(f.teacher.ID, f.input(ana.ID))
	require.NoError(t, err)

	_, err = f.svc.Submit(ctx, ana.ID, task.ID, SubmissionInput{Attachment: attachment("primeira versão")})
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, ana.ID, task.ID, SubmissionInput{Attachment: attachment("segunda versão")})
	assert.ErrorIs(t, err, util.ErrAlreadySubmitted)

	assert.Len(t, f.storedFiles(t), 1)
}

func TestTaskService_SubmitRemovesAttachmentWhenSaveFails(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()
	ana := f.students[0]
	task, err := f.svc.CreateTask(f.teacher.ID, f.input(ana.ID))
	require.NoError(t, err)

	boom := errors.New("disco cheio")
	require.NoError(t, f.db.Callback().Create().Before("gorm:create").Register("fail_submissions", func(tx *gorm.DB) {
		if tx.Statement.Table == "task_submissions" {
			_ = tx.AddError(boom)
		}
	}))

	_, err = f.svc.Submit(ctx, ana.ID, task.ID, SubmissionInput{Attachment: attachment("1/2 + 1/4 = 3/4")})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, f.storedFiles(t))
}

func TestTaskService_CreateValidates(t *testing.T) {
	f := newTaskFixture(t)

	in := f.input(f.students[0].ID)
	in.Title = "  "
	_, err := f.svc.CreateTask(f.teacher.ID, in)
	assert.ErrorIs(t, err, util.ErrInvalidInput)

	in = f.input()
	in.Type = "essay"
	_, err = f.svc.CreateTask(f.teacher.ID, in)
	assert.ErrorIs(t, err, util.ErrInvalidInput)

	in = f.input()
	in.Points = -1
	_, err = f.svc.CreateTask(f.teacher.ID, in)
	assert.ErrorIs(t, err, util.ErrInvalidInput)

	in = f.input()
	in.DueDate = time.Time{}
	_, err = f.svc.CreateTask(f.teacher.ID, in)
	assert.ErrorIs(t, err, util.ErrInvalidInput)

	_, err = f.svc.CreateTask(f.teacher.ID, f.input(f.teacher.ID))
	assert.ErrorIs(t, err, util.ErrInvalidInput)

	task, err := f.svc.CreateTask(f.teacher.ID, f.input(f.students[0].ID, f.students[0].ID, f.students[1].ID))
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{f.students[0].ID, f.students[1].ID}, task.AssignedTo)
}

func TestTaskService_OwnershipChecks(t *testing.T) {
	f := newTaskFixture(t)
	task, err := f.svc.CreateTask(f.teacher.ID, f.input(f.students[0].ID))
	require.NoError(t, err)

	other := Actor{ID: 999, Role: model.Teacher}
	_, err = f.svc.UpdateTask(other, task.ID, f.input())
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
	assert.ErrorIs(t, f.svc.DeleteTask(other, task.ID), util.ErrPermissionDenied)

	admin := Actor{ID: 999, Role: model.Admin}
	in := f.input(f.students[1].ID)
	in.Title = "Lista revisada"
	updated, err := f.svc.UpdateTask(admin, task.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Lista revisada", updated.Title)

	require.NoError(t, f.svc.DeleteTask(f.actor(), task.ID))
	assert.ErrorIs(t, f.svc.DeleteTask(f.actor(), task.ID), util.ErrTaskNotFound)
}

func TestTaskService_SubmitAndGrade(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()
	ana, bruno := f.students[0], f.students[1]
	task, err := f.svc.CreateTask(f.teacher.ID, f.input(ana.ID))
	require.NoError(t, err)

	_, err = f.svc.Submit(ctx, bruno.ID, task.ID, SubmissionInput{Content: "resposta"})
	assert.ErrorIs(t, err, util.ErrNotAssigned)
	_, err = f.svc.Submit(ctx, ana.ID, task.ID, SubmissionInput{Content: "  "})
	assert.ErrorIs(t, err, util.ErrInvalidInput)
	_, err = f.svc.Submit(ctx, ana.ID, 12345, SubmissionInput{Content: "x"})
	assert.ErrorIs(t, err, util.ErrTaskNotFound)

	body := "1/2 + 1/4 = 3/4"
	sub, err := f.svc.Submit(ctx, ana.ID, task.ID, SubmissionInput{
		Content:    "segue em anexo",
		Attachment: &Attachment{Name: "fracoes.txt", Size: int64(len(body)), Reader: strings.NewReader(body)},
	})
	require.NoError(t, err)
	assert.Equal(t, model.SubmissionSubmitted, sub.Status)
	assert.Contains(t, sub.AttachmentURL, "/uploads/submissions/")

	_, err = f.svc.Submit(ctx, ana.ID, task.ID, SubmissionInput{Content: "de novo"})
	assert.ErrorIs(t, err, util.ErrAlreadySubmitted)

	subs, err := f.svc.ListSubmissions(f.actor(), task.ID)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	require.NotNil(t, subs[0].Student)
	assert.Equal(t, "ana", subs[0].Student.DisplayName)

	_, err = f.svc.Grade(f.actor(), sub.ID, 11, "")
	assert.ErrorIs(t, err, util.ErrInvalidInput)

	graded, err := f.svc.Grade(f.actor(), sub.ID, 9, "Muito bem!")
	require.NoError(t, err)
	assert.Equal(t, model.SubmissionGraded, graded.Status)
	require.NotNil(t, graded.Grade)
	assert.Equal(t, 9, *graded.Grade)

	_, err = f.svc.Grade(f.actor(), sub.ID, 10, "")
	assert.ErrorIs(t, err, util.ErrAlreadyGraded)
	_, err = f.svc.Grade(f.actor(), 4242, 10, "")
	assert.ErrorIs(t, err, util.ErrNotFound)

	mine, err := f.svc.MySubmissions(ana.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}
