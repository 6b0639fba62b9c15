package repository

import (
	"testing"
	"time"

	"iaprender_backend/internal/model"
	"iaprender_backend/internal/testutil"
	"iaprender_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskRepository_CreateAndList(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTaskRepository(db)
	now := time.Now()

	late := &model.Task{Title: "Projeto", Type: model.TaskProject, DueDate: now.Add(72 * time.Hour), TeacherID: 1, AssignedTo: []uint{10, 11, 10}}
	early := &model.Task{Title: "Leitura", Type: model.TaskReading, DueDate: now.Add(24 * time.Hour), TeacherID: 1, AssignedTo: []uint{10}}
	require.NoError(t, repo.Create(late))
	require.NoError(t, repo.Create(early))

	got, err := repo.FindByID(late.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{10, 11}, got.AssignedTo)

	byTeacher, err := repo.FindByTeacher(1)
	require.NoError(t, err)
	require.Len(t, byTeacher, 2)
	assert.Equal(t, early.ID, byTeacher[0].ID)

	forStudent, err := repo.FindForStudent(10)
	require.NoError(t, err)
	require.Len(t, forStudent, 2)
	assert.Equal(t, "Leitura", forStudent[0].Title)
	assert.Equal(t, "Projeto", forStudent[1].Title)

	ok, err := repo.IsAssigned(early.ID, 11)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTaskRepository_UpdateReplacesAssignments(t *testing.T) {
	repo := NewTaskRepository(testutil.NewDB(t))

	task := &model.Task{Title: "Quiz", Type: model.TaskQuiz, DueDate: time.Now(), TeacherID: 1, AssignedTo: []uint{10}}
	require.NoError(t, repo.Create(task))

	task.Title = "Quiz revisado"
	task.AssignedTo = []uint{12}
	require.NoError(t, repo.Update(task))

	got, err := repo.FindByID(task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Quiz revisado", got.Title)
	assert.Equal(t, []uint{12}, got.AssignedTo)
}

func TestTaskRepository_Delete(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTaskRepository(db)
	subs := NewSubmissionRepository(db)

	task := &model.Task{Title: "Quiz", Type: model.TaskQuiz, DueDate: time.Now(), TeacherID: 1, AssignedTo: []uint{10}}
	require.NoError(t, repo.Create(task))
	require.NoError(t, subs.Create(&model.TaskSubmission{TaskID: task.ID, StudentID: 10, Status: model.SubmissionSubmitted, SubmittedAt: time.Now()}))

	require.NoError(t, repo.Delete(task.ID))

	_, err := repo.FindByID(task.ID)
	assert.Error(t, err)
	list, err := subs.FindByTask(task.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSubmissionRepository_OnePerStudentAndGradeOnce(t *testing.T) {
	db := testutil.NewDB(t)
	users := NewUserRepository(db)
	subs := NewSubmissionRepository(db)

	student := &model.User{DisplayName: "Ana", Email: "ana@example.com", Password: "x", Role: model.Student}
	require.NoError(t, users.Create(student))

	first := &model.TaskSubmission{TaskID: 1, StudentID: student.ID, Content: "resposta", Status: model.SubmissionSubmitted, SubmittedAt: time.Now()}
	require.NoError(t, subs.Create(first))

	dup := &model.TaskSubmission{TaskID: 1, StudentID: student.ID, Status: model.SubmissionSubmitted, SubmittedAt: time.Now()}
	assert.ErrorIs(t, subs.Create(dup), util.ErrAlreadySubmitted)

	require.NoError(t, subs.Grade(first.ID, 9, "Muito bem", time.Now()))
	assert.ErrorIs(t, subs.Grade(first.ID, 3, "de novo", time.Now()), util.ErrAlreadyGraded)
	assert.ErrorIs(t, subs.Grade(999, 3, "", time.Now()), util.ErrNotFound)

	list, err := subs.FindByTask(1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, model.SubmissionGraded, list[0].Status)
	require.NotNil(t, list[0].Grade)
	assert.Equal(t, 9, *list[0].Grade)
	require.NotNil(t, list[0].Student)
	assert.Equal(t, "Ana", list[0].Student.DisplayName)
}

func TestSubmissionRepository_FindByTaskNewestFirst(t *testing.T) {
	subs := NewSubmissionRepository(testutil.NewDB(t))
	base := time.Now()

	require.NoError(t, subs.Create(&model.TaskSubmission{TaskID: 1, StudentID: 1, Status: model.SubmissionSubmitted, SubmittedAt: base}))
	require.NoError(t, subs.Create(&model.TaskSubmission{TaskID: 1, StudentID: 2, Status: model.SubmissionSubmitted, SubmittedAt: base.Add(time.Minute)}))

	list, err := subs.FindByTask(1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, uint(2), list[0].StudentID)
}
