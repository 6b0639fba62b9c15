package repository

import (
	"errors"
	"time"

	"iaprender_backend/internal/model"
	"iaprender_backend/internal/util"

	"gorm.io/gorm"
)

type SubmissionRepository struct {
	DB *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{DB: db}
}

func (r *SubmissionRepository) Create(s *model.TaskSubmission) error {
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.TaskSubmission{}).
			Where("task_id = ? AND student_id = ?", s.TaskID, s.StudentID).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return util.ErrAlreadySubmitted
		}
		return tx.Create(s).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return util.ErrAlreadySubmitted
	}
	return err
}

// Exists reports whether the student already submitted the task.
func (r *SubmissionRepository) Exists(taskID, studentID uint) (bool, error) {
	var n int64
	err := r.DB.Model(&model.TaskSubmission{}).
		Where("task_id = ? AND student_id = ?", taskID, studentID).
		Count(&n).Error
	return n > 0, err
}

func (r *SubmissionRepository) FindByID(id uint) (*model.TaskSubmission, error) {
	var s model.TaskSubmission
	err := r.DB.Preload("Student").First(&s, id).Error
	return &s, err
}

// FindByTask lists a task's submissions with student data, newest first.
func (r *SubmissionRepository) FindByTask(taskID uint) ([]model.TaskSubmission, error) {
	var out []model.TaskSubmission
	err := r.DB.Preload("Student").
		Where("task_id = ?", taskID).
		Order("submitted_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

func (r *SubmissionRepository) FindByStudent(studentID uint) ([]model.TaskSubmission, error) {
	var out []model.TaskSubmission
	err := r.DB.Where("student_id = ?", studentID).Order("submitted_at DESC").Find(&out).Error
	return out, err
}

// Grade moves a submission from submitted to graded. A submission that is
// already graded is left untouched and util.ErrAlreadyGraded is returned.
func (r *SubmissionRepository) Grade(id uint, grade int, feedback string, at time.Time) error {
	res := r.DB.Model(&model.TaskSubmission{}).
		Where("id = ? AND status = ?", id, model.SubmissionSubmitted).
		Updates(map[string]interface{}{
			"status":    model.SubmissionGraded,
			"grade":     grade,
			"feedback":  feedback,
			"graded_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var n int64
		if err := r.DB.Model(&model.TaskSubmission{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return util.ErrNotFound
		}
		return util.ErrAlreadyGraded
	}
	return nil
}
