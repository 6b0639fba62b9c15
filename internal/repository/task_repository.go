package repository

import (
	"iaprender_backend/internal/model"

	"gorm.io/gorm"
)

type TaskRepository struct {
	DB *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{DB: db}
}

// Create inserts the task together with one assignment per student id.
func (r *TaskRepository) Create(task *model.Task) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Assignments").Create(task).Error; err != nil {
			return err
		}
		return replaceAssignments(tx, task)
	})
}

func (r *TaskRepository) FindByID(id uint) (*model.Task, error) {
	var task model.Task
	err := r.DB.Preload("Assignments").First(&task, id).Error
	if err != nil {
		return nil, err
	}
	task.SyncAssignedTo()
	return &task, nil
}

// FindByTeacher lists a teacher's tasks, newest first.
func (r *TaskRepository) FindByTeacher(teacherID uint) ([]model.Task, error) {
	var tasks []model.Task
	err := r.DB.Preload("Assignments").
		Where("teacher_id = ?", teacherID).
		Order("created_at DESC, id DESC").
		Find(&tasks).Error
	for i := range tasks {
		tasks[i].SyncAssignedTo()
	}
	return tasks, err
}

// FindForStudent lists the tasks assigned to a student, earliest due first.
func (r *TaskRepository) FindForStudent(studentID uint) ([]model.Task, error) {
	var tasks []model.Task
	err := r.DB.Preload("Assignments").
		Joins("JOIN task_assignments ON task_assignments.task_id = tasks.id").
		Where("task_assignments.student_id = ?", studentID).
		Order("tasks.due_date ASC, tasks.id ASC").
		Find(&tasks).Error
	for i := range tasks {
		tasks[i].SyncAssignedTo()
	}
	return tasks, err
}

func (r *TaskRepository) IsAssigned(taskID, studentID uint) (bool, error) {
	var n int64
	err := r.DB.Model(&model.TaskAssignment{}).
		Where("task_id = ? AND student_id = ?", taskID, studentID).
		Count(&n).Error
	return n > 0, err
}

// Update saves the task fields and replaces its assignment set.
func (r *TaskRepository) Update(task *model.Task) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Assignments").Save(task).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", task.ID).Delete(&model.TaskAssignment{}).Error; err != nil {
			return err
		}
		return replaceAssignments(tx, task)
	})
}

// Delete removes the task with its assignments and submissions.
func (r *TaskRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&model.TaskAssignment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&model.TaskSubmission{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Task{}, id).Error
	})
}

func replaceAssignments(tx *gorm.DB, task *model.Task) error {
	if len(task.AssignedTo) == 0 {
		return nil
	}
	rows := make([]model.TaskAssignment, 0, len(task.AssignedTo))
	seen := make(map[uint]bool, len(task.AssignedTo))
	for _, sid := range task.AssignedTo {
		if seen[sid] {
			continue
		}
		seen[sid] = true
		rows = append(rows, model.TaskAssignment{TaskID: task.ID, StudentID: sid})
	}
	return tx.Create(&rows).Error
}
