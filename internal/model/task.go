package model

import (
	"time"

	"gorm.io/datatypes"
)

type TaskType string

const (
	TaskQuiz     TaskType = "quiz"
	TaskExercise TaskType = "exercise"
	TaskProject  TaskType = "project"
	TaskReading  TaskType = "reading"
)

// Task is an assignment authored by a teacher for a set of students.
//
// swagger:model Task
type Task struct {
	BaseModel
	Title       string           `gorm:"size:255;not null" json:"title"`
	Description string           `gorm:"type:text" json:"description"`
	Type        TaskType         `gorm:"size:20;not null" json:"type"`
	DueDate     time.Time        `gorm:"index" json:"dueDate"`
	Points      int              `gorm:"not null;default:0" json:"points"`
	TeacherID   uint             `gorm:"index;not null" json:"teacherId"`
	Assignments []TaskAssignment `gorm:"foreignKey:TaskID" json:"-"`
	AssignedTo  []uint           `gorm:"-" json:"assignedTo"`
}

func (Task) TableName() string {
	return "tasks"
}

// SyncAssignedTo fills AssignedTo from the loaded assignments.
func (t *Task) SyncAssignedTo() {
	t.AssignedTo = make([]uint, 0, len(t.Assignments))
	for _, a := range t.Assignments {
		t.AssignedTo = append(t.AssignedTo, a.StudentID)
	}
}

// TaskAssignment links a task to one student.
type TaskAssignment struct {
	TaskID    uint `gorm:"primaryKey;autoIncrement:false" json:"taskId"`
	StudentID uint `gorm:"primaryKey;autoIncrement:false;index" json:"studentId"`
}

func (TaskAssignment) TableName() string {
	return "task_assignments"
}

type SubmissionStatus string

const (
	SubmissionSubmitted SubmissionStatus = "submitted"
	SubmissionGraded    SubmissionStatus = "graded"
)

// TaskSubmission is a student's answer to a task. It is graded once; the
// submitted -> graded transition is final.
//
// swagger:model TaskSubmission
type TaskSubmission struct {
	BaseModel
	TaskID        uint              `gorm:"uniqueIndex:idx_submission_task_student;not null" json:"taskId"`
	StudentID     uint              `gorm:"uniqueIndex:idx_submission_task_student;not null" json:"studentId"`
	Content       string            `gorm:"type:text" json:"content"`
	Payload       datatypes.JSONMap `json:"payload,omitempty"`
	AttachmentURL string            `gorm:"size:512" json:"attachmentUrl,omitempty"`
	Status        SubmissionStatus  `gorm:"size:20;not null;default:'submitted'" json:"status"`
	Grade         *int              `json:"grade,omitempty"`
	Feedback      string            `gorm:"type:text" json:"feedback,omitempty"`
	SubmittedAt   time.Time         `gorm:"index" json:"submittedAt"`
	GradedAt      *time.Time        `json:"gradedAt,omitempty"`
	Student       *User             `gorm:"foreignKey:StudentID" json:"student,omitempty"`
}

func (TaskSubmission) TableName() string {
	return "task_submissions"
}
