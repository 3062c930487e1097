package model

import (
	"time"

	"task-manager.com/task-manager/internal/constants"
)

type TodoItem struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

type Task struct {
	ID            string                 `gorm:"primaryKey;size:36" json:"id"`
	Title         string                 `gorm:"not null" json:"title"`
	Description   string                 `gorm:"type:text" json:"description"`
	Priority      constants.TaskPriority `gorm:"type:varchar(10);not null" json:"priority"`
	Status        constants.TaskStatus   `gorm:"type:varchar(20);not null;index" json:"status"`
	Progress      int                    `gorm:"not null" json:"progress"`
	DueDate       *time.Time             `json:"dueDate"`
	CreatedBy     string                 `gorm:"size:36;not null;index" json:"createdBy"`
	AssignedTo    []string               `gorm:"-" json:"assignedTo"`
	TodoChecklist []TodoItem             `gorm:"type:text;serializer:json" json:"todoChecklist"`
	Attachments   []string               `gorm:"type:text;serializer:json" json:"attachments"`
	CreatedAt     time.Time              `gorm:"index" json:"createdAt"`
	UpdatedAt     time.Time              `json:"updatedAt"`
}

// TaskAssignee links a task to a user. There is no foreign key:
// removing a user leaves the reference in place.
type TaskAssignee struct {
	TaskID   string `gorm:"primaryKey;size:36"`
	UserID   string `gorm:"primaryKey;size:36;index"`
	Position int    `gorm:"not null"`
}

func (t *Task) CompletedTodoCount() int {
	n := 0
	for _, item := range t.TodoChecklist {
		if item.Completed {
			n++
		}
	}
	return n
}

func (t *Task) IsAssignee(userID string) bool {
	for _, id := range t.AssignedTo {
		if id == userID {
			return true
		}
	}
	return false
}

// TaskListItem is a task as returned by list and dashboard endpoints.
type TaskListItem struct {
	Task
	CompletedTodoCount int `json:"completedTodoCount"`
}

func NewTaskListItem(t Task) TaskListItem {
	return TaskListItem{Task: t, CompletedTodoCount: t.CompletedTodoCount()}
}

// TaskDetails is a task with its creator and assignees expanded.
type TaskDetails struct {
	Task
	Creator            *UserSummary  `json:"creator"`
	Assignees          []UserSummary `json:"assignees"`
	CompletedTodoCount int           `json:"completedTodoCount"`
}
