package dto

import (
	"encoding/json"

	model "task-manager.com/task-manager/internal/models"
)

type CreateTaskRequest struct {
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	Priority      string           `json:"priority"`
	DueDate       string           `json:"dueDate"`
	AssignedTo    json.RawMessage  `json:"assignedTo"`
	TodoChecklist []model.TodoItem `json:"todoChecklist"`
	Attachments   []string         `json:"attachments"`
}

// UpdateTaskRequest carries a partial update; nil fields are left untouched.
type UpdateTaskRequest struct {
	Title         *string           `json:"title"`
	Description   *string           `json:"description"`
	Priority      *string           `json:"priority"`
	DueDate       *string           `json:"dueDate"`
	Status        *string           `json:"status"`
	AssignedTo    json.RawMessage   `json:"assignedTo"`
	TodoChecklist *[]model.TodoItem `json:"todoChecklist"`
	Attachments   *[]string         `json:"attachments"`
}

type UpdateTaskStatusRequest struct {
	Status string `json:"status"`
}

type UpdateTaskChecklistRequest struct {
	TodoChecklist *[]model.TodoItem `json:"todoChecklist"`
}
