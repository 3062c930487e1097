package validators

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"task-manager.com/task-manager/internal/constants"
	dto "task-manager.com/task-manager/internal/data_models"
	apperrors "task-manager.com/task-manager/internal/errors"
	model "task-manager.com/task-manager/internal/models"
	"task-manager.com/task-manager/internal/services"
)

var jsonNull = []byte("null")

func ValidateCreateTaskRequest(r *dto.CreateTaskRequest) (services.CreateTaskParams, error) {
	title := strings.TrimSpace(r.Title)
	if title == "" {
		return services.CreateTaskParams{}, apperrors.ErrTitleRequired
	}

	priority := constants.TaskPriority(r.Priority)
	if r.Priority != "" && !priority.Valid() {
		return services.CreateTaskParams{}, apperrors.ErrInvalidPriority
	}

	dueDate, err := ParseDueDate(r.DueDate)
	if err != nil {
		return services.CreateTaskParams{}, err
	}

	assignedTo, _, err := ParseAssignedTo(r.AssignedTo)
	if err != nil {
		return services.CreateTaskParams{}, err
	}

	return services.CreateTaskParams{
		Title:         title,
		Description:   r.Description,
		Priority:      priority,
		DueDate:       dueDate,
		AssignedTo:    assignedTo,
		TodoChecklist: r.TodoChecklist,
		Attachments:   r.Attachments,
	}, nil
}

func ValidateUpdateTaskRequest(r *dto.UpdateTaskRequest) (services.UpdateTaskParams, error) {
	var params services.UpdateTaskParams

	assignedTo, supplied, err := ParseAssignedTo(r.AssignedTo)
	if err != nil {
		return params, err
	}
	if supplied {
		params.AssignedTo = &assignedTo
	}

	if r.Title != nil {
		title := strings.TrimSpace(*r.Title)
		if title == "" {
			return params, apperrors.ErrTitleRequired
		}
		params.Title = &title
	}
	params.Description = r.Description

	if r.Priority != nil {
		priority := constants.TaskPriority(*r.Priority)
		if !priority.Valid() {
			return params, apperrors.ErrInvalidPriority
		}
		params.Priority = &priority
	}

	if r.Status != nil {
		status, err := ParseStatus(*r.Status)
		if err != nil {
			return params, err
		}
		params.Status = &status
	}

	// an explicit empty dueDate clears it
	if r.DueDate != nil {
		dueDate, err := ParseDueDate(*r.DueDate)
		if err != nil {
			return params, err
		}
		params.DueDate = dueDate
		params.ClearDueDate = dueDate == nil
	}

	params.TodoChecklist = r.TodoChecklist
	params.Attachments = r.Attachments
	return params, nil
}

func ValidateUpdateTaskStatusRequest(r *dto.UpdateTaskStatusRequest) (constants.TaskStatus, error) {
	return ParseStatus(r.Status)
}

func ValidateUpdateTaskChecklistRequest(r *dto.UpdateTaskChecklistRequest) ([]model.TodoItem, error) {
	if r.TodoChecklist == nil {
		return nil, apperrors.ErrChecklistRequired
	}
	return *r.TodoChecklist, nil
}

// ParseAssignedTo reports whether assignedTo was supplied at all. Absent and
// null both count as not supplied; anything else must be an array of
// non-empty strings.
func ParseAssignedTo(raw json.RawMessage) ([]string, bool, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, jsonNull) {
		return nil, false, nil
	}
	if trimmed[0] != '[' {
		return nil, false, apperrors.ErrAssignedToNotArray
	}

	var ids []string
	if err := json.Unmarshal(trimmed, &ids); err != nil {
		return nil, false, apperrors.ErrAssignedToNotArray
	}
	for i, id := range ids {
		ids[i] = strings.TrimSpace(id)
		if ids[i] == "" {
			return nil, false, apperrors.ErrAssignedToNotArray
		}
	}
	return ids, true, nil
}

// ParseDueDate accepts RFC 3339 timestamps and plain dates. Empty means unset.
func ParseDueDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	for _, layout := range []string{time.RFC3339Nano, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, apperrors.ErrInvalidDueDate
}

func ParseStatus(s string) (constants.TaskStatus, error) {
	status := constants.TaskStatus(s)
	if !status.Valid() {
		return "", apperrors.ErrInvalidStatus
	}
	return status, nil
}
