package services

import (
	"task-manager.com/task-manager/internal/constants"
	model "task-manager.com/task-manager/internal/models"
)

// DeriveProgress computes progress and status from a checklist. An empty
// checklist is always 0% and Pending.
func DeriveProgress(checklist []model.TodoItem) (int, constants.TaskStatus) {
	total := len(checklist)
	completed := 0
	for _, item := range checklist {
		if item.Completed {
			completed++
		}
	}

	progress := 0
	if total > 0 {
		// round half up of completed/total*100
		progress = (200*completed + total) / (2 * total)
	}

	switch {
	case total > 0 && completed == total:
		return progress, constants.StatusCompleted
	case completed > 0:
		return progress, constants.StatusInProgress
	default:
		return progress, constants.StatusPending
	}
}

// applyChecklist replaces the checklist wholesale and recomputes progress and status.
func applyChecklist(task *model.Task, checklist []model.TodoItem) {
	if checklist == nil {
		checklist = []model.TodoItem{}
	}
	task.TodoChecklist = checklist
	task.Progress, task.Status = DeriveProgress(checklist)
}

// applyStatus sets the status. Completing a task ticks every checklist item;
// moving away from Completed leaves the checklist as it is.
func applyStatus(task *model.Task, status constants.TaskStatus) {
	task.Status = status
	if status != constants.StatusCompleted {
		return
	}

	for i := range task.TodoChecklist {
		task.TodoChecklist[i].Completed = true
	}
	task.Progress = 100
}
