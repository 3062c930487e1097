package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"task-manager.com/task-manager/internal/constants"
	dto "task-manager.com/task-manager/internal/data_models"
	apperrors "task-manager.com/task-manager/internal/errors"
	model "task-manager.com/task-manager/internal/models"
	repository "task-manager.com/task-manager/internal/repositories"
)

type CreateTaskParams struct {
	Title         string
	Description   string
	Priority      constants.TaskPriority
	DueDate       *time.Time
	AssignedTo    []string
	TodoChecklist []model.TodoItem
	Attachments   []string
}

// UpdateTaskParams is a partial update. Nil fields are not touched.
type UpdateTaskParams struct {
	Title         *string
	Description   *string
	Priority      *constants.TaskPriority
	DueDate       *time.Time
	ClearDueDate  bool
	Status        *constants.TaskStatus
	AssignedTo    *[]string
	TodoChecklist *[]model.TodoItem
	Attachments   *[]string
}

type TaskService struct {
	tasks  *repository.TaskRepository
	users  *repository.UserRepository
	logger zerolog.Logger
}

func NewTaskService(
	tasks *repository.TaskRepository,
	users *repository.UserRepository,
	logger zerolog.Logger,
) *TaskService {
	return &TaskService{
		tasks:  tasks,
		users:  users,
		logger: logger,
	}
}

func (s *TaskService) CreateTask(ctx context.Context, identity model.Identity, params CreateTaskParams) (*model.Task, error) {
	if !identity.IsAdmin() {
		return nil, apperrors.ErrAdminOnly
	}
	if params.Title == "" {
		return nil, apperrors.ErrTitleRequired
	}

	priority := params.Priority
	if priority == "" {
		priority = constants.PriorityLow
	}
	if !priority.Valid() {
		return nil, apperrors.ErrInvalidPriority
	}

	assignees := uniqueIDs(params.AssignedTo)
	if len(assignees) == 0 {
		assignees = []string{identity.UserID}
	} else if err := s.ensureUsersExist(ctx, assignees); err != nil {
		return nil, err
	}

	attachments := params.Attachments
	if attachments == nil {
		attachments = []string{}
	}

	task := &model.Task{
		Title:       params.Title,
		Description: params.Description,
		Priority:    priority,
		DueDate:     params.DueDate,
		CreatedBy:   identity.UserID,
		AssignedTo:  assignees,
		Attachments: attachments,
	}
	applyChecklist(task, params.TodoChecklist)

	if err := s.tasks.CreateTask(ctx, task); err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", identity.UserID).
			Msg("failed to create task")
		return nil, err
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("user_id", identity.UserID).
		Int("assignees", len(task.AssignedTo)).
		Msg("created task")
	return task, nil
}

// ListTasks returns the caller's visible tasks, optionally filtered by
// status. The summary always covers the unfiltered visible set.
func (s *TaskService) ListTasks(
	ctx context.Context,
	identity model.Identity,
	status *constants.TaskStatus,
) (*dto.TaskListResponse, error) {
	if status != nil && !status.Valid() {
		return nil, apperrors.ErrInvalidStatus
	}

	vis := repository.VisibilityFor(identity)

	tasks, err := s.tasks.List(ctx, vis, status)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", identity.UserID).
			Msg("failed to list tasks")
		return nil, err
	}

	counts, err := s.tasks.CountByStatus(ctx, vis)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", identity.UserID).
			Msg("failed to count tasks by status")
		return nil, err
	}

	items := make([]model.TaskListItem, len(tasks))
	for i, t := range tasks {
		items[i] = model.NewTaskListItem(t)
	}

	return &dto.TaskListResponse{
		Tasks: items,
		StatusSummary: dto.StatusSummary{
			All:             counts[constants.StatusPending] + counts[constants.StatusInProgress] + counts[constants.StatusCompleted],
			PendingTasks:    counts[constants.StatusPending],
			InProgressTasks: counts[constants.StatusInProgress],
			CompletedTasks:  counts[constants.StatusCompleted],
		},
	}, nil
}

func (s *TaskService) GetTask(ctx context.Context, identity model.Identity, id string) (*model.TaskDetails, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(identity, task) {
		return nil, apperrors.ErrForbidden
	}

	return s.expand(ctx, task)
}

// expand resolves the creator and assignees of task into summaries.
// References to deleted users are dropped from the expanded view.
func (s *TaskService) expand(ctx context.Context, task *model.Task) (*model.TaskDetails, error) {
	ids := append([]string{task.CreatedBy}, task.AssignedTo...)
	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	details := &model.TaskDetails{
		Task:               *task,
		Assignees:          make([]model.UserSummary, 0, len(task.AssignedTo)),
		CompletedTodoCount: task.CompletedTodoCount(),
	}
	if creator, ok := users[task.CreatedBy]; ok {
		summary := creator.Summary()
		details.Creator = &summary
	}
	for _, id := range task.AssignedTo {
		if u, ok := users[id]; ok {
			details.Assignees = append(details.Assignees, u.Summary())
		}
	}
	return details, nil
}

func (s *TaskService) UpdateTask(
	ctx context.Context,
	identity model.Identity,
	id string,
	params UpdateTaskParams,
) (*model.Task, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canEdit(identity, task) {
		return nil, apperrors.ErrForbidden
	}

	if params.Title != nil {
		if *params.Title == "" {
			return nil, apperrors.ErrTitleRequired
		}
		task.Title = *params.Title
	}
	if params.Description != nil {
		task.Description = *params.Description
	}
	if params.Priority != nil {
		if !params.Priority.Valid() {
			return nil, apperrors.ErrInvalidPriority
		}
		task.Priority = *params.Priority
	}
	if params.ClearDueDate {
		task.DueDate = nil
	} else if params.DueDate != nil {
		task.DueDate = params.DueDate
	}
	if params.Attachments != nil {
		task.Attachments = *params.Attachments
	}
	if params.AssignedTo != nil {
		assignees := uniqueIDs(*params.AssignedTo)
		if err := s.ensureUsersExist(ctx, assignees); err != nil {
			return nil, err
		}
		task.AssignedTo = assignees
	}
	if params.Status != nil {
		if !params.Status.Valid() {
			return nil, apperrors.ErrInvalidStatus
		}
		applyStatus(task, *params.Status)
	}
	if params.TodoChecklist != nil {
		applyChecklist(task, *params.TodoChecklist)
	}

	if err := s.tasks.Update(ctx, task, params.AssignedTo != nil); err != nil {
		return nil, s.logWriteError(err, task.ID, "failed to update task")
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("user_id", identity.UserID).
		Msg("updated task")
	return task, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, identity model.Identity, id string) error {
	if !identity.IsAdmin() {
		return apperrors.ErrAdminOnly
	}

	if err := s.tasks.Delete(ctx, id); err != nil {
		return s.logWriteError(err, id, "failed to delete task")
	}

	s.logger.Info().
		Str("task_id", id).
		Str("user_id", identity.UserID).
		Msg("deleted task")
	return nil
}

func (s *TaskService) UpdateTaskStatus(
	ctx context.Context,
	identity model.Identity,
	id string,
	status constants.TaskStatus,
) (*model.Task, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canChangeProgress(identity, task) {
		return nil, apperrors.ErrForbidden
	}
	if !status.Valid() {
		return nil, apperrors.ErrInvalidStatus
	}

	applyStatus(task, status)

	if err := s.tasks.Update(ctx, task, false); err != nil {
		return nil, s.logWriteError(err, task.ID, "failed to update task status")
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("status", string(task.Status)).
		Msg("updated task status")
	return task, nil
}

func (s *TaskService) UpdateTaskChecklist(
	ctx context.Context,
	identity model.Identity,
	id string,
	checklist []model.TodoItem,
) (*model.Task, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canChangeProgress(identity, task) {
		return nil, apperrors.ErrForbidden
	}

	applyChecklist(task, checklist)

	if err := s.tasks.Update(ctx, task, false); err != nil {
		return nil, s.logWriteError(err, task.ID, "failed to update task checklist")
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Int("progress", task.Progress).
		Str("status", string(task.Status)).
		Msg("updated task checklist")
	return task, nil
}

func (s *TaskService) ensureUsersExist(ctx context.Context, ids []string) error {
	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if _, ok := users[id]; !ok {
			return apperrors.ErrUnknownAssignee
		}
	}
	return nil
}

func (s *TaskService) logWriteError(err error, taskID, msg string) error {
	if errors.Is(err, apperrors.ErrTaskNotFound) {
		return err
	}
	s.logger.Error().
		Err(err).
		Str("task_id", taskID).
		Msg(msg)
	return err
}

func canView(identity model.Identity, task *model.Task) bool {
	return identity.IsAdmin() || task.CreatedBy == identity.UserID || task.IsAssignee(identity.UserID)
}

func canEdit(identity model.Identity, task *model.Task) bool {
	return canView(identity, task)
}

// canChangeProgress gates status and checklist changes: admins and current
// assignees only.
func canChangeProgress(identity model.Identity, task *model.Task) bool {
	return identity.IsAdmin() || task.IsAssignee(identity.UserID)
}

func uniqueIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
