package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"task-manager.com/task-manager/internal/constants"
	apperrors "task-manager.com/task-manager/internal/errors"
	model "task-manager.com/task-manager/internal/models"
)

// Visibility restricts task queries to what an identity may see.
type Visibility struct {
	All    bool
	UserID string
}

func VisibilityFor(identity model.Identity) Visibility {
	if identity.IsAdmin() {
		return Visibility{All: true}
	}
	return Visibility{UserID: identity.UserID}
}

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) CreateTask(ctx context.Context, task *model.Task) error {
	now := time.Now().UTC()
	task.ID = uuid.NewString()
	task.CreatedAt = now
	task.UpdatedAt = now

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(task).Error; err != nil {
			return err
		}
		return insertAssignees(tx, task.ID, task.AssignedTo)
	})
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, err
	}

	tasks := []model.Task{task}
	if err := r.loadAssignees(ctx, tasks); err != nil {
		return nil, err
	}
	return &tasks[0], nil
}

// List returns visible tasks, newest first. A nil status means no filter.
func (r *TaskRepository) List(
	ctx context.Context,
	vis Visibility,
	status *constants.TaskStatus,
) ([]model.Task, error) {
	query := r.db.WithContext(ctx).Scopes(r.visibleTo(vis)).Order("created_at desc")
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var tasks []model.Task
	if err := query.Find(&tasks).Error; err != nil {
		return nil, err
	}

	if err := r.loadAssignees(ctx, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

type statusCount struct {
	Status constants.TaskStatus
	Count  int64
}

func (r *TaskRepository) CountByStatus(ctx context.Context, vis Visibility) (map[constants.TaskStatus]int64, error) {
	var rows []statusCount
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Scopes(r.visibleTo(vis)).
		Select("status, count(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[constants.TaskStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

type assigneeStatusCount struct {
	UserID string
	Status constants.TaskStatus
	Count  int64
}

// CountAssignedByStatus returns, per user id, how many tasks assigned to that
// user are in each status.
func (r *TaskRepository) CountAssignedByStatus(ctx context.Context) (map[string]map[constants.TaskStatus]int64, error) {
	var rows []assigneeStatusCount
	err := r.db.WithContext(ctx).Table("task_assignees").
		Select("task_assignees.user_id AS user_id, tasks.status AS status, count(*) AS count").
		Joins("JOIN tasks ON tasks.id = task_assignees.task_id").
		Group("task_assignees.user_id, tasks.status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]map[constants.TaskStatus]int64)
	for _, row := range rows {
		if counts[row.UserID] == nil {
			counts[row.UserID] = make(map[constants.TaskStatus]int64)
		}
		counts[row.UserID][row.Status] = row.Count
	}
	return counts, nil
}

// Update writes every column of task. When replaceAssignees is set the
// assignee rows are rewritten from task.AssignedTo in the same transaction.
func (r *TaskRepository) Update(ctx context.Context, task *model.Task, replaceAssignees bool) error {
	task.UpdatedAt = time.Now().UTC()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(task).Select("*").Omit("id", "created_at").Updates(task)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrTaskNotFound
		}

		if !replaceAssignees {
			return nil
		}
		if err := tx.Where("task_id = ?", task.ID).Delete(&model.TaskAssignee{}).Error; err != nil {
			return err
		}
		return insertAssignees(tx, task.ID, task.AssignedTo)
	})
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&model.Task{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrTaskNotFound
		}
		return tx.Where("task_id = ?", id).Delete(&model.TaskAssignee{}).Error
	})
}

func (r *TaskRepository) visibleTo(vis Visibility) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if vis.All {
			return db
		}
		assigned := r.db.Model(&model.TaskAssignee{}).Select("task_id").Where("user_id = ?", vis.UserID)
		return db.Where("created_by = ? OR id IN (?)", vis.UserID, assigned)
	}
}

func (r *TaskRepository) loadAssignees(ctx context.Context, tasks []model.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	ids := make([]string, len(tasks))
	index := make(map[string]int, len(tasks))
	for i := range tasks {
		ids[i] = tasks[i].ID
		index[tasks[i].ID] = i
		tasks[i].AssignedTo = []string{}
	}

	var rows []model.TaskAssignee
	err := r.db.WithContext(ctx).
		Where("task_id IN ?", ids).
		Order("task_id, position").
		Find(&rows).Error
	if err != nil {
		return err
	}

	for _, row := range rows {
		i := index[row.TaskID]
		tasks[i].AssignedTo = append(tasks[i].AssignedTo, row.UserID)
	}
	return nil
}

func insertAssignees(tx *gorm.DB, taskID string, userIDs []string) error {
	if len(userIDs) == 0 {
		return nil
	}

	rows := make([]model.TaskAssignee, 0, len(userIDs))
	seen := make(map[string]struct{}, len(userIDs))
	for _, userID := range userIDs {
		if _, dup := seen[userID]; dup {
			continue
		}
		seen[userID] = struct{}{}
		rows = append(rows, model.TaskAssignee{TaskID: taskID, UserID: userID, Position: len(rows)})
	}
	return tx.Create(&rows).Error
}
