package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"task-manager.com/task-manager/internal/constants"
	dto "task-manager.com/task-manager/internal/data_models"
	model "task-manager.com/task-manager/internal/models"
	repository "task-manager.com/task-manager/internal/repositories"
)

const (
	AdminRecentTasks = 10
	UserRecentTasks  = 5
)

type DashboardOptions struct {
	RecentTasks       int
	IncludeStatistics bool
}

type DashboardService struct {
	tasks  *repository.TaskRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewDashboardService(tasks *repository.TaskRepository, logger zerolog.Logger) *DashboardService {
	return &DashboardService{
		tasks:  tasks,
		logger: logger,
		now:    time.Now,
	}
}

// Dashboard aggregates the caller's visible tasks. Statistics, including the
// overdue count, are only produced for admins.
func (s *DashboardService) Dashboard(
	ctx context.Context,
	identity model.Identity,
	opts DashboardOptions,
) (*dto.DashboardResponse, error) {
	tasks, err := s.tasks.List(ctx, repository.VisibilityFor(identity), nil)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", identity.UserID).
			Msg("failed to load dashboard tasks")
		return nil, err
	}

	resp := &dto.DashboardResponse{
		Charts:      chartsFor(tasks),
		RecentTasks: recentTasks(tasks, opts.RecentTasks),
	}
	if opts.IncludeStatistics && identity.IsAdmin() {
		stats := statisticsFor(tasks, s.now().UTC())
		resp.Statistics = &stats
	}
	return resp, nil
}

func chartsFor(tasks []model.Task) dto.DashboardCharts {
	var charts dto.DashboardCharts
	charts.TaskDistribution.All = len(tasks)

	for _, t := range tasks {
		switch t.Status {
		case constants.StatusPending:
			charts.TaskDistribution.Pending++
		case constants.StatusInProgress:
			charts.TaskDistribution.InProgress++
		case constants.StatusCompleted:
			charts.TaskDistribution.Completed++
		}

		switch t.Priority {
		case constants.PriorityLow:
			charts.TaskPriorityLevels.Low++
		case constants.PriorityMedium:
			charts.TaskPriorityLevels.Medium++
		case constants.PriorityHigh:
			charts.TaskPriorityLevels.High++
		}
	}
	return charts
}

func statisticsFor(tasks []model.Task, now time.Time) dto.DashboardStatistics {
	stats := dto.DashboardStatistics{TotalTasks: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case constants.StatusPending:
			stats.PendingTasks++
		case constants.StatusCompleted:
			stats.CompletedTasks++
		}
		if t.Status != constants.StatusCompleted && t.DueDate != nil && t.DueDate.Before(now) {
			stats.OverdueTasks++
		}
	}
	return stats
}

// recentTasks expects tasks ordered newest first.
func recentTasks(tasks []model.Task, n int) []model.TaskListItem {
	if n > len(tasks) || n <= 0 {
		n = len(tasks)
	}
	items := make([]model.TaskListItem, n)
	for i := 0; i < n; i++ {
		items[i] = model.NewTaskListItem(tasks[i])
	}
	return items
}
