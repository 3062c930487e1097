package dto

import model "task-manager.com/task-manager/internal/models"

type MessageResponse struct {
	Message string `json:"message"`
}

type AuthResponse struct {
	model.User
	Token string `json:"token"`
}

type ImageUploadResponse struct {
	ImageURL string `json:"imageUrl"`
}

type StatusSummary struct {
	All             int64 `json:"all"`
	PendingTasks    int64 `json:"pendingTasks"`
	InProgressTasks int64 `json:"inProgressTasks"`
	CompletedTasks  int64 `json:"completedTasks"`
}

type TaskListResponse struct {
	Tasks         []model.TaskListItem `json:"tasks"`
	StatusSummary StatusSummary        `json:"statusSummary"`
}

// TaskDistribution keys are the status labels with spaces removed.
type TaskDistribution struct {
	All        int `json:"All"`
	Pending    int `json:"Pending"`
	InProgress int `json:"InProgress"`
	Completed  int `json:"Completed"`
}

type TaskPriorityLevels struct {
	Low    int `json:"Low"`
	Medium int `json:"Medium"`
	High   int `json:"High"`
}

type DashboardCharts struct {
	TaskDistribution   TaskDistribution   `json:"taskDistribution"`
	TaskPriorityLevels TaskPriorityLevels `json:"taskPriorityLevels"`
}

type DashboardStatistics struct {
	TotalTasks     int `json:"totalTasks"`
	PendingTasks   int `json:"pendingTasks"`
	CompletedTasks int `json:"completedTasks"`
	OverdueTasks   int `json:"overdueTasks"`
}

type DashboardResponse struct {
	Statistics  *DashboardStatistics `json:"statistics,omitempty"`
	Charts      DashboardCharts      `json:"charts"`
	RecentTasks []model.TaskListItem `json:"recentTasks"`
}
