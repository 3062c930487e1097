package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"task-manager.com/task-manager/internal/constants"
	dto "task-manager.com/task-manager/internal/data_models"
	apperrors "task-manager.com/task-manager/internal/errors"
	middleware "task-manager.com/task-manager/internal/http/middlewares"
	"task-manager.com/task-manager/internal/http/validators"
	"task-manager.com/task-manager/internal/services"
)

func (h *Handler) CreateTask(c echo.Context) error {
	var req dto.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrInvalidJSON
	}
	params, err := validators.ValidateCreateTaskRequest(&req)
	if err != nil {
		return err
	}

	task, err := h.taskService.CreateTask(c.Request().Context(), middleware.CurrentIdentity(c), params)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, task)
}

func (h *Handler) ListTasks(c echo.Context) error {
	var status *constants.TaskStatus
	if raw := c.QueryParam("status"); raw != "" && raw != "All" {
		s, err := validators.ParseStatus(raw)
		if err != nil {
			return err
		}
		status = &s
	}

	resp, err := h.taskService.ListTasks(c.Request().Context(), middleware.CurrentIdentity(c), status)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) GetTask(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return apperrors.ErrTaskIDRequired
	}

	task, err := h.taskService.GetTask(c.Request().Context(), middleware.CurrentIdentity(c), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, task)
}

func (h *Handler) UpdateTask(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return apperrors.ErrTaskIDRequired
	}

	var req dto.UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrInvalidJSON
	}
	params, err := validators.ValidateUpdateTaskRequest(&req)
	if err != nil {
		return err
	}

	task, err := h.taskService.UpdateTask(c.Request().Context(), middleware.CurrentIdentity(c), id, params)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, task)
}

func (h *Handler) DeleteTask(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return apperrors.ErrTaskIDRequired
	}

	if err := h.taskService.DeleteTask(c.Request().Context(), middleware.CurrentIdentity(c), id); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "task deleted successfully"})
}

func (h *Handler) UpdateTaskStatus(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return apperrors.ErrTaskIDRequired
	}

	var req dto.UpdateTaskStatusRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrInvalidJSON
	}
	status, err := validators.ValidateUpdateTaskStatusRequest(&req)
	if err != nil {
		return err
	}

	task, err := h.taskService.UpdateTaskStatus(c.Request().Context(), middleware.CurrentIdentity(c), id, status)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, task)
}

func (h *Handler) UpdateTaskChecklist(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return apperrors.ErrTaskIDRequired
	}

	var req dto.UpdateTaskChecklistRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrInvalidJSON
	}
	checklist, err := validators.ValidateUpdateTaskChecklistRequest(&req)
	if err != nil {
		return err
	}

	task, err := h.taskService.UpdateTaskChecklist(c.Request().Context(), middleware.CurrentIdentity(c), id, checklist)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, task)
}

func (h *Handler) DashboardData(c echo.Context) error {
	identity := middleware.CurrentIdentity(c)
	resp, err := h.dashboardService.Dashboard(c.Request().Context(), identity, services.DashboardOptions{
		RecentTasks:       services.AdminRecentTasks,
		IncludeStatistics: identity.IsAdmin(),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) UserDashboardData(c echo.Context) error {
	resp, err := h.dashboardService.Dashboard(c.Request().Context(), middleware.CurrentIdentity(c), services.DashboardOptions{
		RecentTasks: services.UserRecentTasks,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, resp)
}
