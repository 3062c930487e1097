package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"task-manager.com/task-manager/internal/services"
)

type Handler struct {
	taskService      *services.TaskService
	dashboardService *services.DashboardService
	reportService    *services.ReportService
	userService      *services.UserService
	authService      *services.AuthService
	uploads          UploadConfig
	logger           zerolog.Logger
}

// UploadConfig bounds profile image uploads.
type UploadConfig struct {
	Dir      string
	MaxBytes int64
}

type Services struct {
	Tasks     *services.TaskService
	Dashboard *services.DashboardService
	Reports   *services.ReportService
	Users     *services.UserService
	Auth      *services.AuthService
}

func NewHandler(svc Services, uploads UploadConfig, logger zerolog.Logger) *Handler {
	return &Handler{
		taskService:      svc.Tasks,
		dashboardService: svc.Dashboard,
		reportService:    svc.Reports,
		userService:      svc.Users,
		authService:      svc.Auth,
		uploads:          uploads,
		logger:           logger,
	}
}

func (h *Handler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
