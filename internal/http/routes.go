package http

import (
	"fmt"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	middleware "task-manager.com/task-manager/internal/http/middlewares"
)

func Register(e *echo.Echo, h *Handler, rateLimiter echo.MiddlewareFunc) {
	e.GET("/healthz", h.Healthz)
	e.Static("/uploads", h.uploads.Dir)

	api := e.Group("/api")
	if rateLimiter != nil {
		api.Use(rateLimiter)
	}

	protect := middleware.Authenticate(h.authService)
	adminOnly := middleware.AdminOnly()

	auth := api.Group("/auth")
	auth.POST("/register", h.Register)
	auth.POST("/login", h.Login)
	auth.GET("/profile", h.GetProfile, protect)
	auth.PUT("/profile", h.UpdateProfile, protect)
	auth.POST("/upload-image", h.UploadImage, echomw.BodyLimit(uploadBodyLimit(h.uploads.MaxBytes)))

	users := api.Group("/users", protect)
	users.GET("", h.ListUsers, adminOnly)
	users.GET("/:id", h.GetUser)
	users.DELETE("/:id", h.DeleteUser, adminOnly)

	tasks := api.Group("/tasks", protect)
	tasks.GET("/dashboard-data", h.DashboardData)
	tasks.GET("/user-dashboard-data", h.UserDashboardData)
	tasks.GET("", h.ListTasks)
	tasks.GET("/:id", h.GetTask)
	tasks.POST("", h.CreateTask, adminOnly)
	tasks.PUT("/:id", h.UpdateTask)
	tasks.DELETE("/:id", h.DeleteTask, adminOnly)
	tasks.PUT("/:id/status", h.UpdateTaskStatus)
	tasks.PUT("/:id/todo", h.UpdateTaskChecklist)

	reports := api.Group("/reports", protect, adminOnly)
	reports.GET("/export/tasks", h.ExportTasksReport)
	reports.GET("/export/users", h.ExportUsersReport)
}

// uploadBodyLimit leaves room for the multipart envelope around the file.
func uploadBodyLimit(maxBytes int64) string {
	return fmt.Sprintf("%dB", maxBytes+multipartOverhead)
}
