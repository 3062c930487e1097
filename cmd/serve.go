package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"

	config "task-manager.com/task-manager/internal/configs"
	httpapi "task-manager.com/task-manager/internal/http"
	middleware "task-manager.com/task-manager/internal/http/middlewares"
	"task-manager.com/task-manager/internal/ratelimit"
	repository "task-manager.com/task-manager/internal/repositories"
	"task-manager.com/task-manager/internal/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Starts the task manager HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadEnvironment()
		if err != nil {
			return err
		}

		db, err := openDatabase(cfg, logger)
		if err != nil {
			return err
		}
		defer closeDatabase(db, logger)

		if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
			return err
		}

		var counter ratelimit.Counter = ratelimit.NewMemoryCounter()
		if cfg.RateLimitBackend == config.RateLimitRedis {
			redisClient, err := config.NewRedisClient(cfg.RedisAddr())
			if err != nil {
				return err
			}
			defer redisClient.Close()
			counter = ratelimit.NewRedisCounter(redisClient, cfg.RedisKeyPrefix)
			logger.Info().Str("addr", cfg.RedisAddr()).Msg("using redis rate limiter")
		}

		taskRepo := repository.NewTaskRepository(db)
		userRepo := repository.NewUserRepository(db)
		hasher := services.NewArgon2Hasher(nil)

		handler := httpapi.NewHandler(httpapi.Services{
			Tasks:     services.NewTaskService(taskRepo, userRepo, logger),
			Dashboard: services.NewDashboardService(taskRepo, logger),
			Reports:   services.NewReportService(taskRepo, userRepo, logger),
			Users:     services.NewUserService(userRepo, taskRepo, hasher, logger),
			Auth: services.NewAuthService(userRepo, hasher, services.AuthConfig{
				SigningKey:       []byte(cfg.JWT.Secret),
				Issuer:           cfg.JWT.Issuer,
				TTL:              cfg.JWT.TTL,
				AdminInviteToken: cfg.AdminInviteToken,
			}, logger),
		}, httpapi.UploadConfig{
			Dir:      cfg.UploadDir,
			MaxBytes: cfg.UploadMaxBytes,
		}, logger)

		e := echo.New()
		e.HideBanner = true
		e.HidePort = true
		e.HTTPErrorHandler = httpapi.NewErrorHandler(logger)
		e.Use(echomw.Recover())
		e.Use(echomw.RequestID())
		e.Use(middleware.RequestLogger(logger))
		e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
			AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
			AllowCredentials: true,
		}))

		httpapi.Register(e, handler, middleware.RateLimiter(counter, cfg.RateLimit, time.Minute, logger))

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		go func() {
			logger.Info().Str("addr", cfg.AppURL()).Msg("HTTP server listening")
			if err := e.Start(cfg.AppURL()); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Msg("server stopped")
				stop()
			}
		}()

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shut down http server")
		}

		logger.Info().Msg("HTTP server shut down gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
