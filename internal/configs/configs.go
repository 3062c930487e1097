package config

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"task-manager.com/task-manager/internal/constants"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	RateLimitMemory = "memory"
	RateLimitRedis  = "redis"
)

type Config struct {
	Env                    string   `env:"APP_ENV" env-default:"local"`
	AppHost                string   `env:"APP_HOST" env-default:"127.0.0.1"`
	AppPort                string   `env:"APP_PORT" env-default:"8080"`
	DatabaseDriver         string   `env:"DATABASE_DRIVER" env-default:"sqlite"`
	DatabaseDSN            string   `env:"DATABASE_DSN" env-default:"tasks.db"`
	AdminInviteToken       string   `env:"ADMIN_INVITE_TOKEN"`
	RateLimit              int      `env:"RATE_LIMIT_PER_MINUTE" env-default:"60"`
	RateLimitBackend       string   `env:"RATE_LIMIT_BACKEND" env-default:"memory"`
	RedisHost              string   `env:"REDIS_HOST" env-default:"127.0.0.1"`
	RedisPort              string   `env:"REDIS_PORT" env-default:"6379"`
	RedisKeyPrefix         string   `env:"REDIS_KEY_PREFIX" env-default:"task_manager:rate_limit"`
	UploadDir              string   `env:"UPLOAD_DIR" env-default:"uploads"`
	UploadMaxBytes         int64    `env:"UPLOAD_MAX_BYTES" env-default:"5242880"`
	CORSOrigins            []string `env:"CORS_ORIGINS" env-separator:"," env-default:"http://localhost:5173"`
	ShutdownTimeoutSeconds int      `env:"SHUTDOWN_TIMEOUT_SECONDS" env-default:"20"`
	JWT                    JWTConfig
}

type JWTConfig struct {
	Secret string        `env:"JWT_SECRET"`
	Issuer string        `env:"JWT_ISSUER" env-default:"task-manager"`
	TTL    time.Duration `env:"JWT_TTL" env-default:"168h"`
}

func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) AppURL() string {
	return net.JoinHostPort(c.AppHost, c.AppPort)
}

func (c Config) RedisAddr() string {
	return net.JoinHostPort(c.RedisHost, c.RedisPort)
}

func (c Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

func (c Config) Validate() error {
	switch c.Env {
	case constants.EnvLocal, constants.EnvDev, constants.EnvProd:
	default:
		return fmt.Errorf("APP_ENV must be one of local, dev, prod (got %q)", c.Env)
	}
	if c.AppPort == "" {
		return errors.New("APP_PORT must not be empty (e.g. 8080)")
	}
	switch c.DatabaseDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("DATABASE_DRIVER must be sqlite or postgres (got %q)", c.DatabaseDriver)
	}
	if c.DatabaseDSN == "" {
		return errors.New("DATABASE_DSN must not be empty")
	}
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if c.JWT.TTL <= 0 {
		return errors.New("JWT_TTL must be greater than 0")
	}
	if c.RateLimit <= 0 {
		return errors.New("RATE_LIMIT_PER_MINUTE must be greater than 0")
	}
	switch c.RateLimitBackend {
	case RateLimitMemory, RateLimitRedis:
	default:
		return fmt.Errorf("RATE_LIMIT_BACKEND must be memory or redis (got %q)", c.RateLimitBackend)
	}
	if c.UploadMaxBytes <= 0 {
		return errors.New("UPLOAD_MAX_BYTES must be greater than 0")
	}
	if c.ShutdownTimeoutSeconds <= 0 {
		return errors.New("SHUTDOWN_TIMEOUT_SECONDS must be greater than 0")
	}
	return nil
}
