package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	config "task-manager.com/task-manager/internal/configs"
)

func bootstrapLogger() zerolog.Logger {
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

// loadEnvironment reads .env (if any) and the process environment into a
// validated config and a logger for it.
func loadEnvironment() (config.Config, zerolog.Logger, error) {
	if err := godotenv.Load(); err != nil {
		logger := bootstrapLogger()
		logger.Info().Msg(".env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, zerolog.Logger{}, err
	}

	return cfg, config.NewLogger(cfg.Env), nil
}

func openDatabase(cfg config.Config, logger zerolog.Logger) (*gorm.DB, error) {
	db, err := config.NewDatabaseClient(cfg.DatabaseDriver, cfg.DatabaseDSN, logger)
	if err != nil {
		return nil, err
	}
	if err := config.Migrate(db); err != nil {
		return nil, err
	}

	logger.Info().
		Str("driver", cfg.DatabaseDriver).
		Msg("connected to database")
	return db, nil
}

func closeDatabase(db *gorm.DB, logger zerolog.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Error().Err(err).Msg("failed to close database")
	}
}
