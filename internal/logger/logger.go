package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/issuetracker/issue-tracker-backend/config"
)

// New builds the process logger and installs it as the zerolog global.
// Development gets a human-readable console writer; everything else logs JSON.
func New(cfg config.AppConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var logger zerolog.Logger
	if cfg.Environment == "development" {
		output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		logger = zerolog.New(output).With().Timestamp().Logger()
	} else {
		zerolog.TimeFieldFormat = time.RFC3339
		logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	logger = logger.With().Str("service", cfg.ServiceName).Logger()
	log.Logger = logger
	return logger
}
