package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New creates a zerolog logger. Level comes from LOG_LEVEL; development
// environments get pretty console output, everything else gets JSON.
func New(service string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	var level zerolog.Level
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	default:
		level = zerolog.InfoLevel
	}

	if os.Getenv("ENV") == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			Level(level).
			With().
			Timestamp().
			Str("service", service).
			Logger()
	}

	return zerolog.New(os.Stdout).
		Level(level).
		With().
		Timestamp().
		Str("service", service).
		Logger()
}
