package shared

import (
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/rs/zerolog"
)

// SetupLogger configures zerolog with pretty console output
func SetupLogger(debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// SetupStructuredLogger configures zerolog for structured (JSON) output
func SetupStructuredLogger(debug bool) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	return zerolog.New(os.Stderr).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// NewLogger returns the stderr logger used by the batch commands. Without
// debug only warnings and errors are shown so the summary stays readable.
func NewLogger(debug bool) *log.Logger {
	if debug {
		return log.NewWithOptions(os.Stderr, log.Options{Level: log.DebugLevel})
	}
	return log.NewWithOptions(os.Stderr, log.Options{Level: log.WarnLevel})
}
