package utils

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger builds the root logger for the application. Debug mode
// lowers the level so per-stage detail shows up on the console.
func NewLogger(debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	writer := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}

	return zerolog.New(writer).
		Level(level).
		With().
		Timestamp().
		Logger()
}
