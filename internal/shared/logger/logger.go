package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the root logger. devMode switches to a human-readable console
// writer at debug level; otherwise logs are JSON at info level.
func New(devMode bool) zerolog.Logger {
	return newWithWriter(os.Stderr, devMode)
}

func newWithWriter(w io.Writer, devMode bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if devMode {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
		level = zerolog.DebugLevel
	}

	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Str("service", "mediverify").
		Logger()
}
