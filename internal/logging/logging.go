// Package logging configures the process-wide slog logger. Logs are JSON on
// stderr so stdout stays reserved for program output.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// EnvLevel names the environment variable holding the log level.
const EnvLevel = "LOG_LEVEL"

// ParseLevel maps DEBUG, INFO, WARN and ERROR (any case) to a slog level.
// Anything else, including the empty string, yields WARN.
func ParseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// New returns a JSON logger writing to w at level, tagged with the program
// name.
func New(w io.Writer, level slog.Level, program string) *slog.Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(h).With("program", program)
}

// Init builds a logger from LOG_LEVEL, installs it as the slog default and
// returns it.
func Init(program string) *slog.Logger {
	logger := New(os.Stderr, ParseLevel(os.Getenv(EnvLevel)), program)
	slog.SetDefault(logger)
	return logger
}
