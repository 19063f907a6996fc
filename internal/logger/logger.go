// Package logger configures the process-wide zerolog logger.
package logger

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Init builds the root logger. Level falls back to info when unrecognized.
// Pretty switches to human-readable console output for interactive use;
// the default is JSON structured logs on stderr.
func Init(level string, pretty bool) zerolog.Logger {
	lvl := parseLevel(level)

	if pretty {
		out := zerolog.ConsoleWriter{Out: os.Stderr}
		return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}

// Nop returns a disabled logger for tests and library callers that do not
// want output.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "trace":
		return zerolog.TraceLevel
	default:
		return zerolog.InfoLevel
	}
}
