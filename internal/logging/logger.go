// Package logging constructs the process-wide zerolog logger. Components
// receive sub-loggers by injection; there is no package-level global.
package logging

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New builds the root logger. level is a zerolog level string ("debug",
// "info", ...); unknown values fall back to info. When pretty is set the
// human console writer is used instead of JSON, for local runs.
func New(level string, pretty bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	var out = os.Stderr
	logger := zerolog.New(out)
	if pretty {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly})
	}

	return logger.Level(lvl).With().Timestamp().Logger()
}
