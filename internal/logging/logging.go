// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New returns a logger writing to w. Development builds get the human
// readable console writer; everything else logs JSON lines.
func New(w io.Writer, level string, dev bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	if dev {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}

	return zerolog.New(w).Level(lvl).With().Timestamp().Str("service", "scrapvalue").Logger()
}

// Setup builds the stdout logger and installs it as the global one.
func Setup(level string, dev bool) zerolog.Logger {
	logger := New(os.Stdout, level, dev)
	log.Logger = logger
	return logger
}
