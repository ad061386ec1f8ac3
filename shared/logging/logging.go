// Package logging configures the process-wide zerolog logger.
package logging

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup builds the logger both services use and installs it as the global
// zerolog logger. service tags every event with the emitting process.
func Setup(service, level string) zerolog.Logger {
	logLevel, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		logLevel = zerolog.InfoLevel
		// The configured logger doesn't exist yet, so warn the plain way.
		fmt.Fprintf(os.Stderr, "Invalid log level %q, defaulting to info\n", level)
	}

	l := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(logLevel).
		With().
		Timestamp().
		Str("service", service).
		Logger()

	log.Logger = l
	zerolog.DefaultContextLogger = &l

	return l
}
