// Package logger provides the application's zerolog loggers.
package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a logger tagged with the given component. Dev mode switches
// to the human-readable console writer.
func New(component string, dev bool) zerolog.Logger {
	if dev {
		writer := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		return zerolog.New(writer).With().Timestamp().Str("component", component).Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Str("component", component).Logger()
}
