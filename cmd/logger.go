package cmd

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Options are the flags shared by every command.
type Options struct {
	LogLevel  string
	LogFormat string
}

// SetupLogger writes to stderr so command output on stdout stays parseable.
func SetupLogger(level, format string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	if format == "console" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
			With().
			Timestamp().
			Logger()
	}
	return zerolog.New(os.Stderr).
		With().
		Timestamp().
		Logger()
}
