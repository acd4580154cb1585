// Package logging configures the daemon's structured logger, grounded
// on the rest-of-corpus zerolog idiom (e.g. helixml-helix's cmd/hydra
// main.go): parse a level string, set it globally, and use a
// ConsoleWriter for human-readable terminal output.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Configure sets the global zerolog level from levelStr (defaulting to
// info on an unparseable value) and installs either a pretty console
// writer (pretty=true, for interactive terminals) or raw JSON output
// (for systemd/journald capture).
func Configure(levelStr string, pretty bool) {
	level, err := zerolog.ParseLevel(levelStr)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var w io.Writer = os.Stderr
	if pretty {
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
}

// For returns a child logger tagged with a component name, the pattern
// used throughout internal/ so every log line is attributable to its
// originating subsystem (reconciler, gpu, video, ipc, ...).
func For(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}
