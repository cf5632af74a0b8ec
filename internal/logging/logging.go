// Package logging builds the application-wide slog logger.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// New returns a logger configured for the given environment: readable text with
// debug level in development, JSON at info level everywhere else.
func New(env string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var handler slog.Handler
	if strings.EqualFold(env, "development") {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
