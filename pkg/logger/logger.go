package logger

import (
	"log/slog"
	"os"
	"strings"
)

// New returns a slog.Logger tagged with the given service name. Output is
// JSON; in development (APP_ENV=development) a text handler is used instead
// so local logs stay readable.
func New(service string, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if strings.EqualFold(os.Getenv("APP_ENV"), "development") {
		h = slog.NewTextHandler(os.Stdout, opts)
	} else {
		h = slog.NewJSONHandler(os.Stdout, opts)
	}
	return slog.New(h).With("service", service)
}
