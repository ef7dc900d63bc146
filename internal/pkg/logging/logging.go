// Package logging builds the process logger in the ECS JSON layout used by
// the HTTP request logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/go-chi/httplog/v3"
)

const appName = "cleaner-calendar"

type Options struct {
	Level   string
	Env     string
	Version string
	// Output defaults to stdout.
	Output io.Writer
}

// New returns a JSON logger tagged with app, version and env.
func New(opts Options) *slog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	logFormat := httplog.SchemaECS.Concise(opts.Env != "production")
	handler := slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level:       ParseLevel(opts.Level),
		ReplaceAttr: logFormat.ReplaceAttr,
	})
	return slog.New(handler).With(
		slog.String("app", appName),
		slog.String("version", opts.Version),
		slog.String("env", opts.Env),
	)
}

// ParseLevel maps debug, info, warn and error to slog levels. Anything else
// is info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
