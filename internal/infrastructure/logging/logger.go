package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/nerrad567/showcue-core/internal/infrastructure/config"
)

// ServiceName is attached to every log entry.
const ServiceName = "showcue"

// Logger wraps slog.Logger. Safe for concurrent use.
type Logger struct {
	*slog.Logger
}

// New creates a Logger from the logging config.
// node is the configured node ID and may be empty.
func New(cfg config.LoggingConfig, version, node string) *Logger {
	var output io.Writer
	switch strings.ToLower(cfg.Output) {
	case "stderr":
		output = os.Stderr
	default:
		output = os.Stdout
	}
	return newWithWriter(output, cfg, version, node)
}

func newWithWriter(w io.Writer, cfg config.LoggingConfig, version, node string) *Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "text":
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}

	attrs := []slog.Attr{
		slog.String("service", ServiceName),
		slog.String("version", version),
	}
	if node != "" {
		attrs = append(attrs, slog.String("node", node))
	}

	return &Logger{Logger: slog.New(handler.WithAttrs(attrs))}
}

// parseLevel maps a config level to slog, defaulting to info.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// With returns a Logger with additional default attributes.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

// Component returns a Logger tagged with component=name.
//
//	oscLog := logger.Component("osc")
//	oscLog.Info("listening", "port", 9000)
func (l *Logger) Component(name string) *Logger {
	return l.With("component", name)
}

// Default is used before configuration is loaded: JSON on stdout at info.
func Default() *Logger {
	return newWithWriter(os.Stdout, config.LoggingConfig{}, "unknown", "")
}
