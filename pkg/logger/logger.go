package logger

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

var base = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

// Init replaces the process logger. Production gets JSON lines, everything else text.
func Init(environment, level string) {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var h slog.Handler
	if environment == "production" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	base = slog.New(h)
	slog.SetDefault(base)
}

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

func Slog() *slog.Logger {
	return base
}

// With returns a logger carrying the given key/value attributes.
func With(args ...any) *slog.Logger {
	return base.With(args...)
}

func Info(format string, v ...interface{}) {
	base.Info(fmt.Sprintf(format, v...))
}

func Error(format string, v ...interface{}) {
	base.Error(fmt.Sprintf(format, v...))
}

func Debug(format string, v ...interface{}) {
	base.Debug(fmt.Sprintf(format, v...))
}

func Warn(format string, v ...interface{}) {
	base.Warn(fmt.Sprintf(format, v...))
}

func LogOrderError(orderID, action string, err error) {
	base.Warn("order side effect failed", "action", action, "order_id", orderID, "error", err)
}
