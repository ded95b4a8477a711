package app

import (
	"io"
	"log/slog"
)

// newLogger builds the application's logger from its configured level and
// format. The CLI layer validates user input before it reaches here, so
// unrecognized values quietly fall back to info-level text logging. The
// returned logger is isolated: the process-global default is never touched.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(levelStr)}
	if formatStr == "json" {
		return slog.New(slog.NewJSONHandler(outW, opts))
	}
	return slog.New(slog.NewTextHandler(outW, opts))
}

func parseLevel(levelStr string) slog.Level {
	switch levelStr {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
