package logutil

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"time"
)

// LevelTrace sits below debug and is used for per-merge training output.
const LevelTrace = slog.LevelDebug - 4

// NewLogger returns a text logger writing to w. Below info every record
// also carries the file and line that logged it.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:       level,
		AddSource:   level < slog.LevelInfo,
		ReplaceAttr: replaceAttr,
	}))
}

func replaceAttr(groups []string, attr slog.Attr) slog.Attr {
	if len(groups) > 0 {
		return attr
	}

	switch attr.Key {
	case slog.LevelKey:
		if level, ok := attr.Value.Any().(slog.Level); ok && level == LevelTrace {
			return slog.String(attr.Key, "TRACE")
		}
	case slog.SourceKey:
		if source, ok := attr.Value.Any().(*slog.Source); ok {
			return slog.String(attr.Key, fmt.Sprintf("%s:%d", filepath.Base(source.File), source.Line))
		}
	}

	return attr
}

// SetDefault installs a NewLogger as the process wide default.
func SetDefault(w io.Writer, level slog.Level) {
	slog.SetDefault(NewLogger(w, level))
}

// TraceEnabled reports whether the default logger keeps trace records.
func TraceEnabled() bool {
	return slog.Default().Enabled(context.Background(), LevelTrace)
}

// Trace logs at LevelTrace through the default logger, attributed to the
// caller of Trace.
func Trace(msg string, args ...any) {
	logger := slog.Default()
	if !logger.Enabled(context.Background(), LevelTrace) {
		return
	}

	// skip runtime.Callers and Trace
	var pcs [1]uintptr
	runtime.Callers(2, pcs[:])

	record := slog.NewRecord(time.Now(), LevelTrace, msg, pcs[0])
	record.Add(args...)
	_ = logger.Handler().Handle(context.Background(), record)
}
