package levito

import (
	"context"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/hupe1980/levito/solver"
)

// Logger wraps slog.Logger with levito-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithID adds an object id field to the logger.
func (l *Logger) WithID(id ObjectID) *Logger {
	return &Logger{
		Logger: l.Logger.With("id", uint64(id)),
	}
}

// WithRun tags every record with a solve run id.
func (l *Logger) WithRun(run uuid.UUID) *Logger {
	return &Logger{
		Logger: l.Logger.With("run", run.String()),
	}
}

// LogCreate logs an object creation.
func (l *Logger) LogCreate(ctx context.Context, id ObjectID, shape Shape, targets int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "create failed",
			"shape", string(shape),
			"targets", targets,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "object created",
			"id", uint64(id),
			"shape", string(shape),
			"targets", targets,
		)
	}
}

// LogMove logs a move operation.
func (l *Logger) LogMove(ctx context.Context, id ObjectID, revision uint64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "move failed",
			"id", uint64(id),
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "object moved",
			"id", uint64(id),
			"revision", revision,
		)
	}
}

// LogDelete logs a delete operation.
func (l *Logger) LogDelete(ctx context.Context, id ObjectID, found bool) {
	l.DebugContext(ctx, "delete completed",
		"id", uint64(id),
		"found", found,
	)
}

// LogSolve logs one solver run. Tag the logger with WithRun first.
func (l *Logger) LogSolve(ctx context.Context, targets int, res *solver.Result, err error) {
	if err != nil {
		l.ErrorContext(ctx, "solve failed",
			"targets", targets,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "solve completed",
		"targets", targets,
		"fitness", res.Fitness,
		"generation", res.Generation,
		"evaluations", res.Evaluations,
		"duration", res.Duration,
	)
}

// LogSnapshot logs a snapshot operation.
func (l *Logger) LogSnapshot(ctx context.Context, name string, objects int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot failed",
			"name", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "snapshot saved",
			"name", name,
			"objects", objects,
		)
	}
}

// LogRestore logs a restore operation.
func (l *Logger) LogRestore(ctx context.Context, name string, objects int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "restore failed",
			"name", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "snapshot restored",
			"name", name,
			"objects", objects,
		)
	}
}
