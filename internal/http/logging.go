package http

import (
	"context"
	"log/slog"

	"github.com/example/meeting-scheduler/internal/logging"
)

func defaultLogger(logger *slog.Logger) *slog.Logger {
	return logging.FromContextOr(context.Background(), logger)
}

// handlerLogger prefers the request scoped logger installed by RequestLogger
// and tags it with the handler, the operation and any path identifiers the
// router resolved.
func handlerLogger(ctx context.Context, fallback *slog.Logger, handlerName, operation string, attrs ...any) *slog.Logger {
	logger := logging.FromContextOr(ctx, fallback)

	pairs := make([]any, 0, 8+len(attrs))
	pairs = append(pairs, "handler", handlerName)
	if operation != "" {
		pairs = append(pairs, "operation", operation)
	}
	if id, ok := MeetingIDFromContext(ctx); ok {
		pairs = append(pairs, "path_meeting_id", id)
	}
	if id, ok := UserIDFromContext(ctx); ok {
		pairs = append(pairs, "path_user_id", id)
	}
	return logger.With(append(pairs, attrs...)...)
}
