package application

import (
	"context"
	"errors"
	"log/slog"

	"github.com/example/meeting-scheduler/internal/logging"
)

func defaultLogger(logger *slog.Logger) *slog.Logger {
	return logging.FromContextOr(context.Background(), logger)
}

// serviceLogger tags the request scoped logger, or base, with the service
// and operation being run.
func serviceLogger(ctx context.Context, base *slog.Logger, serviceName, operation string, attrs ...any) *slog.Logger {
	pairs := make([]any, 0, 4+len(attrs))
	pairs = append(pairs, "service", serviceName)
	if operation != "" {
		pairs = append(pairs, "operation", operation)
	}
	return logging.FromContextOr(ctx, base).With(append(pairs, attrs...)...)
}

// ErrorKind maps sentinel and validation errors to a stable logging label.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}

	var unknown *UnknownParticipantsError
	if errors.As(err, &unknown) {
		return "unknown_participant"
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrAlreadyExists):
		return "already_exists"
	case errors.Is(err, ErrNoSlotAvailable):
		return "no_slot"
	}

	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return "validation"
	}

	return "unexpected"
}

// logOutcome logs a failed operation at a level matching its kind. Business
// outcomes such as "no slot" are not faults and stay at info.
func logOutcome(ctx context.Context, logger *slog.Logger, msg string, err error) {
	kind := ErrorKind(err)
	level := slog.LevelError
	switch kind {
	case "validation", "not_found", "no_slot", "unknown_participant", "already_exists":
		level = slog.LevelInfo
	}
	logger.Log(ctx, level, msg, "error", err, "error_kind", kind)
}
