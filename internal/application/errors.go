package application

import (
	"errors"

	"github.com/example/meeting-scheduler/internal/scheduler"
)

var (
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrNoSlotAvailable is returned when no feasible time exists for a request.
	ErrNoSlotAvailable = scheduler.ErrNoSlotAvailable
	// ErrAlreadyExists is returned when a direct insertion reuses a meeting id.
	ErrAlreadyExists = scheduler.ErrAlreadyExists
)

// ValidationError captures field level validation issues that callers can surface to users.
type ValidationError = scheduler.ValidationError

// UnknownParticipantsError lists requested participants missing from the directory.
type UnknownParticipantsError = scheduler.UnknownParticipantsError

func fieldError(field, message string) *ValidationError {
	return &ValidationError{FieldErrors: map[string]string{field: message}}
}
