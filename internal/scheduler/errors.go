package scheduler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrNoSlotAvailable reports that a well-formed request has no feasible
	// time. It is a business outcome, not a fault.
	ErrNoSlotAvailable = errors.New("scheduler: no slot available")
	// ErrAlreadyExists is returned when a directly inserted meeting reuses an id.
	ErrAlreadyExists = errors.New("scheduler: already exists")
)

// ValidationError captures field level validation issues that callers can surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error. The first message per field wins.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	if _, exists := v.FieldErrors[field]; exists {
		return
	}
	v.FieldErrors[field] = message
}

// BatchError reports the first meeting of an AddMeetings batch that was
// rejected. Nothing from the batch is stored.
type BatchError struct {
	Index int
	Err   error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("scheduler: batch meeting %d: %v", e.Index, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}

// UnknownParticipantsError is returned by ScheduleMeeting when a request
// names users missing from the directory. It unwraps to ErrNoSlotAvailable so
// callers that only care about "no slot" can keep a single branch.
type UnknownParticipantsError struct {
	IDs []int
}

func (e *UnknownParticipantsError) Error() string {
	ids := make([]string, len(e.IDs))
	for i, id := range e.IDs {
		ids[i] = strconv.Itoa(id)
	}
	return fmt.Sprintf("scheduler: unknown participants: %s", strings.Join(ids, ", "))
}

func (e *UnknownParticipantsError) Unwrap() error {
	return ErrNoSlotAvailable
}
