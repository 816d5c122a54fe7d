package scheduler

import (
	"fmt"
	"math"
)

const (
	// MinDurationMinutes is the shortest meeting that can be requested.
	MinDurationMinutes = 1
	// MaxDurationMinutes is the longest meeting that can be requested (one working day).
	MaxDurationMinutes = 480
)

// Validate checks the shape of the request. It never consults stored state.
func (r MeetingRequest) Validate() error {
	if vErr := validateRequest(r); vErr.HasErrors() {
		return vErr
	}
	return nil
}

func validateRequest(r MeetingRequest) *ValidationError {
	vErr := &ValidationError{}

	if len(r.ParticipantIDs) == 0 {
		vErr.add("participantIds", "at least one participant is required")
	}

	if r.DurationMinutes < MinDurationMinutes || r.DurationMinutes > MaxDurationMinutes {
		vErr.add("durationMinutes", fmt.Sprintf("duration must be between %d and %d minutes", MinDurationMinutes, MaxDurationMinutes))
	}

	if r.EarliestStart.IsZero() {
		vErr.add("earliestStart", "earliest start is required")
	}
	if r.LatestEnd.IsZero() {
		vErr.add("latestEnd", "latest end is required")
	}

	if !r.EarliestStart.IsZero() && !r.LatestEnd.IsZero() {
		if !r.EarliestStart.Before(r.LatestEnd) {
			vErr.add("window", "earliest start must be before latest end")
		} else if r.DurationMinutes > 0 && r.Duration() > r.LatestEnd.Sub(r.EarliestStart) {
			vErr.add("durationMinutes", "duration does not fit in the requested window")
		}
	}

	return vErr
}

func validateMeeting(m Meeting) *ValidationError {
	vErr := &ValidationError{}
	switch {
	case m.ID < 0:
		vErr.add("id", "id must not be negative")
	case m.ID == math.MaxInt:
		vErr.add("id", "id is out of range")
	}
	if len(m.ParticipantIDs) == 0 {
		vErr.add("participantIds", "at least one participant is required")
	}
	if m.Start.IsZero() {
		vErr.add("start", "start is required")
	}
	if m.End.IsZero() {
		vErr.add("end", "end is required")
	}
	if !m.Start.IsZero() && !m.End.IsZero() && !m.Start.Before(m.End) {
		vErr.add("time", "start must be before end")
	}
	return vErr
}
