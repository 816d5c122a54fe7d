package scheduler

import (
	"slices"
	"time"
)

// User is a registered meeting participant.
type User struct {
	ID   int
	Name string
}

// Meeting is a booked interval shared by a set of participants. Start is
// always strictly before End.
type Meeting struct {
	ID             int
	ParticipantIDs []int
	Start          time.Time
	End            time.Time
}

// HasParticipant reports whether userID takes part in the meeting.
func (m Meeting) HasParticipant(userID int) bool {
	_, found := slices.BinarySearch(m.ParticipantIDs, userID)
	return found
}

// MeetingRequest asks the scheduler for the earliest free slot of the given
// duration inside [EarliestStart, LatestEnd).
type MeetingRequest struct {
	ParticipantIDs  []int
	DurationMinutes int
	EarliestStart   time.Time
	LatestEnd       time.Time
}

// Duration returns the requested meeting length.
func (r MeetingRequest) Duration() time.Duration {
	return time.Duration(r.DurationMinutes) * time.Minute
}

// Slot is a candidate interval produced by the search.
type Slot struct {
	Start time.Time
	End   time.Time
}

func cloneMeeting(m Meeting) Meeting {
	m.ParticipantIDs = slices.Clone(m.ParticipantIDs)
	return m
}

func cloneMeetings(meetings []Meeting) []Meeting {
	out := make([]Meeting, len(meetings))
	for i, m := range meetings {
		out[i] = cloneMeeting(m)
	}
	return out
}

// normalizeParticipants returns the ids sorted ascending without duplicates.
func normalizeParticipants(ids []int) []int {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}
