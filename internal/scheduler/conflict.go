package scheduler

import "time"

// Conflict details an existing meeting that double-books a participant of a candidate.
type Conflict struct {
	WithMeetingID int
	Participant   int
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Touching endpoints do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// DetectConflicts identifies conflicts for the candidate meeting against existing ones.
// One Conflict is reported per shared participant of each overlapping meeting.
// Meetings with the candidate's own id are ignored.
func DetectConflicts(existing []Meeting, candidate Meeting) []Conflict {
	var conflicts []Conflict
	for _, m := range existing {
		if candidate.ID != 0 && m.ID == candidate.ID {
			continue
		}
		if !Overlaps(m.Start, m.End, candidate.Start, candidate.End) {
			continue
		}
		for _, participant := range candidate.ParticipantIDs {
			if m.HasParticipant(participant) {
				conflicts = append(conflicts, Conflict{WithMeetingID: m.ID, Participant: participant})
			}
		}
	}
	return conflicts
}
