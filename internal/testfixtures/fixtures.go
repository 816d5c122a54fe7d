// Package testfixtures builds deterministic users, meetings and requests
// plus ready wired service and storage harnesses for tests.
package testfixtures

import (
	"fmt"
	"time"

	"github.com/example/meeting-scheduler/internal/scheduler"
)

// referenceDay is a Monday, so the working week follows without weekends.
var referenceDay = time.Date(2025, time.June, 23, 0, 0, 0, 0, time.UTC)

// ReferenceDay returns midnight UTC of the canonical fixture day.
func ReferenceDay() time.Time {
	return referenceDay
}

// ReferenceTime is the default clock instant: 08:00 on the reference day.
func ReferenceTime() time.Time {
	return referenceDay.Add(8 * time.Hour)
}

// At returns hour:minute UTC on the reference day shifted by dayOffset days.
func At(dayOffset, hour, minute int) time.Time {
	return referenceDay.AddDate(0, 0, dayOffset).
		Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

// Users returns directory seed users numbered from 1 in argument order.
func Users(names ...string) []scheduler.User {
	users := make([]scheduler.User, len(names))
	for i, name := range names {
		users[i] = scheduler.User{ID: i + 1, Name: name}
	}
	return users
}

// ---------------------------- Meeting fixtures ----------------------------

// MeetingOption configures a meeting fixture.
type MeetingOption func(*scheduler.Meeting)

// NewMeeting returns meeting id for participant 1 from 09:00 to 10:00 on the
// reference day, adjusted by opts.
func NewMeeting(id int, opts ...MeetingOption) scheduler.Meeting {
	m := scheduler.Meeting{
		ID:             id,
		ParticipantIDs: []int{1},
		Start:          At(0, 9, 0),
		End:            At(0, 10, 0),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// WithParticipants replaces the participant list.
func WithParticipants(ids ...int) MeetingOption {
	return func(m *scheduler.Meeting) {
		m.ParticipantIDs = append([]int(nil), ids...)
	}
}

// WithSpan sets the meeting interval.
func WithSpan(start, end time.Time) MeetingOption {
	return func(m *scheduler.Meeting) {
		m.Start = start
		m.End = end
	}
}

// WithStartFor sets the start and derives the end from minutes.
func WithStartFor(start time.Time, minutes int) MeetingOption {
	return func(m *scheduler.Meeting) {
		m.Start = start
		m.End = start.Add(time.Duration(minutes) * time.Minute)
	}
}

// ---------------------------- Request fixtures ----------------------------

// RequestOption configures a meeting request fixture.
type RequestOption func(*scheduler.MeetingRequest)

// NewRequest asks for 30 minutes within 09:00-17:00 on the reference day for
// the given participants.
func NewRequest(participants []int, opts ...RequestOption) scheduler.MeetingRequest {
	req := scheduler.MeetingRequest{
		ParticipantIDs:  append([]int(nil), participants...),
		DurationMinutes: 30,
		EarliestStart:   At(0, 9, 0),
		LatestEnd:       At(0, 17, 0),
	}
	for _, opt := range opts {
		opt(&req)
	}
	return req
}

// WithDuration overrides the requested length in minutes.
func WithDuration(minutes int) RequestOption {
	return func(r *scheduler.MeetingRequest) {
		r.DurationMinutes = minutes
	}
}

// WithWindow overrides the search window.
func WithWindow(earliest, latest time.Time) RequestOption {
	return func(r *scheduler.MeetingRequest) {
		r.EarliestStart = earliest
		r.LatestEnd = latest
	}
}

// Describe renders a meeting compactly for assertion messages.
func Describe(m scheduler.Meeting) string {
	return fmt.Sprintf("#%d %v %s-%s", m.ID, m.ParticipantIDs,
		m.Start.UTC().Format("2006-01-02T15:04"), m.End.UTC().Format("15:04"))
}
