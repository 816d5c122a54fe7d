package testfixtures

import (
	"context"
	"testing"
	"time"

	"github.com/example/meeting-scheduler/internal/scheduler"
)

func TestReferenceDayIsMonday(t *testing.T) {
	if wd := ReferenceDay().Weekday(); wd != time.Monday {
		t.Fatalf("expected Monday, got %s", wd)
	}
	if got := At(2, 14, 30); !got.Equal(time.Date(2025, time.June, 25, 14, 30, 0, 0, time.UTC)) {
		t.Fatalf("unexpected At result %v", got)
	}
}

func TestMeetingAndRequestFixtures(t *testing.T) {
	m := NewMeeting(3, WithParticipants(2, 1), WithStartFor(At(0, 13, 0), 45))
	if got := Describe(m); got != "#3 [2 1] 2025-06-23T13:00-13:45" {
		t.Fatalf("unexpected meeting %s", got)
	}

	req := NewRequest([]int{1}, WithDuration(60), WithWindow(At(1, 9, 0), At(1, 12, 0)))
	if req.Duration() != time.Hour || !req.EarliestStart.Equal(At(1, 9, 0)) {
		t.Fatalf("unexpected request %+v", req)
	}
	if err := req.Validate(); err != nil {
		t.Fatalf("fixture request should be valid: %v", err)
	}
}

func TestServiceHarnessAuditsWithClock(t *testing.T) {
	h := NewServiceHarness(t,
		WithUsers("Alice", "Bob"),
		WithMeetings(NewMeeting(1, WithParticipants(1, 2))),
		WithJournal(NewSQLiteAuditStore(t)),
	)
	ctx := context.Background()

	h.Clock.Set(At(0, 8, 15))
	meeting, err := h.Meetings.CreateMeeting(ctx, NewRequest([]int{1, 2}))
	if err != nil {
		t.Fatalf("CreateMeeting returned error: %v", err)
	}
	if !meeting.Start.Equal(At(0, 10, 0)) {
		t.Fatalf("expected booking after the seeded meeting, got %s", Describe(meeting))
	}

	entries, err := h.Audit.List(ctx, 0)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(entries) != 1 || !entries[0].At.Equal(At(0, 8, 15)) {
		t.Fatalf("unexpected audit entries %+v", entries)
	}
}

func TestServiceHarnessForwardsSchedulerOptions(t *testing.T) {
	hours, err := scheduler.ParseBusinessHours("13:00-15:00")
	if err != nil {
		t.Fatalf("ParseBusinessHours returned error: %v", err)
	}
	h := NewServiceHarness(t,
		WithUsers("Alice"),
		WithSchedulerOptions(scheduler.WithBusinessHours(hours), scheduler.WithStep(15*time.Minute)),
	)

	if got := h.Scheduler.BusinessHours().String(); got != "13:00-15:00" {
		t.Fatalf("expected custom business hours, got %s", got)
	}
	meeting, err := h.Meetings.CreateMeeting(context.Background(), NewRequest([]int{1}))
	if err != nil {
		t.Fatalf("CreateMeeting returned error: %v", err)
	}
	if !meeting.Start.Equal(At(0, 13, 0)) {
		t.Fatalf("expected booking at the start of business hours, got %s", Describe(meeting))
	}
}
