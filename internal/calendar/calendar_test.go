package calendar

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/example/meeting-scheduler/internal/scheduler"
)

var testDay = time.Date(2025, time.June, 20, 0, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return testDay.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	meetings := []scheduler.Meeting{
		{ID: 1, ParticipantIDs: []int{1, 2}, Start: at(10, 0), End: at(10, 30)},
		{ID: 7, ParticipantIDs: []int{3}, Start: at(14, 15), End: at(15, 0)},
	}
	names := map[int]string{1: "Alice", 2: "Bob"}

	var buf bytes.Buffer
	if err := Encode(&buf, meetings, names); err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	if !strings.Contains(buf.String(), ProductID) {
		t.Fatalf("expected product id in output, got:\n%s", buf.String())
	}

	events, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}

	first := events[0]
	if first.UID != MeetingUID(1) {
		t.Fatalf("expected uid %s, got %s", MeetingUID(1), first.UID)
	}
	if !first.Start.Equal(at(10, 0)) || !first.End.Equal(at(10, 30)) {
		t.Fatalf("unexpected interval %s - %s", first.Start, first.End)
	}
	if first.Summary != "Meeting: Alice, Bob" {
		t.Fatalf("unexpected summary %q", first.Summary)
	}
	if len(first.Attendees) != 2 || first.Attendees[0] != "Alice" || first.Attendees[1] != "Bob" {
		t.Fatalf("unexpected attendees %v", first.Attendees)
	}

	if got := events[1].Attendees; len(got) != 1 || got[0] != "user 3" {
		t.Fatalf("expected fallback attendee name, got %v", got)
	}
}

func TestMeetingUIDIsStable(t *testing.T) {
	t.Parallel()

	if MeetingUID(42) != MeetingUID(42) {
		t.Fatal("expected identical uids for the same meeting")
	}
	if MeetingUID(1) == MeetingUID(2) {
		t.Fatal("expected distinct uids for distinct meetings")
	}
}

func icsDocument(events ...string) string {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//test//EN",
	}
	for _, event := range events {
		lines = append(lines, strings.Split(event, "\n")...)
	}
	lines = append(lines, "END:VCALENDAR", "")
	return strings.Join(lines, "\r\n")
}

func TestDecodeSkipsEventsWithoutBounds(t *testing.T) {
	t.Parallel()

	doc := icsDocument(
		"BEGIN:VEVENT\nUID:a\nDTSTAMP:20250101T000000Z\nDTSTART:20250620T090000Z\nDTEND:20250620T100000Z\nEND:VEVENT",
		"BEGIN:VEVENT\nUID:b\nDTSTAMP:20250101T000000Z\nDTSTART:20250620T110000Z\nEND:VEVENT",
	)

	events, err := Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if len(events) != 1 || events[0].UID != "a" {
		t.Fatalf("expected only event a, got %+v", events)
	}
	if !events[0].Start.Equal(at(9, 0)) {
		t.Fatalf("unexpected start %s", events[0].Start)
	}
}

func TestDecodeRejectsInvertedEvent(t *testing.T) {
	t.Parallel()

	doc := icsDocument(
		"BEGIN:VEVENT\nUID:bad\nDTSTAMP:20250101T000000Z\nDTSTART:20250620T100000Z\nDTEND:20250620T100000Z\nEND:VEVENT",
	)

	_, err := Decode(strings.NewReader(doc))
	if !errors.Is(err, ErrInvalidEvent) {
		t.Fatalf("expected ErrInvalidEvent, got %v", err)
	}
}

func TestDecodeEmptyInput(t *testing.T) {
	t.Parallel()

	events, err := Decode(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected no events, got %d", len(events))
	}
}
