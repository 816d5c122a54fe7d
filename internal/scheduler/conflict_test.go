package scheduler

import (
	"testing"
	"time"
)

func TestOverlaps(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, time.June, 20, 10, 0, 0, 0, time.UTC)
	at := func(minutes int) time.Time { return base.Add(time.Duration(minutes) * time.Minute) }

	cases := []struct {
		name string
		a, b [2]int
		want bool
	}{
		{name: "identical", a: [2]int{0, 60}, b: [2]int{0, 60}, want: true},
		{name: "partial", a: [2]int{0, 60}, b: [2]int{30, 90}, want: true},
		{name: "contained", a: [2]int{0, 60}, b: [2]int{10, 20}, want: true},
		{name: "touching end", a: [2]int{0, 60}, b: [2]int{60, 120}, want: false},
		{name: "touching start", a: [2]int{60, 120}, b: [2]int{0, 60}, want: false},
		{name: "disjoint", a: [2]int{0, 30}, b: [2]int{45, 90}, want: false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := Overlaps(at(tc.a[0]), at(tc.a[1]), at(tc.b[0]), at(tc.b[1]))
			if got != tc.want {
				t.Fatalf("Overlaps(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestDetectConflicts(t *testing.T) {
	t.Parallel()

	day := time.Date(2025, time.June, 20, 0, 0, 0, 0, time.UTC)
	existing := []Meeting{
		{ID: 1, ParticipantIDs: []int{1, 2}, Start: day.Add(10 * time.Hour), End: day.Add(11 * time.Hour)},
		{ID: 2, ParticipantIDs: []int{3}, Start: day.Add(10 * time.Hour), End: day.Add(11 * time.Hour)},
		{ID: 3, ParticipantIDs: []int{1}, Start: day.Add(11 * time.Hour), End: day.Add(12 * time.Hour)},
	}

	t.Run("participant overlap produces conflict", func(t *testing.T) {
		t.Parallel()
		candidate := Meeting{ParticipantIDs: []int{2, 4}, Start: day.Add(10*time.Hour + 30*time.Minute), End: day.Add(11*time.Hour + 30*time.Minute)}
		conflicts := DetectConflicts(existing, candidate)
		if len(conflicts) != 1 {
			t.Fatalf("expected one conflict, got %+v", conflicts)
		}
		if conflicts[0].WithMeetingID != 1 || conflicts[0].Participant != 2 {
			t.Fatalf("unexpected conflict %+v", conflicts[0])
		}
	})

	t.Run("every shared participant is reported", func(t *testing.T) {
		t.Parallel()
		candidate := Meeting{ParticipantIDs: []int{1, 2}, Start: day.Add(10 * time.Hour), End: day.Add(12 * time.Hour)}
		conflicts := DetectConflicts(existing, candidate)
		if len(conflicts) != 3 {
			t.Fatalf("expected three conflicts, got %+v", conflicts)
		}
	})

	t.Run("non-overlapping meetings yield no conflicts", func(t *testing.T) {
		t.Parallel()
		candidate := Meeting{ParticipantIDs: []int{1, 2, 3}, Start: day.Add(9 * time.Hour), End: day.Add(10 * time.Hour)}
		if conflicts := DetectConflicts(existing, candidate); len(conflicts) != 0 {
			t.Fatalf("expected no conflicts, got %+v", conflicts)
		}
	})

	t.Run("meeting does not conflict with itself", func(t *testing.T) {
		t.Parallel()
		if conflicts := DetectConflicts(existing, existing[0]); len(conflicts) != 0 {
			t.Fatalf("expected no self conflict, got %+v", conflicts)
		}
	})
}
