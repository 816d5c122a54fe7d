package scheduler

import "time"

// DefaultStep is the distance between two consecutive candidate start times.
const DefaultStep = time.Minute

// searchSlots walks the request window day by day and returns up to limit
// non-overlapping feasible slots in chronological order. busy must contain the
// meetings of the requested participants; other meetings are irrelevant.
//
// Candidates on a given day are start + k*step where start is the later of
// the window start and that day's opening time. When a candidate collides with
// a busy meeting the walk jumps to the first grid point at or after the
// meeting's end, which yields the same answer as stepping one grid point at a
// time.
func searchSlots(busy []Meeting, req MeetingRequest, hours BusinessHours, step time.Duration, limit int) []Slot {
	if step <= 0 {
		step = DefaultStep
	}
	duration := req.Duration()
	earliest := req.EarliestStart.UTC()
	latest := req.LatestEnd.UTC()

	var slots []Slot
	for day := startOfDay(earliest); day.Before(latest); day = day.AddDate(0, 0, 1) {
		open, closing := hours.On(day)
		from := laterOf(earliest, open)
		until := earlierOf(latest, closing)

		for candidate := from; !candidate.Add(duration).After(until); {
			end := candidate.Add(duration)
			if blockedUntil, blocked := latestBlockingEnd(busy, candidate, end); blocked {
				candidate = nextGridPoint(candidate, blockedUntil, step)
				continue
			}
			slots = append(slots, Slot{Start: candidate, End: end})
			if limit > 0 && len(slots) >= limit {
				return slots
			}
			candidate = nextGridPoint(candidate, end, step)
		}
	}
	return slots
}

// latestBlockingEnd returns the furthest end among busy meetings overlapping [start, end).
func latestBlockingEnd(busy []Meeting, start, end time.Time) (time.Time, bool) {
	var (
		until   time.Time
		blocked bool
	)
	for _, m := range busy {
		if !Overlaps(m.Start, m.End, start, end) {
			continue
		}
		if !blocked || m.End.After(until) {
			until = m.End
		}
		blocked = true
	}
	return until, blocked
}

// nextGridPoint returns the first point from + k*step (k >= 1) that is not before target.
func nextGridPoint(from, target time.Time, step time.Duration) time.Time {
	gap := target.Sub(from)
	k := gap / step
	if gap%step != 0 {
		k++
	}
	if k < 1 {
		k = 1
	}
	return from.Add(k * step)
}

func laterOf(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earlierOf(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
