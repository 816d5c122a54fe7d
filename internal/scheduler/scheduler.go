package scheduler

import (
	"fmt"
	"slices"
	"sync"
	"time"
)

// ParticipantChecker answers whether a user id is registered.
type ParticipantChecker interface {
	Exists(id int) bool
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithBusinessHours overrides the daily window meetings must fit in.
func WithBusinessHours(hours BusinessHours) Option {
	return func(s *Scheduler) {
		s.hours = hours
	}
}

// WithStep overrides the distance between candidate start times.
func WithStep(step time.Duration) Option {
	return func(s *Scheduler) {
		if step > 0 {
			s.step = step
		}
	}
}

// Scheduler owns the meeting collection and finds earliest-fit slots.
//
// Every operation runs under a single lock, so ScheduleMeeting's search and
// insert are atomic with respect to concurrent callers.
type Scheduler struct {
	mu        sync.RWMutex
	directory ParticipantChecker
	hours     BusinessHours
	step      time.Duration
	meetings  []Meeting
	ids       map[int]struct{}
	nextID    int
}

// NewScheduler returns a scheduler backed by directory and pre-populated with
// seed meetings. Seed meetings must have positive unique ids and valid
// intervals; they may reference users the directory does not know.
func NewScheduler(directory ParticipantChecker, seed []Meeting, opts ...Option) (*Scheduler, error) {
	if directory == nil {
		return nil, fmt.Errorf("scheduler: directory is required")
	}
	s := &Scheduler{
		directory: directory,
		hours:     DefaultBusinessHours,
		step:      DefaultStep,
		ids:       make(map[int]struct{}, len(seed)),
		nextID:    1,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.hours.Validate(); err != nil {
		return nil, err
	}
	for _, m := range seed {
		if m.ID <= 0 {
			return nil, fmt.Errorf("scheduler: seed meeting has non-positive id %d", m.ID)
		}
		if _, err := s.insertLocked(m); err != nil {
			return nil, fmt.Errorf("scheduler: seed meeting %d: %w", m.ID, err)
		}
	}
	return s, nil
}

// BusinessHours returns the daily window used by the search.
func (s *Scheduler) BusinessHours() BusinessHours {
	return s.hours
}

// ScheduleMeeting books the earliest slot that satisfies the request.
//
// It returns a *ValidationError for malformed requests, an
// *UnknownParticipantsError when a participant is not registered and
// ErrNoSlotAvailable when the window holds no feasible slot. The latter two
// both match errors.Is(err, ErrNoSlotAvailable).
func (s *Scheduler) ScheduleMeeting(req MeetingRequest) (Meeting, error) {
	if err := req.Validate(); err != nil {
		return Meeting{}, err
	}
	participants := normalizeParticipants(req.ParticipantIDs)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkParticipants(participants); err != nil {
		return Meeting{}, err
	}

	slots := searchSlots(s.busyLocked(participants, req), req, s.hours, s.step, 1)
	if len(slots) == 0 {
		return Meeting{}, ErrNoSlotAvailable
	}

	meeting := Meeting{
		ID:             s.nextID,
		ParticipantIDs: participants,
		Start:          slots[0].Start,
		End:            slots[0].End,
	}
	return s.insertLocked(meeting)
}

// FindSlots lists up to limit feasible, mutually non-overlapping slots for
// the request without booking any of them. A non-positive limit returns every
// slot in the window.
func (s *Scheduler) FindSlots(req MeetingRequest, limit int) ([]Slot, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	participants := normalizeParticipants(req.ParticipantIDs)

	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.checkParticipants(participants); err != nil {
		return nil, err
	}
	return searchSlots(s.busyLocked(participants, req), req, s.hours, s.step, limit), nil
}

// AddMeeting inserts a meeting without searching. A zero id asks the store to
// allocate the next one; otherwise the caller is responsible for uniqueness
// and a reused id is rejected with ErrAlreadyExists. Conflicts with existing
// meetings are not checked.
func (s *Scheduler) AddMeeting(m Meeting) (Meeting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.ID == 0 {
		m.ID = s.nextID
	}
	return s.insertLocked(m)
}

// AddMeetings inserts a batch like AddMeeting, all or nothing. Every meeting
// is checked before any is stored; the first rejection is returned as a
// *BatchError and leaves the store unchanged.
func (s *Scheduler) AddMeetings(batch []Meeting) ([]Meeting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prepared := make([]Meeting, len(batch))
	claimed := make(map[int]struct{}, len(batch))
	next := s.nextID
	for i, m := range batch {
		if m.ID == 0 {
			m.ID = next
		}
		if vErr := validateMeeting(m); vErr.HasErrors() {
			return nil, &BatchError{Index: i, Err: vErr}
		}
		_, stored := s.ids[m.ID]
		_, repeated := claimed[m.ID]
		if stored || repeated {
			return nil, &BatchError{Index: i, Err: fmt.Errorf("%w: meeting %d", ErrAlreadyExists, m.ID)}
		}
		claimed[m.ID] = struct{}{}
		if m.ID >= next {
			next = m.ID + 1
		}
		prepared[i] = m
	}

	out := make([]Meeting, 0, len(prepared))
	for _, m := range prepared {
		stored, err := s.insertLocked(m)
		if err != nil {
			return nil, err
		}
		out = append(out, stored)
	}
	return out, nil
}

// Conflicts reports stored meetings that double-book a participant of m.
func (s *Scheduler) Conflicts(m Meeting) []Conflict {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return DetectConflicts(s.meetings, m)
}

// Meeting returns the meeting with the given id.
func (s *Scheduler) Meeting(id int) (Meeting, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.ids[id]; !ok {
		return Meeting{}, false
	}
	idx := slices.IndexFunc(s.meetings, func(m Meeting) bool { return m.ID == id })
	return cloneMeeting(s.meetings[idx]), true
}

// Meetings returns every stored meeting in insertion order.
func (s *Scheduler) Meetings() []Meeting {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneMeetings(s.meetings)
}

// MeetingsForUser returns the meetings userID takes part in, in insertion
// order. Unknown users simply have no meetings.
func (s *Scheduler) MeetingsForUser(userID int) []Meeting {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Meeting, 0)
	for _, m := range s.meetings {
		if m.HasParticipant(userID) {
			out = append(out, cloneMeeting(m))
		}
	}
	return out
}

// Count returns the number of stored meetings.
func (s *Scheduler) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.meetings)
}

// DeleteMeeting removes the meeting and reports whether it existed. Deleting
// an absent id is a no-op.
func (s *Scheduler) DeleteMeeting(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[id]; !ok {
		return false
	}
	delete(s.ids, id)
	s.meetings = slices.DeleteFunc(s.meetings, func(m Meeting) bool { return m.ID == id })
	return true
}

func (s *Scheduler) checkParticipants(participants []int) error {
	var missing []int
	for _, id := range participants {
		if !s.directory.Exists(id) {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return &UnknownParticipantsError{IDs: missing}
	}
	return nil
}

// busyLocked returns the meetings of any participant that intersect the request window.
func (s *Scheduler) busyLocked(participants []int, req MeetingRequest) []Meeting {
	var busy []Meeting
	for _, m := range s.meetings {
		if !Overlaps(m.Start, m.End, req.EarliestStart, req.LatestEnd) {
			continue
		}
		for _, p := range participants {
			if m.HasParticipant(p) {
				busy = append(busy, m)
				break
			}
		}
	}
	return busy
}

func (s *Scheduler) insertLocked(m Meeting) (Meeting, error) {
	if vErr := validateMeeting(m); vErr.HasErrors() {
		return Meeting{}, vErr
	}
	if _, exists := s.ids[m.ID]; exists {
		return Meeting{}, fmt.Errorf("%w: meeting %d", ErrAlreadyExists, m.ID)
	}

	stored := Meeting{
		ID:             m.ID,
		ParticipantIDs: normalizeParticipants(m.ParticipantIDs),
		Start:          m.Start.UTC(),
		End:            m.End.UTC(),
	}
	s.meetings = append(s.meetings, stored)
	s.ids[stored.ID] = struct{}{}
	if stored.ID >= s.nextID {
		s.nextID = stored.ID + 1
	}
	return cloneMeeting(stored), nil
}
