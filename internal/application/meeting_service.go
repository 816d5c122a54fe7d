package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/example/meeting-scheduler/internal/calendar"
	"github.com/example/meeting-scheduler/internal/metrics"
	"github.com/example/meeting-scheduler/internal/scheduler"
)

// MeetingStore captures the scheduler operations needed by the meeting service.
type MeetingStore interface {
	ScheduleMeeting(req scheduler.MeetingRequest) (scheduler.Meeting, error)
	FindSlots(req scheduler.MeetingRequest, limit int) ([]scheduler.Slot, error)
	AddMeeting(m scheduler.Meeting) (scheduler.Meeting, error)
	AddMeetings(batch []scheduler.Meeting) ([]scheduler.Meeting, error)
	Conflicts(m scheduler.Meeting) []scheduler.Conflict
	Meeting(id int) (scheduler.Meeting, bool)
	Meetings() []scheduler.Meeting
	MeetingsForUser(userID int) []scheduler.Meeting
	DeleteMeeting(id int) bool
	Count() int
}

// UserLookup resolves participant ids to users.
type UserLookup interface {
	Get(id int) (scheduler.User, bool)
}

// DefaultSlotLimit is used by FindSlots when the caller passes no limit.
const DefaultSlotLimit = 5

// MaxSlotLimit caps the number of candidates returned by FindSlots.
const MaxSlotLimit = 50

// MeetingService orchestrates scheduling, auditing, and calendar exchange.
type MeetingService struct {
	meetings MeetingStore
	users    UserLookup
	audit    *AuditService
	logger   *slog.Logger
}

// NewMeetingService wires dependencies for meeting operations.
func NewMeetingService(meetings MeetingStore, users UserLookup, audit *AuditService) *MeetingService {
	return NewMeetingServiceWithLogger(meetings, users, audit, nil)
}

// NewMeetingServiceWithLogger constructs a meeting service with a specified logger.
func NewMeetingServiceWithLogger(meetings MeetingStore, users UserLookup, audit *AuditService, logger *slog.Logger) *MeetingService {
	if meetings != nil {
		metrics.SetMeetingsStored(meetings.Count())
	}
	return &MeetingService{meetings: meetings, users: users, audit: audit, logger: defaultLogger(logger)}
}

func (s *MeetingService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "MeetingService", operation, attrs...)
}

func (s *MeetingService) ready() error {
	if s == nil || s.meetings == nil {
		return fmt.Errorf("MeetingService is not configured")
	}
	return nil
}

// CreateMeeting books the earliest free slot satisfying req.
func (s *MeetingService) CreateMeeting(ctx context.Context, req scheduler.MeetingRequest) (meeting scheduler.Meeting, err error) {
	if err := s.ready(); err != nil {
		return scheduler.Meeting{}, err
	}

	logger := s.loggerWith(ctx, "CreateMeeting",
		"participant_count", len(req.ParticipantIDs),
		"duration_minutes", req.DurationMinutes,
	)
	defer func() {
		metrics.RecordScheduleAttempt(scheduleOutcome(err))
		metrics.RecordOperation("create_meeting", err)
		if err != nil {
			logOutcome(ctx, logger, "failed to schedule meeting", err)
			return
		}
		logger.With(
			"meeting_id", meeting.ID,
			"start", meeting.Start,
			"end", meeting.End,
		).InfoContext(ctx, "meeting scheduled")
	}()

	started := time.Now()
	meeting, err = s.meetings.ScheduleMeeting(req)
	metrics.ObserveSearch("schedule", started)
	if err != nil {
		return scheduler.Meeting{}, err
	}

	metrics.SetMeetingsStored(s.meetings.Count())
	s.audit.Record(ctx, ActionMeetingScheduled, meetingTarget(meeting.ID), describeMeeting(meeting))
	return meeting, nil
}

func scheduleOutcome(err error) string {
	var unknown *UnknownParticipantsError
	var vErr *ValidationError
	switch {
	case err == nil:
		return metrics.OutcomeScheduled
	case errors.As(err, &unknown):
		return metrics.OutcomeUnknownParticipant
	case errors.Is(err, ErrNoSlotAvailable):
		return metrics.OutcomeNoSlot
	case errors.As(err, &vErr):
		return metrics.OutcomeInvalid
	default:
		return "error"
	}
}

// FindSlots lists up to limit feasible slots without booking any of them.
// A non-positive limit means DefaultSlotLimit; limits above MaxSlotLimit are capped.
func (s *MeetingService) FindSlots(ctx context.Context, req scheduler.MeetingRequest, limit int) (slots []scheduler.Slot, err error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultSlotLimit
	}
	if limit > MaxSlotLimit {
		limit = MaxSlotLimit
	}

	logger := s.loggerWith(ctx, "FindSlots", "limit", limit)
	defer func() {
		metrics.RecordOperation("find_slots", err)
		if err != nil {
			logOutcome(ctx, logger, "failed to find slots", err)
			return
		}
		logger.With("result_count", len(slots)).DebugContext(ctx, "slots found")
	}()

	started := time.Now()
	slots, err = s.meetings.FindSlots(req, limit)
	metrics.ObserveSearch("find_slots", started)
	return slots, err
}

// AddMeeting stores a meeting without searching, for imports and seeding.
func (s *MeetingService) AddMeeting(ctx context.Context, m scheduler.Meeting) (meeting scheduler.Meeting, err error) {
	if err := s.ready(); err != nil {
		return scheduler.Meeting{}, err
	}

	logger := s.loggerWith(ctx, "AddMeeting")
	defer func() {
		metrics.RecordOperation("add_meeting", err)
		if err != nil {
			logOutcome(ctx, logger, "failed to add meeting", err)
			return
		}
		logger.With("meeting_id", meeting.ID).InfoContext(ctx, "meeting added")
	}()

	meeting, err = s.meetings.AddMeeting(m)
	if err != nil {
		return scheduler.Meeting{}, err
	}
	if conflicts := s.meetings.Conflicts(meeting); len(conflicts) > 0 {
		logger.With("meeting_id", meeting.ID, "conflicts", len(conflicts)).
			WarnContext(ctx, "added meeting double-books participants")
	}

	metrics.SetMeetingsStored(s.meetings.Count())
	s.audit.Record(ctx, ActionMeetingAdded, meetingTarget(meeting.ID), describeMeeting(meeting))
	return meeting, nil
}

// GetMeeting returns the meeting with the given id or ErrNotFound.
func (s *MeetingService) GetMeeting(ctx context.Context, id int) (scheduler.Meeting, error) {
	if err := s.ready(); err != nil {
		return scheduler.Meeting{}, err
	}

	meeting, ok := s.meetings.Meeting(id)
	if !ok {
		s.loggerWith(ctx, "GetMeeting", "meeting_id", id).DebugContext(ctx, "meeting not found")
		return scheduler.Meeting{}, ErrNotFound
	}
	return meeting, nil
}

// ListMeetings returns every stored meeting in insertion order.
func (s *MeetingService) ListMeetings(ctx context.Context) ([]scheduler.Meeting, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.meetings.Meetings(), nil
}

// ListMeetingsForUser returns the meetings userID takes part in. Unknown
// users simply have no meetings.
func (s *MeetingService) ListMeetingsForUser(ctx context.Context, userID int) ([]scheduler.Meeting, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.meetings.MeetingsForUser(userID), nil
}

// DeleteMeeting removes a meeting. Deleting an absent meeting succeeds and
// reports false.
func (s *MeetingService) DeleteMeeting(ctx context.Context, id int) (bool, error) {
	if err := s.ready(); err != nil {
		return false, err
	}

	removed := s.meetings.DeleteMeeting(id)
	metrics.RecordOperation("delete_meeting", nil)

	logger := s.loggerWith(ctx, "DeleteMeeting", "meeting_id", id)
	if !removed {
		logger.DebugContext(ctx, "meeting already absent")
		return false, nil
	}

	metrics.SetMeetingsStored(s.meetings.Count())
	s.audit.Record(ctx, ActionMeetingDeleted, meetingTarget(id), "")
	logger.InfoContext(ctx, "meeting deleted")
	return true, nil
}

// ExportCalendar writes meetings as iCalendar. A userID of zero exports
// every meeting; otherwise only that user's meetings.
func (s *MeetingService) ExportCalendar(ctx context.Context, w io.Writer, userID int) error {
	if err := s.ready(); err != nil {
		return err
	}

	meetings := s.meetings.Meetings()
	if userID != 0 {
		meetings = s.meetings.MeetingsForUser(userID)
	}

	names := make(map[int]string)
	if s.users != nil {
		for _, m := range meetings {
			for _, id := range m.ParticipantIDs {
				if _, seen := names[id]; seen {
					continue
				}
				if user, ok := s.users.Get(id); ok {
					names[id] = user.Name
				}
			}
		}
	}

	err := calendar.Encode(w, meetings, names)
	metrics.RecordOperation("export_calendar", err)
	if err != nil {
		s.loggerWith(ctx, "ExportCalendar").ErrorContext(ctx, "failed to export calendar", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	s.loggerWith(ctx, "ExportCalendar", "user_id", userID).With("result_count", len(meetings)).InfoContext(ctx, "calendar exported")
	return nil
}

// ImportCalendar reads events from r and stores each as a busy meeting of
// userID. The user must exist. A malformed document imports nothing.
func (s *MeetingService) ImportCalendar(ctx context.Context, userID int, r io.Reader) (imported []scheduler.Meeting, err error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	logger := s.loggerWith(ctx, "ImportCalendar", "user_id", userID)
	defer func() {
		metrics.RecordOperation("import_calendar", err)
		if err != nil {
			logOutcome(ctx, logger, "failed to import calendar", err)
			return
		}
		logger.With("result_count", len(imported)).InfoContext(ctx, "calendar imported")
	}()

	if s.users == nil {
		return nil, fmt.Errorf("user lookup not configured")
	}
	if _, ok := s.users.Get(userID); !ok {
		return nil, ErrNotFound
	}

	events, err := calendar.Decode(r)
	if err != nil {
		return nil, fieldError("calendar", err.Error())
	}

	batch := make([]scheduler.Meeting, len(events))
	for i, event := range events {
		batch[i] = scheduler.Meeting{
			ParticipantIDs: []int{userID},
			Start:          event.Start,
			End:            event.End,
		}
	}

	imported, err = s.meetings.AddMeetings(batch)
	if err != nil {
		var bErr *scheduler.BatchError
		if errors.As(err, &bErr) && bErr.Index < len(events) {
			return nil, fmt.Errorf("import event %q: %w", events[bErr.Index].UID, bErr.Err)
		}
		return nil, err
	}

	metrics.SetMeetingsStored(s.meetings.Count())
	s.audit.Record(ctx, ActionCalendarImported, userTarget(userID), strconv.Itoa(len(imported))+" events")
	return imported, nil
}

func describeMeeting(m scheduler.Meeting) string {
	return fmt.Sprintf("%s-%s participants=%v",
		m.Start.UTC().Format(time.RFC3339), m.End.UTC().Format(time.RFC3339), m.ParticipantIDs)
}
