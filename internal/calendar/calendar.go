// Package calendar converts meetings to and from iCalendar (RFC 5545) documents.
package calendar

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"

	"github.com/example/meeting-scheduler/internal/scheduler"
)

// ProductID identifies documents produced by Encode.
const ProductID = "-//meeting-scheduler//EN"

const attendeePrefix = "urn:meeting-scheduler:user:"

var uidNamespace = uuid.MustParse("6f1c7c4e-3f7a-4b8e-9a43-2b5d0c1e8f27")

// ErrInvalidEvent is returned by Decode for an event whose end is not after its start.
var ErrInvalidEvent = errors.New("calendar: invalid event")

// Event is a decoded VEVENT reduced to the fields the scheduler cares about.
type Event struct {
	UID       string
	Summary   string
	Start     time.Time
	End       time.Time
	Attendees []string
}

// MeetingUID returns the stable UID used for a meeting in exported calendars.
func MeetingUID(id int) string {
	return uuid.NewSHA1(uidNamespace, []byte("meeting-"+strconv.Itoa(id))).String()
}

// Encode writes meetings as a single VCALENDAR. names maps participant ids
// to display names; ids without a name are rendered as "user <id>".
func Encode(w io.Writer, meetings []scheduler.Meeting, names map[int]string) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, ProductID)

	stamp := time.Now().UTC()
	for _, m := range meetings {
		cal.Children = append(cal.Children, toEvent(m, names, stamp))
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encode calendar: %w", err)
	}
	return nil
}

func toEvent(m scheduler.Meeting, names map[int]string, stamp time.Time) *ical.Component {
	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, MeetingUID(m.ID))
	ve.Props.SetDateTime(ical.PropDateTimeStamp, stamp)
	ve.Props.SetDateTime(ical.PropDateTimeStart, m.Start.UTC())
	ve.Props.SetDateTime(ical.PropDateTimeEnd, m.End.UTC())

	display := make([]string, 0, len(m.ParticipantIDs))
	for _, id := range m.ParticipantIDs {
		name := displayName(names, id)
		display = append(display, name)

		p := ical.NewProp(ical.PropAttendee)
		p.SetText(attendeePrefix + strconv.Itoa(id))
		p.Params.Set(ical.ParamCommonName, name)
		ve.Props.Add(p)
	}
	ve.Props.SetText(ical.PropSummary, "Meeting: "+strings.Join(display, ", "))
	return ve
}

func displayName(names map[int]string, id int) string {
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return "user " + strconv.Itoa(id)
}

// Decode reads every VEVENT from r. Events missing DTSTART or DTEND are
// skipped; an event that ends at or before its start fails the whole decode.
func Decode(r io.Reader) ([]Event, error) {
	dec := ical.NewDecoder(r)
	var events []Event
	for {
		cal, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode calendar: %w", err)
		}

		for _, ve := range cal.Events() {
			event, ok, err := fromEvent(ve)
			if err != nil {
				return nil, err
			}
			if ok {
				events = append(events, event)
			}
		}
	}
	return events, nil
}

func fromEvent(ve ical.Event) (Event, bool, error) {
	startProp := ve.Props.Get(ical.PropDateTimeStart)
	endProp := ve.Props.Get(ical.PropDateTimeEnd)
	if startProp == nil || endProp == nil {
		return Event{}, false, nil
	}

	start, err := startProp.DateTime(time.UTC)
	if err != nil {
		return Event{}, false, fmt.Errorf("decode calendar: DTSTART: %w", err)
	}
	end, err := endProp.DateTime(time.UTC)
	if err != nil {
		return Event{}, false, fmt.Errorf("decode calendar: DTEND: %w", err)
	}

	uid, _ := ve.Props.Text(ical.PropUID)
	if !start.Before(end) {
		return Event{}, false, fmt.Errorf("%w: %q ends before it starts", ErrInvalidEvent, uid)
	}
	summary, _ := ve.Props.Text(ical.PropSummary)

	event := Event{
		UID:     uid,
		Summary: summary,
		Start:   start.UTC(),
		End:     end.UTC(),
	}
	for _, p := range ve.Props.Values(ical.PropAttendee) {
		if cn := p.Params.Get(ical.ParamCommonName); cn != "" {
			event.Attendees = append(event.Attendees, cn)
			continue
		}
		event.Attendees = append(event.Attendees, p.Value)
	}
	return event, true, nil
}
