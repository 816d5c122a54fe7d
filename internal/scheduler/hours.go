package scheduler

import (
	"fmt"
	"strings"
	"time"
)

// BusinessHours is the daily UTC window in which meetings may take place,
// expressed as offsets from midnight.
type BusinessHours struct {
	Start time.Duration
	End   time.Duration
}

// DefaultBusinessHours is 09:00-17:00 UTC.
var DefaultBusinessHours = BusinessHours{Start: 9 * time.Hour, End: 17 * time.Hour}

// Validate checks that the window is non-empty and fits within one day.
func (b BusinessHours) Validate() error {
	if b.Start < 0 || b.End > 24*time.Hour || b.Start >= b.End {
		return fmt.Errorf("scheduler: invalid business hours %s", b)
	}
	return nil
}

// On returns the business window of the UTC day containing t.
func (b BusinessHours) On(t time.Time) (time.Time, time.Time) {
	day := startOfDay(t)
	return day.Add(b.Start), day.Add(b.End)
}

func (b BusinessHours) String() string {
	return formatClock(b.Start) + "-" + formatClock(b.End)
}

// ParseBusinessHours parses a window such as "09:00-17:00".
func ParseBusinessHours(value string) (BusinessHours, error) {
	from, to, ok := strings.Cut(strings.TrimSpace(value), "-")
	if !ok {
		return BusinessHours{}, fmt.Errorf("scheduler: business hours %q must look like 09:00-17:00", value)
	}
	start, err := parseClock(from)
	if err != nil {
		return BusinessHours{}, err
	}
	end, err := parseClock(to)
	if err != nil {
		return BusinessHours{}, err
	}
	hours := BusinessHours{Start: start, End: end}
	if err := hours.Validate(); err != nil {
		return BusinessHours{}, err
	}
	return hours, nil
}

func parseClock(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "24:00" {
		return 24 * time.Hour, nil
	}
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, fmt.Errorf("scheduler: invalid clock time %q: %w", value, err)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

func formatClock(d time.Duration) string {
	return fmt.Sprintf("%02d:%02d", int(d/time.Hour), int(d%time.Hour/time.Minute))
}

func startOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
