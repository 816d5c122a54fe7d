package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/example/meeting-scheduler/internal/scheduler"
)

//go:embed demo_seed.yaml
var demoSeed []byte

// Seed is the initial content of the directory and the meeting store.
type Seed struct {
	Users    []SeedUser    `yaml:"users"`
	Meetings []SeedMeeting `yaml:"meetings"`
}

// SeedUser is one user entry of a seed document.
type SeedUser struct {
	ID   int    `yaml:"id"`
	Name string `yaml:"name"`
}

// SeedMeeting is one meeting entry of a seed document.
type SeedMeeting struct {
	ID           int       `yaml:"id"`
	Participants []int     `yaml:"participants"`
	Start        time.Time `yaml:"start"`
	End          time.Time `yaml:"end"`
}

// DemoSeed returns the built-in demo data set.
func DemoSeed() Seed {
	seed, err := ParseSeed(bytes.NewReader(demoSeed))
	if err != nil {
		panic(fmt.Sprintf("config: embedded demo seed is invalid: %v", err))
	}
	return seed
}

// LoadSeed reads a YAML seed document from path.
func LoadSeed(path string) (Seed, error) {
	f, err := os.Open(path)
	if err != nil {
		return Seed{}, fmt.Errorf("config: open seed: %w", err)
	}
	defer f.Close()

	seed, err := ParseSeed(f)
	if err != nil {
		return Seed{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return seed, nil
}

// ParseSeed decodes a YAML seed document. Unknown keys are rejected and
// meetings must carry both start and end; id and name rules are enforced
// when the seed is handed to the directory and scheduler.
func ParseSeed(r io.Reader) (Seed, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var seed Seed
	if err := dec.Decode(&seed); err != nil && !errors.Is(err, io.EOF) {
		return Seed{}, fmt.Errorf("decode seed: %w", err)
	}

	for _, m := range seed.Meetings {
		if m.Start.IsZero() || m.End.IsZero() {
			return Seed{}, fmt.Errorf("seed meeting %d: start and end are required", m.ID)
		}
	}
	return seed, nil
}

// DirectoryUsers converts the seed users for scheduler.NewDirectory.
func (s Seed) DirectoryUsers() []scheduler.User {
	users := make([]scheduler.User, len(s.Users))
	for i, u := range s.Users {
		users[i] = scheduler.User{ID: u.ID, Name: u.Name}
	}
	return users
}

// SchedulerMeetings converts the seed meetings for scheduler.NewScheduler.
func (s Seed) SchedulerMeetings() []scheduler.Meeting {
	meetings := make([]scheduler.Meeting, len(s.Meetings))
	for i, m := range s.Meetings {
		meetings[i] = scheduler.Meeting{
			ID:             m.ID,
			ParticipantIDs: append([]int(nil), m.Participants...),
			Start:          m.Start.UTC(),
			End:            m.End.UTC(),
		}
	}
	return meetings
}
