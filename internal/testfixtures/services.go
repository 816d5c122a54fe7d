package testfixtures

import (
	"io"
	"log/slog"
	"testing"

	"github.com/example/meeting-scheduler/internal/application"
	"github.com/example/meeting-scheduler/internal/persistence"
	"github.com/example/meeting-scheduler/internal/scheduler"
)

// ServiceHarness wires the core and the application services with a
// controllable clock and an inspectable audit journal.
type ServiceHarness struct {
	Clock     *Clock
	Directory *scheduler.Directory
	Scheduler *scheduler.Scheduler
	Journal   persistence.AuditRepository
	Audit     *application.AuditService
	Users     *application.UserService
	Meetings  *application.MeetingService
	Logger    *slog.Logger
}

type harnessConfig struct {
	users    []scheduler.User
	meetings []scheduler.Meeting
	journal  persistence.AuditRepository
	clock    *Clock
	logger   *slog.Logger
	options  []scheduler.Option
}

// HarnessOption configures NewServiceHarness.
type HarnessOption func(*harnessConfig)

// WithUsers seeds the directory with Users(names...).
func WithUsers(names ...string) HarnessOption {
	return func(c *harnessConfig) {
		c.users = Users(names...)
	}
}

// WithMeetings seeds the scheduler.
func WithMeetings(meetings ...scheduler.Meeting) HarnessOption {
	return func(c *harnessConfig) {
		c.meetings = append(c.meetings, meetings...)
	}
}

// WithJournal replaces the default in-memory audit journal.
func WithJournal(journal persistence.AuditRepository) HarnessOption {
	return func(c *harnessConfig) {
		c.journal = journal
	}
}

// WithClock overrides the clock stamped on audit entries.
func WithClock(clock *Clock) HarnessOption {
	return func(c *harnessConfig) {
		c.clock = clock
	}
}

// WithLogger overrides the discard logger.
func WithLogger(logger *slog.Logger) HarnessOption {
	return func(c *harnessConfig) {
		c.logger = logger
	}
}

// WithSchedulerOptions forwards options to scheduler.NewScheduler.
func WithSchedulerOptions(opts ...scheduler.Option) HarnessOption {
	return func(c *harnessConfig) {
		c.options = append(c.options, opts...)
	}
}

// NewServiceHarness builds a harness and fails tb on seed errors.
func NewServiceHarness(tb testing.TB, opts ...HarnessOption) *ServiceHarness {
	tb.Helper()

	cfg := harnessConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.clock == nil {
		cfg.clock = NewClock(ReferenceTime())
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.journal == nil {
		cfg.journal = persistence.NewMemoryAuditLog()
	}

	directory, err := scheduler.NewDirectory(cfg.users)
	if err != nil {
		tb.Fatalf("failed to seed directory: %v", err)
	}
	sched, err := scheduler.NewScheduler(directory, cfg.meetings, cfg.options...)
	if err != nil {
		tb.Fatalf("failed to seed scheduler: %v", err)
	}

	audit := application.NewAuditService(cfg.journal, cfg.clock.NowFunc(), cfg.logger)
	return &ServiceHarness{
		Clock:     cfg.clock,
		Directory: directory,
		Scheduler: sched,
		Journal:   cfg.journal,
		Audit:     audit,
		Users:     application.NewUserServiceWithLogger(directory, audit, cfg.logger),
		Meetings:  application.NewMeetingServiceWithLogger(sched, directory, audit, cfg.logger),
		Logger:    cfg.logger,
	}
}
